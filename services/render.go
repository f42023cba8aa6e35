package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trader-bot/models"
)

// ReportMarker identifies a channel message as one of this bot's reports.
// The history extractor filters on it, so it must never change without a
// matching change in ParseReport.
const ReportMarker = "📦 Daily Trader Offers"

const (
	itemWidth   = models.MatchKeyLength
	gradeWidth  = 9
	amountWidth = 6 // digits after the "x" prefix
	priceWidth  = 8
)

// Renderer formats reconciled offers into the fixed-width table the bot
// posts. The layout doubles as the serialization format ParseReport reads
// back on later runs, so renderer and parser are two halves of one wire
// format and must change together.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render produces the full message: marker line with the date, then the
// offer table wrapped in a code block for monospace display.
func (r *Renderer) Render(rows []models.ReconciledOffer, day time.Time) string {
	header := fmt.Sprintf("%s | %s | %s | %s | %s | %s | %s | Flag",
		pad("Item", itemWidth),
		pad("Grade", gradeWidth),
		pad("Amount", amountWidth+1),
		pad("Price", priceWidth),
		pad("Avg", priceWidth),
		pad("Min", priceWidth),
		pad("Max", priceWidth))

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** — %s\n```\n", ReportMarker, day.Format("2006-01-02"))
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")

	for _, row := range rows {
		avg, min, max := "new", "new", "new"
		if row.Stats != nil {
			avg = strconv.FormatFloat(row.Stats.Avg, 'f', 2, 64)
			min = formatPrice(row.Stats.Min)
			max = formatPrice(row.Stats.Max)
		}
		flag := "🟥"
		if row.Favorable {
			flag = "🟩"
		}

		// item and grade are position-fixed for the parser, so they
		// truncate; numeric columns pad but never truncate.
		fmt.Fprintf(&b, "%s | %s | x%-*d | %-*s | %-*s | %-*s | %-*s | %s\n",
			pad(row.Offer.Item, itemWidth),
			pad(row.Offer.Grade, gradeWidth),
			amountWidth, row.Offer.Amount,
			priceWidth, formatPrice(row.Offer.Price),
			priceWidth, avg,
			priceWidth, min,
			priceWidth, max,
			flag)
	}

	b.WriteString("```")
	return b.String()
}

// pad hard-truncates s to w characters (no ellipsis) and right-pads
// shorter values with spaces.
func pad(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
