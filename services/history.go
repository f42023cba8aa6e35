package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"trader-bot/discord"
	"trader-bot/models"
	"trader-bot/utils"
)

const historyPageSize = 100

var (
	// Rows in the current report layout: 20-char item, 9-char grade, then
	// the amount, price and statistics columns.
	reportRowPattern = regexp.MustCompile(`^(.{20}) \| (.{9}) \| x(\d+)\s*\| ([\d,]+(?:\.\d+)?)\s*\|`)
	// Rows in the earliest report layout: item/grade/amount/price only,
	// 6-char grade, price at end of line.
	legacyRowPattern = regexp.MustCompile(`^(.{20}) \| (.{6}) \| x(\d+)\s*\| ([\d,]+(?:\.\d+)?)\s*$`)
	// Loose shape used only to count lines that looked like data rows but
	// failed the strict patterns.
	looseRowPattern = regexp.MustCompile(`\| x\d`)
)

// HistoryResult is the outcome of one history reconstruction pass.
type HistoryResult struct {
	Records  []models.OfferRecord
	Messages int // report messages parsed
	Dropped  int // row-shaped lines that failed parsing
}

// HistoryService reconstructs historical price observations by re-parsing
// the bot's own previously posted reports. There is no other store: the
// channel transcript is the system of record, rebuilt fresh every run.
type HistoryService struct {
	source discord.MessageSource
	botID  string
	limit  int
	logger *utils.Logger
}

// NewHistoryService creates a HistoryService reading up to limit recent
// messages. Only messages authored by botID and carrying the report marker
// are parsed.
func NewHistoryService(source discord.MessageSource, botID string, limit int, logger *utils.Logger) *HistoryService {
	return &HistoryService{source: source, botID: botID, limit: limit, logger: logger}
}

// Collect walks the channel backwards in pages of up to 100 messages until
// the limit is reached or the channel is exhausted. Records come newest
// message first; row order within a message is preserved.
func (h *HistoryService) Collect(ctx context.Context) (HistoryResult, error) {
	var res HistoryResult
	before := ""
	scanned := 0

	for scanned < h.limit {
		size := historyPageSize
		if rem := h.limit - scanned; rem < size {
			size = rem
		}

		page, err := h.source.Messages(ctx, size, before)
		if err != nil {
			return HistoryResult{}, fmt.Errorf("history: fetch page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, msg := range page {
			scanned++
			if msg.AuthorID != h.botID || !strings.Contains(msg.Content, ReportMarker) {
				continue
			}
			records, dropped := ParseReport(msg.Content)
			res.Records = append(res.Records, records...)
			res.Dropped += dropped
			res.Messages++
		}

		before = page[len(page)-1].ID
	}

	h.logger.Debug("[history] %d offers from %d reports (%d messages scanned, %d rows dropped)",
		len(res.Records), res.Messages, scanned, res.Dropped)
	return res, nil
}

// ParseReport extracts the offer rows out of one rendered report message.
// Both the current and the legacy table layout are understood. Lines that
// look like data rows but fail the strict patterns are dropped and counted.
func ParseReport(content string) ([]models.OfferRecord, int) {
	var records []models.OfferRecord
	dropped := 0

	for _, line := range strings.Split(content, "\n") {
		m := reportRowPattern.FindStringSubmatch(line)
		if m == nil {
			m = legacyRowPattern.FindStringSubmatch(line)
		}
		if m == nil {
			if looseRowPattern.MatchString(line) {
				dropped++
			}
			continue
		}

		rec, ok := rowToRecord(m)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	return records, dropped
}

func rowToRecord(m []string) (models.OfferRecord, bool) {
	item := strings.TrimSpace(m[1])
	grade := strings.TrimSpace(m[2])
	if item == "" || grade == "" {
		return models.OfferRecord{}, false
	}

	amount, err := strconv.Atoi(m[3])
	if err != nil || amount <= 0 {
		return models.OfferRecord{}, false
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(m[4], ",", ""), 64)
	if err != nil {
		return models.OfferRecord{}, false
	}

	return models.OfferRecord{
		Item:   item,
		Grade:  grade,
		Amount: amount,
		Price:  price,
		Kind:   models.PerBatch,
	}, true
}
