package trader

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"trader-bot/config"
	"trader-bot/models"
	"trader-bot/utils"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper logs into the game site and extracts today's trader offers.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a ready-to-use trader Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger}
}

// Scrape runs the full fetch on a fresh cookie session: login (or cookie
// bypass), account warm-up, trader page, table extraction. A non-2xx
// response or a missing offer table fails the whole run; malformed rows are
// dropped silently and counted.
func (s *Scraper) Scrape(ctx context.Context) ([]models.OfferRecord, int, error) {
	client := resty.New().
		SetHeader("User-Agent", browserUA).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	if s.cfg.SessionCookie != "" {
		s.logger.Info("[trader] Using configured session cookie — skipping login")
		client.SetHeader("Cookie", s.cfg.SessionCookie)
	} else if err := s.login(ctx, client); err != nil {
		return nil, 0, err
	}

	// The site only attaches the trader subpage to a session that has
	// visited the account page, hence the warm-up request.
	if err := s.get(ctx, client, s.cfg.AccountURL, "account page"); err != nil {
		return nil, 0, err
	}

	res, err := client.R().SetContext(ctx).Get(s.cfg.TraderURL)
	if err != nil {
		return nil, 0, fmt.Errorf("trader: fetch trader page: %w", err)
	}
	if res.IsError() {
		return nil, 0, fmt.Errorf("trader: trader page returned %s", res.Status())
	}

	offers, dropped, err := ParseOffers(res.Body())
	if err != nil {
		return nil, 0, err
	}
	s.logger.Info("[trader] Extracted %d offers (%d rows dropped)", len(offers), dropped)
	return offers, dropped, nil
}

func (s *Scraper) login(ctx context.Context, client *resty.Client) error {
	res, err := client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"login":  s.cfg.SiteUsername,
			"passwd": s.cfg.SitePassword,
		}).
		Post(s.cfg.LoginURL)
	if err != nil {
		return fmt.Errorf("trader: login request: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("trader: login returned %s", res.Status())
	}
	return nil
}

func (s *Scraper) get(ctx context.Context, client *resty.Client, url, what string) error {
	res, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("trader: fetch %s: %w", what, err)
	}
	if res.IsError() {
		return fmt.Errorf("trader: %s returned %s", what, res.Status())
	}
	return nil
}

// ParseOffers extracts offer rows from the trader page HTML, in table
// order. The header row and structural rows (colspan spacers, short rows)
// are skipped outright; rows with a missing or unparsable required field
// are dropped and counted.
func ParseOffers(page []byte) ([]models.OfferRecord, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, 0, fmt.Errorf("trader: parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, 0, fmt.Errorf("trader: offer table not found")
	}

	var offers []models.OfferRecord
	dropped := 0
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || row.Find("th").Length() > 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		if _, informational := cells.First().Attr("colspan"); informational {
			return
		}

		var fields []string
		cells.Each(func(_ int, cell *goquery.Selection) {
			fields = append(fields, strings.TrimSpace(cell.Text()))
		})

		offer, ok := rowToOffer(fields)
		if !ok {
			dropped++
			return
		}
		offers = append(offers, offer)
	})

	return offers, dropped, nil
}

func rowToOffer(fields []string) (models.OfferRecord, bool) {
	item, grade, amountRaw, priceRaw := fields[0], fields[1], fields[2], fields[3]
	if item == "" || grade == "" || amountRaw == "" || priceRaw == "" {
		return models.OfferRecord{}, false
	}

	amount, err := strconv.Atoi(strings.TrimPrefix(amountRaw, "x"))
	if err != nil || amount <= 0 {
		return models.OfferRecord{}, false
	}

	priceRaw = strings.ReplaceAll(strings.ReplaceAll(priceRaw, ",", ""), " ", "")
	price, err := strconv.ParseFloat(priceRaw, 64)
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
