package models

import "strings"

// PriceKind says what a record's Price field holds. Everything scraped from
// the trader page or re-parsed from a past report carries the total batch
// price; per-unit values only ever appear as derived numbers.
type PriceKind int

const (
	PerBatch PriceKind = iota
	PerUnit
)

// MatchKeyLength is the number of item-name characters that survive
// rendering. History can never hold more, so matching uses the same prefix.
const MatchKeyLength = 20

// OfferRecord is one observed listing of an item for sale, either scraped
// from the trader page today or reconstructed from a past report message.
type OfferRecord struct {
	Item   string
	Grade  string
	Amount int
	Price  float64
	Kind   PriceKind
}

// PerUnitPrice returns the price of a single unit.
func (o OfferRecord) PerUnitPrice() float64 {
	if o.Kind == PerUnit || o.Amount == 0 {
		return o.Price
	}
	return o.Price / float64(o.Amount)
}

// MatchKey identifies an item/grade pair for history matching.
type MatchKey struct {
	Item  string
	Grade string
}

// Key returns the record's match key: item trimmed and truncated to
// MatchKeyLength characters, grade exact. No case folding.
func (o OfferRecord) Key() MatchKey {
	item := strings.TrimSpace(o.Item)
	if r := []rune(item); len(r) > MatchKeyLength {
		item = strings.TrimSpace(string(r[:MatchKeyLength]))
	}
	return MatchKey{Item: item, Grade: o.Grade}
}

// PriceStats aggregates the matched per-unit prices of a history set.
type PriceStats struct {
	Avg float64
	Min float64
	Max float64
}

// ReconciledOffer joins one of today's offers with its history statistics.
// Stats is nil when the item has never been seen before.
type ReconciledOffer struct {
	Offer     OfferRecord
	Stats     *PriceStats
	Favorable bool
}

// RunReport carries the per-run counts the pipeline reports back to its
// caller, including rows that were dropped silently during parsing.
type RunReport struct {
	TodayOffers        int
	DroppedOfferRows   int
	HistoryMessages    int
	HistoryOffers      int
	DroppedHistoryRows int
	NewItems           int
	Favorable          int
}
