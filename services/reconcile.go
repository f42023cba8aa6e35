package services

import (
	"trader-bot/models"
	"trader-bot/utils"
)

// Reconciler joins today's offers against historical observations and
// computes comparative price statistics.
type Reconciler struct {
	logger *utils.Logger
}

// NewReconciler creates a Reconciler with the given logger.
func NewReconciler(logger *utils.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile matches each of today's offers against every history record
// sharing its (truncated item, grade) key — exact string match, no case
// folding. A matched offer carries avg/min/max of the matched per-unit
// prices and is favorable when today's per-unit price is at or below the
// average. An offer with no history is marked new and favorable
// unconditionally.
func (r *Reconciler) Reconcile(today, history []models.OfferRecord) []models.ReconciledOffer {
	byKey := make(map[models.MatchKey][]float64)
	for _, h := range history {
		byKey[h.Key()] = append(byKey[h.Key()], h.PerUnitPrice())
	}

	out := make([]models.ReconciledOffer, 0, len(today))
	newItems := 0
	for _, offer := range today {
		matched := byKey[offer.Key()]
		if len(matched) == 0 {
			newItems++
			out = append(out, models.ReconciledOffer{Offer: offer, Favorable: true})
			continue
		}

		stats := summarize(matched)
		out = append(out, models.ReconciledOffer{
			Offer:     offer,
			Stats:     &stats,
			Favorable: offer.PerUnitPrice() <= stats.Avg,
		})
	}

	r.logger.Debug("[reconcile] %d offers against %d history records (%d new)",
		len(today), len(history), newItems)
	return out
}

func summarize(prices []float64) models.PriceStats {
	stats := models.PriceStats{Min: prices[0], Max: prices[0]}
	var total float64
	for _, p := range prices {
		total += p
		if p < stats.Min {
			stats.Min = p
		}
		if p > stats.Max {
			stats.Max = p
		}
	}
	stats.Avg = round2(total / float64(len(prices)))
	return stats
}

// round2 rounds to two decimals, the precision the rendered Avg column
// carries.
func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
