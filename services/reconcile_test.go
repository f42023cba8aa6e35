package services

import (
	"testing"

	"trader-bot/models"
	"trader-bot/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestPerUnitPriceDerivation(t *testing.T) {
	tests := []struct {
		rec  models.OfferRecord
		want float64
	}{
		{models.OfferRecord{Amount: 3, Price: 150, Kind: models.PerBatch}, 50},
		{models.OfferRecord{Amount: 1, Price: 120, Kind: models.PerBatch}, 120},
		{models.OfferRecord{Amount: 4, Price: 50, Kind: models.PerUnit}, 50},
	}

	for _, tt := range tests {
		if got := tt.rec.PerUnitPrice(); got != tt.want {
			t.Errorf("PerUnitPrice(%+v) = %.2f; want %.2f", tt.rec, got, tt.want)
		}
	}
}

func TestReconcileComputesStats(t *testing.T) {
	history := []models.OfferRecord{
		{Item: "Iron Sword", Grade: "A", Amount: 1, Price: 100, Kind: models.PerBatch},
		{Item: "Iron Sword", Grade: "A", Amount: 1, Price: 200, Kind: models.PerBatch},
	}
	today := []models.OfferRecord{
		{Item: "Iron Sword", Grade: "A", Amount: 1, Price: 120, Kind: models.PerBatch},
	}

	rows := NewReconciler(newTestLogger()).Reconcile(today, history)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Stats == nil {
		t.Fatal("expected stats for matched offer")
	}
	if row.Stats.Avg != 150 {
		t.Errorf("Avg: got %.2f, want 150", row.Stats.Avg)
	}
	if row.Stats.Min != 100 {
		t.Errorf("Min: got %.2f, want 100", row.Stats.Min)
	}
	if row.Stats.Max != 200 {
		t.Errorf("Max: got %.2f, want 200", row.Stats.Max)
	}
	if !row.Favorable {
		t.Error("120 <= avg 150 should be favorable")
	}
}

func TestReconcileFavorableAtEqualAverage(t *testing.T) {
	history := []models.OfferRecord{
		{Item: "Iron Sword", Grade: "A", Amount: 1, Price: 100, Kind: models.PerBatch},
	}
	today := []models.OfferRecord{
		{Item: "Iron Sword", Grade: "A", Amount: 1, Price: 100, Kind: models.PerBatch},
	}

	rows := NewReconciler(newTestLogger()).Reconcile(today, history)
	if !rows[0].Favorable {
		t.Error("per-unit price equal to the average must be favorable")
	}
}

func TestReconcileUnmatchedIsNewAndFavorable(t *testing.T) {
	today := []models.OfferRecord{
		{Item: "Never Seen", Grade: "A", Amount: 1, Price: 99999, Kind: models.PerBatch},
	}

	rows := NewReconciler(newTestLogger()).Reconcile(today, nil)
	if rows[0].Stats != nil {
		t.Error("unmatched offer should carry no stats")
	}
	if !rows[0].Favorable {
		t.Error("unmatched offer is favorable unconditionally")
	}
}

func TestReconcileMatchingIsExact(t *testing.T) {
	history := []models.OfferRecord{
		{Item: "iron sword", Grade: "A", Amount: 1, Price: 100, Kind: models.PerBatch},
		{Item: "Iron Sword", Grade: "B", Amount: 1, Price: 100, Kind: models.PerBatch},
	}
	today := []models.OfferRecord{
		{Item: "Iron Sword", Grade: "A", Amount: 1, Price: 100, Kind: models.PerBatch},
	}

	rows := NewReconciler(newTestLogger()).Reconcile(today, history)
	if rows[0].Stats != nil {
		t.Error("case or grade differences must not match")
	}
}

func TestReconcileMatchesOnTruncatedName(t *testing.T) {
	// History was rendered, so it can only ever hold the first 20
	// characters of a name.
	full := "Ancient Dragonscale Armor" // 25 chars
	truncated := full[:20]

	history := []models.OfferRecord{
		{Item: truncated, Grade: "S", Amount: 1, Price: 500, Kind: models.PerBatch},
	}
	today := []models.OfferRecord{
		{Item: full, Grade: "S", Amount: 1, Price: 400, Kind: models.PerBatch},
	}

	rows := NewReconciler(newTestLogger()).Reconcile(today, history)
	if rows[0].Stats == nil {
		t.Fatal("full name should match its own truncated history")
	}
	if rows[0].Stats.Avg != 500 {
		t.Errorf("Avg: got %.2f, want 500", rows[0].Stats.Avg)
	}
}

func TestReconcileAverageRounding(t *testing.T) {
	history := []models.OfferRecord{
		{Item: "Herb", Grade: "C", Amount: 3, Price: 100, Kind: models.PerBatch},
		{Item: "Herb", Grade: "C", Amount: 3, Price: 200, Kind: models.PerBatch},
		{Item: "Herb", Grade: "C", Amount: 3, Price: 200, Kind: models.PerBatch},
	}
	today := []models.OfferRecord{
		{Item: "Herb", Grade: "C", Amount: 1, Price: 50, Kind: models.PerBatch},
	}

	rows := NewReconciler(newTestLogger()).Reconcile(today, history)
	// per-unit prices 33.33…, 66.66…, 66.66… average to 55.55…
	if rows[0].Stats.Avg != 55.56 {
		t.Errorf("Avg: got %.4f, want 55.56", rows[0].Stats.Avg)
	}
}
