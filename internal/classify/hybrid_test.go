package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

func TestHybridHighConfidenceRulePassthrough(t *testing.T) {
	cfg := DefaultConfig()

	// Rule confidence 0.99 for a young item beats the ensemble threshold,
	// so the density vote never runs.
	item := PrepareItems(cfg, []domain.ItemMetrics{
		{ItemCode: "NEW-1", ItemAgeDays: 10, AnnualSalesQty: 20, CurrentStock: 50},
	})[0]

	out := classifyHybrid(cfg, item)
	assert.Equal(t, domain.ClassNewItem, out.label)
	assert.InDelta(t, 0.99, out.confidence, 1e-9)
	assert.Contains(t, out.reason, "Item age")
}

func TestHybridEnsembleAgreement(t *testing.T) {
	cfg := DefaultConfig()

	// Slow by rule (0.85) and slow by density outlier policy (0.75): the
	// votes stack on one label, so confidence resolves to 1.0.
	item := PrepareItems(cfg, []domain.ItemMetrics{
		{ItemCode: "SLOW-1", ItemAgeDays: 200, DaysSinceLastSale: 30, AnnualSalesQty: 110, CurrentStock: 400},
	})[0]

	out := classifyHybrid(cfg, item)
	assert.Equal(t, domain.ClassSlow, out.label)
	assert.InDelta(t, 1.0, out.confidence, 1e-9)
	assert.Contains(t, out.reason, "Ensemble")
}

func TestHybridVelocityVoteOverridesRule(t *testing.T) {
	cfg := DefaultConfig()

	// High velocity but weak turnover: the rules land on MEDIUM, while the
	// density outlier policy plus the velocity vote push FAST ahead.
	item := PrepareItems(cfg, []domain.ItemMetrics{
		{ItemCode: "FAST-V", ItemAgeDays: 200, DaysSinceLastSale: 10, AnnualSalesQty: 1825, CurrentStock: 3650},
	})[0]

	out := classifyHybrid(cfg, item)
	assert.Equal(t, domain.ClassFast, out.label)

	// MEDIUM holds 0.75*0.5 = 0.375 of the vote mass, FAST holds
	// 0.75*0.35 + 0.15 = 0.4125.
	assert.InDelta(t, 0.4125/(0.375+0.4125), out.confidence, 1e-9)
}

func TestTallyVotesTieBreak(t *testing.T) {
	winner, total := tallyVotes(map[domain.Classification]float64{
		domain.ClassMedium: 0.4,
		domain.ClassFast:   0.4,
	})
	assert.Equal(t, domain.ClassFast, winner)
	assert.InDelta(t, 0.8, total, 1e-9)

	winner, _ = tallyVotes(map[domain.Classification]float64{
		domain.ClassSlow:      0.3,
		domain.ClassDeadStock: 0.3,
	})
	assert.Equal(t, domain.ClassDeadStock, winner)
}
