package classify

import (
	"fmt"
	"math"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// outcome is an intermediate classification before enrichment. Confidence is
// a fraction in [0,1] so it can feed ensemble vote weights directly.
type outcome struct {
	label      domain.Classification
	confidence float64
	reason     string
}

// rule is one entry in the ordered decision list. Earlier rules take
// priority over later ones even when several would match; the order is a
// behavioral contract, not a readability choice.
type rule struct {
	name    string
	match   func(cfg Config, it domain.ItemMetrics) bool
	outcome func(cfg Config, it domain.ItemMetrics) outcome
}

var ruleList = []rule{
	{
		name: "new_item",
		match: func(cfg Config, it domain.ItemMetrics) bool {
			return it.ItemAgeDays < cfg.NewItemMaxAgeDays
		},
		outcome: func(cfg Config, it domain.ItemMetrics) outcome {
			return outcome{
				label:      domain.ClassNewItem,
				confidence: 0.99,
				reason:     fmt.Sprintf("Item age %.0f days < %.0f threshold", it.ItemAgeDays, cfg.NewItemMaxAgeDays),
			}
		},
	},
	{
		name: "dead_stock",
		match: func(cfg Config, it domain.ItemMetrics) bool {
			return it.DaysSinceLastSale > cfg.DeadStockMinDaysNoSale || it.AnnualSalesQty < cfg.DeadStockMaxAnnualQty
		},
		outcome: func(cfg Config, it domain.ItemMetrics) outcome {
			return outcome{
				label:      domain.ClassDeadStock,
				confidence: 0.95,
				reason:     fmt.Sprintf("No sales for %.0f days (threshold: %.0f)", it.DaysSinceLastSale, cfg.DeadStockMinDaysNoSale),
			}
		},
	},
	{
		name: "fast",
		match: func(cfg Config, it domain.ItemMetrics) bool {
			return it.SalesVelocity > cfg.FastMinVelocity && it.TurnoverRatio > cfg.FastMinTurnover
		},
		outcome: func(cfg Config, it domain.ItemMetrics) outcome {
			conf := math.Min(99, 70+it.SalesVelocity*5+it.TurnoverRatio*10)
			return outcome{
				label:      domain.ClassFast,
				confidence: conf / 100,
				reason:     fmt.Sprintf("Velocity %.2f units/day, Turnover %.2f", it.SalesVelocity, it.TurnoverRatio),
			}
		},
	},
	{
		name: "slow",
		match: func(cfg Config, it domain.ItemMetrics) bool {
			return it.SalesVelocity < cfg.SlowMaxVelocity && it.DaysSinceLastSale < cfg.SlowMaxDaysSinceSale
		},
		outcome: func(cfg Config, it domain.ItemMetrics) outcome {
			return outcome{
				label:      domain.ClassSlow,
				confidence: 0.85,
				reason:     fmt.Sprintf("Low velocity (%.2f units/day) but consistent (last sale %.0f days ago)", it.SalesVelocity, it.DaysSinceLastSale),
			}
		},
	},
}

// applyRules walks the decision list and returns the first matching outcome,
// falling back to MEDIUM.
func applyRules(cfg Config, it domain.ItemMetrics) outcome {
	for _, r := range ruleList {
		if r.match(cfg, it) {
			return r.outcome(cfg, it)
		}
	}
	return outcome{
		label:      domain.ClassMedium,
		confidence: 0.75,
		reason:     "Mid-range item characteristics",
	}
}
