package demand

import "github.com/andresuchdata/hydroinv/backend-go/internal/domain"

type recommendation struct {
	action   string
	priority int
	guidance []string
}

var recommendations = map[domain.DemandPattern]recommendation{
	domain.PatternSmooth: {
		action:   "REGULAR_ORDERING - Implement standard reorder cycle",
		priority: 2,
		guidance: []string{
			"Stable demand allows for predictable ordering",
			"Use ROP-based ordering system",
			"Can negotiate long-term contracts with suppliers",
		},
	},
	domain.PatternErratic: {
		action:   "FLEXIBLE_ORDERING - Increase safety stock by 20-30%",
		priority: 5,
		guidance: []string{
			"High demand variability requires buffer inventory",
			"Monitor demand trends closely (weekly)",
			"Consider multiple suppliers for flexibility",
		},
	},
	domain.PatternIntermittent: {
		action:   "PERIODIC_ORDERING - Use time-based ordering",
		priority: 4,
		guidance: []string{
			"Sporadic demand but low variability",
			"Implement periodic review ordering (every 4 weeks)",
			"Keep minimum safety stock levels",
		},
	},
	domain.PatternLumpy: {
		action:   "SPECIAL_ORDERING - Collaborate on demand planning",
		priority: 8,
		guidance: []string{
			"Highly unpredictable demand",
			"Work with sales team on forecasts",
			"Maintain high safety stock (40-50% above average)",
			"Consider drop-shipping or make-to-order",
		},
	},
}

func recommendationFor(pattern domain.DemandPattern) recommendation {
	if rec, ok := recommendations[pattern]; ok {
		return rec
	}
	return recommendation{action: "MAINTAIN_STOCK", priority: 5}
}
