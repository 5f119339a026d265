package demand

// Config holds the SBC thresholds, service-level z-scores and order cost
// assumptions.
type Config struct {
	ADIThreshold float64
	CV2Threshold float64

	ForecastPeriodDays float64
	LeadTimeDays       float64

	// Z-scores per pattern, chosen for service-level quantiles
	ZScoreSmooth       float64
	ZScoreErratic      float64
	ZScoreIntermittent float64
	ZScoreLumpy        float64

	// EOQ assumptions: flat per-order cost and annual holding rate, not
	// derived from item value.
	OrderingCost    float64
	HoldingCostRate float64
}

// DefaultConfig returns the production SBC configuration.
func DefaultConfig() Config {
	return Config{
		ADIThreshold:       1.32,
		CV2Threshold:       0.49,
		ForecastPeriodDays: 30,
		LeadTimeDays:       7,
		ZScoreSmooth:       1.65,
		ZScoreErratic:      2.33,
		ZScoreIntermittent: 2.33,
		ZScoreLumpy:        2.58,
		OrderingCost:       50,
		HoldingCostRate:    0.20,
	}
}
