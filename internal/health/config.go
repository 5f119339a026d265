package health

import "fmt"

// Config holds the weights and thresholds for the composite health score.
type Config struct {
	// Component weights, must sum to 1.0.
	WeightSalesPerformance    float64
	WeightCustomerAcquisition float64
	WeightStockAdequacy       float64
	WeightGrowthTrend         float64

	// Sales performance bands (actual / target ratio).
	SalesExcellent float64
	SalesGood      float64
	SalesFair      float64
	SalesPoor      float64
	SalesCritical  float64

	// Customer acquisition bands (unique customer counts).
	CustomersExcellent int
	CustomersGood      int
	CustomersFair      int
	CustomersPoor      int

	// Retention bonus kicks in above this repeat/unique ratio.
	RetentionBonusRatio float64
	RetentionBonus      int

	// Stock adequacy bands (days of stock).
	DOSOptimalMin  float64
	DOSOptimalMax  float64
	DOSWarningMax  float64
	DOSCriticalMax float64

	// Week-over-week growth bands.
	GrowthExcellent float64
	GrowthGood      float64
	GrowthFair      float64
	GrowthPoor      float64
	GrowthCritical  float64

	// Life stage boundaries in days of item age.
	LaunchMaxDays     float64
	LearningMaxDays   float64
	GraduationMaxDays float64

	// Health status boundaries on the composite score.
	HealthCriticalMax int
	HealthAtRiskMax   int
	HealthHealthyMin  int
}

// DefaultConfig returns the standard health scoring configuration.
func DefaultConfig() Config {
	return Config{
		WeightSalesPerformance:    0.40,
		WeightCustomerAcquisition: 0.30,
		WeightStockAdequacy:       0.20,
		WeightGrowthTrend:         0.10,

		SalesExcellent: 1.20,
		SalesGood:      0.95,
		SalesFair:      0.70,
		SalesPoor:      0.50,
		SalesCritical:  0.30,

		CustomersExcellent: 50,
		CustomersGood:      30,
		CustomersFair:      15,
		CustomersPoor:      5,

		RetentionBonusRatio: 0.5,
		RetentionBonus:      15,

		DOSOptimalMin:  7,
		DOSOptimalMax:  60,
		DOSWarningMax:  90,
		DOSCriticalMax: 180,

		GrowthExcellent: 0.20,
		GrowthGood:      0.10,
		GrowthFair:      0.00,
		GrowthPoor:      -0.10,
		GrowthCritical:  -0.20,

		LaunchMaxDays:     30,
		LearningMaxDays:   90,
		GraduationMaxDays: 180,

		HealthCriticalMax: 30,
		HealthAtRiskMax:   60,
		HealthHealthyMin:  80,
	}
}

// Validate ensures the component weights form a proper convex combination.
func (c Config) Validate() error {
	sum := c.WeightSalesPerformance + c.WeightCustomerAcquisition +
		c.WeightStockAdequacy + c.WeightGrowthTrend
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("health: component weights sum to %.4f, want 1.0", sum)
	}
	return nil
}
