package classify

// Config holds every classification threshold. The zero value is not usable;
// start from DefaultConfig and override as a unit.
type Config struct {
	// Rule thresholds
	NewItemMaxAgeDays      float64
	DeadStockMinDaysNoSale float64
	DeadStockMaxAnnualQty  float64
	FastMinVelocity        float64
	FastMinTurnover        float64
	SlowMaxVelocity        float64
	SlowMaxDaysSinceSale   float64

	// Cluster-policy velocity band between MEDIUM and SLOW
	MediumVelocityFloor float64

	// ML parameters
	DBSCANEps        float64
	DBSCANMinSamples int
	KMeansClusters   int

	// Enrichment
	HoldingCostRate    float64
	ABCClassAValue     float64
	ABCClassBValue     float64
	DefaultConsistency float64

	// Per-item fan-out width within a batch
	Workers int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		NewItemMaxAgeDays:      90,
		DeadStockMinDaysNoSale: 180,
		DeadStockMaxAnnualQty:  10,
		FastMinVelocity:        2.7,
		FastMinTurnover:        0.7,
		SlowMaxVelocity:        0.5,
		SlowMaxDaysSinceSale:   60,
		MediumVelocityFloor:    1.0,
		DBSCANEps:              0.5,
		DBSCANMinSamples:       3,
		KMeansClusters:         3,
		HoldingCostRate:        0.20,
		ABCClassAValue:         100000,
		ABCClassBValue:         20000,
		DefaultConsistency:     50,
		Workers:                4,
	}
}
