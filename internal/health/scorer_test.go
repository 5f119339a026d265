package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WeightSalesPerformance = 0.50
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestScoreHealthyLaunchItem(t *testing.T) {
	s := newScorer(t)
	res := s.Score(domain.NewItemMetrics{
		ItemCode:        "FILTER-X",
		ItemName:        "Inline Filter X",
		ItemAgeDays:     15,
		ActualSalesQty:  500,
		TargetSalesQty:  400,
		UniqueCustomers: 35,
		RepeatCustomers: 15,
		CurrentStock:    200,
		StockValue:      4000,
		AvgMonthlySales: 150,
		SalesLastWeek:   60,
		SalesPriorWeek:  55,
	})

	// 125% of target, 35 customers without the retention bonus, 40 days
	// of stock, +9.1% weekly growth.
	assert.Equal(t, 100, res.SalesPerformance.Score)
	assert.Equal(t, 85, res.CustomerAcquisition.Score)
	assert.Equal(t, 100, res.StockAdequacy.Score)
	assert.Equal(t, 70, res.GrowthTrend.Score)

	assert.Equal(t, 93, res.Score)
	assert.Equal(t, domain.HealthHealthy, res.Status)
	assert.Equal(t, domain.StageLaunch, res.LifeStage)

	// The launch stage overrides a healthy baseline.
	assert.Equal(t, "AGGRESSIVE_MARKETING", res.RecommendedAction)
	assert.Equal(t, 7, res.ActionPriority)
	assert.NotEmpty(t, res.KeyMetrics)
	assert.Empty(t, res.WarningFlags)

	assert.InDelta(t, 40.0, res.DaysOfStock, 0.001)
	assert.InDelta(t, 125.0, res.SalesVsTargetPct, 0.001)
	assert.InDelta(t, 42.857, res.RepeatCustomersPct, 0.001)
	assert.InDelta(t, 0.0909, res.GrowthTrendPct, 0.001)
}

func TestScoreFailingItemKeepsCriticalPriority(t *testing.T) {
	s := newScorer(t)
	res := s.Score(domain.NewItemMetrics{
		ItemCode:        "GASKET-F",
		ItemAgeDays:     100,
		ActualSalesQty:  10,
		TargetSalesQty:  400,
		UniqueCustomers: 2,
		CurrentStock:    5000,
		AvgMonthlySales: 10,
		SalesLastWeek:   1,
		SalesPriorWeek:  10,
	})

	assert.Equal(t, 0, res.SalesPerformance.Score)
	assert.Equal(t, 15, res.CustomerAcquisition.Score)
	assert.Equal(t, 15, res.StockAdequacy.Score)
	assert.Equal(t, 5, res.GrowthTrend.Score)
	assert.Equal(t, 8, res.Score)
	assert.Equal(t, domain.HealthCritical, res.Status)
	assert.Equal(t, domain.StageGraduation, res.LifeStage)

	// The stage swaps the action, but the critical priority stays.
	assert.Equal(t, "OPTIMIZE_SUPPLY_CHAIN", res.RecommendedAction)
	assert.Equal(t, 10, res.ActionPriority)
	assert.Len(t, res.WarningFlags, 3)
}

func TestScoreEstablishedKeepsBaseline(t *testing.T) {
	s := newScorer(t)
	res := s.Score(domain.NewItemMetrics{
		ItemCode:        "ELBOW-E",
		ItemAgeDays:     365,
		ActualSalesQty:  500,
		TargetSalesQty:  400,
		UniqueCustomers: 60,
		CurrentStock:    200,
		AvgMonthlySales: 150,
		SalesLastWeek:   66,
		SalesPriorWeek:  55,
	})

	assert.Equal(t, domain.StageEstablished, res.LifeStage)
	assert.Equal(t, "MAINTAIN_CURRENT_STRATEGY", res.RecommendedAction)
	assert.Equal(t, 2, res.ActionPriority)
	assert.NotEmpty(t, res.KeyMetrics)
}

func TestCustomerRetentionBonus(t *testing.T) {
	s := newScorer(t)

	t.Run("bonus above half repeat ratio", func(t *testing.T) {
		cs := s.scoreCustomerAcquisition(domain.NewItemMetrics{UniqueCustomers: 20, RepeatCustomers: 12})
		assert.Equal(t, 75, cs.Score)
		assert.Contains(t, cs.Reason, "retention bonus")
	})

	t.Run("bonus caps at 100", func(t *testing.T) {
		cs := s.scoreCustomerAcquisition(domain.NewItemMetrics{UniqueCustomers: 60, RepeatCustomers: 40})
		assert.Equal(t, 100, cs.Score)
	})

	t.Run("no bonus at or below the ratio", func(t *testing.T) {
		cs := s.scoreCustomerAcquisition(domain.NewItemMetrics{UniqueCustomers: 20, RepeatCustomers: 10})
		assert.Equal(t, 60, cs.Score)
		assert.NotContains(t, cs.Reason, "retention bonus")
	})
}

func TestStockAdequacyBands(t *testing.T) {
	s := newScorer(t)
	tests := []struct {
		name  string
		stock float64
		avg   float64
		want  int
	}{
		{name: "optimal window", stock: 200, avg: 150, want: 100},
		{name: "severe stockout risk floors at 30", stock: 10, avg: 150, want: 30},
		{name: "mild stockout risk", stock: 30, avg: 150, want: 71},
		{name: "warning band", stock: 400, avg: 150, want: 75},
		{name: "high holding cost band", stock: 600, avg: 150, want: 45},
		{name: "excessive inventory", stock: 5000, avg: 150, want: 15},
		{name: "no sales history reads as overstock", stock: 100, avg: 0, want: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := s.scoreStockAdequacy(domain.NewItemMetrics{CurrentStock: tt.stock, AvgMonthlySales: tt.avg})
			assert.Equal(t, tt.want, cs.Score)
		})
	}
}

func TestZeroDenominatorsFloorToOne(t *testing.T) {
	s := newScorer(t)

	t.Run("zero target still rates actual sales", func(t *testing.T) {
		cs := s.scoreSalesPerformance(domain.NewItemMetrics{ActualSalesQty: 500})
		assert.Equal(t, 100, cs.Score)
	})

	t.Run("zero prior week rates last week as growth", func(t *testing.T) {
		cs := s.scoreGrowthTrend(domain.NewItemMetrics{SalesLastWeek: 10})
		assert.Equal(t, 100, cs.Score)
	})

	t.Run("zero average sales lands in the overstock band", func(t *testing.T) {
		cs := s.scoreStockAdequacy(domain.NewItemMetrics{CurrentStock: 100})
		assert.Equal(t, 15, cs.Score)
	})
}

func TestHealthStatusBoundaries(t *testing.T) {
	s := newScorer(t)
	assert.Equal(t, domain.HealthCritical, s.healthStatus(0))
	assert.Equal(t, domain.HealthCritical, s.healthStatus(30))
	assert.Equal(t, domain.HealthAtRisk, s.healthStatus(31))
	assert.Equal(t, domain.HealthAtRisk, s.healthStatus(60))
	assert.Equal(t, domain.HealthCaution, s.healthStatus(61))
	assert.Equal(t, domain.HealthCaution, s.healthStatus(79))
	assert.Equal(t, domain.HealthHealthy, s.healthStatus(80))
	assert.Equal(t, domain.HealthHealthy, s.healthStatus(100))
}

func TestLifeStageBoundaries(t *testing.T) {
	s := newScorer(t)
	assert.Equal(t, domain.StageLaunch, s.lifeStage(0))
	assert.Equal(t, domain.StageLaunch, s.lifeStage(30))
	assert.Equal(t, domain.StageLearning, s.lifeStage(31))
	assert.Equal(t, domain.StageLearning, s.lifeStage(90))
	assert.Equal(t, domain.StageGraduation, s.lifeStage(91))
	assert.Equal(t, domain.StageGraduation, s.lifeStage(180))
	assert.Equal(t, domain.StageEstablished, s.lifeStage(181))
}
