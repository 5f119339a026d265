package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

func TestPrepareItemsDerivesFeatures(t *testing.T) {
	cfg := DefaultConfig()
	items := []domain.ItemMetrics{
		{ItemCode: "A", AnnualSalesQty: 730, CurrentStock: 100},
	}

	prepared := PrepareItems(cfg, items)
	require.Len(t, prepared, 1)
	assert.InDelta(t, 2.0, prepared[0].SalesVelocity, 1e-9)
	assert.InDelta(t, 7.3, prepared[0].TurnoverRatio, 1e-9)
	assert.InDelta(t, cfg.DefaultConsistency, prepared[0].ConsistencyScore, 1e-9)
}

func TestPrepareItemsKeepsPrecomputedFeatures(t *testing.T) {
	cfg := DefaultConfig()
	items := []domain.ItemMetrics{
		{ItemCode: "A", AnnualSalesQty: 730, CurrentStock: 100, SalesVelocity: 1.5, TurnoverRatio: 3, ConsistencyScore: 80},
	}

	prepared := PrepareItems(cfg, items)
	assert.InDelta(t, 1.5, prepared[0].SalesVelocity, 1e-9)
	assert.InDelta(t, 3.0, prepared[0].TurnoverRatio, 1e-9)
	assert.InDelta(t, 80.0, prepared[0].ConsistencyScore, 1e-9)
}

func TestPrepareItemsClampsNegatives(t *testing.T) {
	cfg := DefaultConfig()
	items := []domain.ItemMetrics{
		{ItemCode: "BAD", AnnualSalesQty: -50, CurrentStock: -10, ItemAgeDays: -5, DaysSinceLastSale: -1},
	}

	prepared := PrepareItems(cfg, items)
	assert.Zero(t, prepared[0].AnnualSalesQty)
	assert.Zero(t, prepared[0].CurrentStock)
	assert.Zero(t, prepared[0].ItemAgeDays)
	assert.Zero(t, prepared[0].DaysSinceLastSale)
	assert.Zero(t, prepared[0].TurnoverRatio)

	// The caller's slice stays untouched.
	assert.InDelta(t, -50.0, items[0].AnnualSalesQty, 1e-9)
}

func TestFitScaler(t *testing.T) {
	features := [][]float64{
		{1, 10},
		{3, 10},
	}

	scaler := FitScaler(features)
	require.Len(t, scaler.Mean, 2)
	assert.InDelta(t, 2.0, scaler.Mean[0], 1e-9)
	assert.InDelta(t, 1.0, scaler.StdDev[0], 1e-9)

	// A constant column gets unit deviation instead of dividing by zero.
	assert.InDelta(t, 10.0, scaler.Mean[1], 1e-9)
	assert.InDelta(t, 1.0, scaler.StdDev[1], 1e-9)

	scaled := scaler.Transform(features)
	assert.InDelta(t, -1.0, scaled[0][0], 1e-9)
	assert.InDelta(t, 1.0, scaled[1][0], 1e-9)
	assert.InDelta(t, 0.0, scaled[0][1], 1e-9)
	assert.InDelta(t, 0.0, scaled[1][1], 1e-9)
}

func TestFitScalerEmpty(t *testing.T) {
	scaler := FitScaler(nil)
	assert.Empty(t, scaler.Mean)
	assert.Empty(t, scaler.StdDev)
}

func TestKMeansAssignSeparatedGroups(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.1, 0.1}, {0.2, 0},
		{10, 10}, {10.1, 10.1}, {10.2, 10},
	}

	labels := kmeansAssign(points, 2)
	require.Len(t, labels, 6)
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3])

	score := SilhouetteScore(points, labels)
	assert.Greater(t, score, 0.9)
}

func TestKMeansAssignDeterministic(t *testing.T) {
	points := [][]float64{
		{0, 0}, {1, 1}, {2, 0}, {8, 9}, {9, 8}, {4, 4},
	}

	first := kmeansAssign(points, 3)
	second := kmeansAssign(points, 3)
	assert.Equal(t, first, second)
}
