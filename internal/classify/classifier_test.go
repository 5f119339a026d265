package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

func fastMover() domain.ItemMetrics {
	return domain.ItemMetrics{
		ItemCode:          "PUMP-A",
		ItemName:          "Submersible Pump A",
		UOM:               "PCS",
		AnnualSalesQty:    2500,
		AnnualSalesValue:  125000,
		CurrentStock:      200,
		StockValue:        50000,
		ItemAgeDays:       400,
		DaysSinceLastSale: 2,
	}
}

func classifyOne(t *testing.T, it domain.ItemMetrics, method domain.ClassificationMethod) domain.ClassificationResult {
	t.Helper()
	c := New(DefaultConfig())
	results, _, err := c.Classify(context.Background(), []domain.ItemMetrics{it}, method)
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0]
}

func TestClassifyRuleBased(t *testing.T) {
	tests := []struct {
		name           string
		item           domain.ItemMetrics
		wantLabel      domain.Classification
		wantConfidence int
		wantAction     string
		wantPriority   int
	}{
		{
			name:           "fast mover with high velocity and turnover",
			item:           fastMover(),
			wantLabel:      domain.ClassFast,
			wantConfidence: 99,
			wantAction:     ActionIncreaseStock,
			wantPriority:   8,
		},
		{
			name: "young item wins over dead stock signals",
			item: domain.ItemMetrics{
				ItemCode:          "VALVE-N",
				ItemAgeDays:       10,
				DaysSinceLastSale: 300,
				AnnualSalesQty:    0,
				CurrentStock:      5,
			},
			wantLabel:      domain.ClassNewItem,
			wantConfidence: 99,
			wantAction:     ActionMarketMore,
			wantPriority:   7,
		},
		{
			name: "dead stock by idle days",
			item: domain.ItemMetrics{
				ItemCode:          "HOSE-D",
				ItemAgeDays:       400,
				DaysSinceLastSale: 300,
				AnnualSalesQty:    50,
				CurrentStock:      100,
				StockValue:        2000,
			},
			wantLabel:      domain.ClassDeadStock,
			wantConfidence: 95,
			wantAction:     ActionLiquidation,
			wantPriority:   10,
		},
		{
			name: "dead stock by trivial volume wins over slow",
			item: domain.ItemMetrics{
				ItemCode:          "SEAL-T",
				ItemAgeDays:       400,
				DaysSinceLastSale: 30,
				AnnualSalesQty:    5,
				CurrentStock:      40,
			},
			wantLabel:      domain.ClassDeadStock,
			wantConfidence: 95,
			wantAction:     ActionLiquidation,
			wantPriority:   10,
		},
		{
			name: "slow mover with heavy overstock",
			item: domain.ItemMetrics{
				ItemCode:          "PIPE-S",
				ItemAgeDays:       200,
				DaysSinceLastSale: 30,
				AnnualSalesQty:    110,
				CurrentStock:      400,
				StockValue:        1000,
			},
			wantLabel:      domain.ClassSlow,
			wantConfidence: 85,
			wantAction:     ActionReduceStock,
			wantPriority:   5,
		},
		{
			name: "mid-range fallback",
			item: domain.ItemMetrics{
				ItemCode:          "TANK-M",
				ItemAgeDays:       300,
				DaysSinceLastSale: 30,
				AnnualSalesQty:    548,
				CurrentStock:      500,
			},
			wantLabel:      domain.ClassMedium,
			wantConfidence: 75,
			wantAction:     ActionMaintainStock,
			wantPriority:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classifyOne(t, tt.item, domain.MethodRuleBased)
			assert.Equal(t, tt.wantLabel, res.Label)
			assert.Equal(t, tt.wantConfidence, res.Confidence)
			assert.Equal(t, domain.MethodRuleBased, res.Method)
			assert.Equal(t, tt.wantAction, res.RecommendedAction)
			assert.Equal(t, tt.wantPriority, res.ActionPriority)
			assert.NotEmpty(t, res.Reason)
			assert.GreaterOrEqual(t, res.Confidence, 0)
			assert.LessOrEqual(t, res.Confidence, 100)
		})
	}
}

func TestClassifyEnrichment(t *testing.T) {
	res := classifyOne(t, fastMover(), domain.MethodRuleBased)

	assert.InDelta(t, 6.849, res.SalesVelocity, 0.001)
	assert.InDelta(t, 12.5, res.TurnoverRatio, 0.001)
	assert.InDelta(t, 29.2, res.DaysOfStock, 0.001)
	assert.InDelta(t, 10000, res.HoldingCostAnnually, 0.001)
	assert.InDelta(t, 12500, res.ExpectedImpact, 0.001)
	assert.Equal(t, domain.ABCCategoryA, res.ABCCategory)
	assert.Equal(t, domain.DormancyActive, res.DormancyStatus)
	assert.Equal(t, domain.StageEstablished, res.NewItemStatus)
}

func TestClassifyEmptyBatch(t *testing.T) {
	c := New(DefaultConfig())
	results, stats, err := c.Classify(context.Background(), nil, domain.MethodHybrid)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Classified)
}

func TestClassifyUnknownMethod(t *testing.T) {
	c := New(DefaultConfig())
	_, _, err := c.Classify(context.Background(), []domain.ItemMetrics{fastMover()}, domain.ClassificationMethod("BOGUS"))
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestClassifyDeterministic(t *testing.T) {
	items := []domain.ItemMetrics{
		fastMover(),
		{ItemCode: "A", AnnualSalesQty: 110, CurrentStock: 400, ItemAgeDays: 200, DaysSinceLastSale: 30},
		{ItemCode: "B", AnnualSalesQty: 548, CurrentStock: 500, ItemAgeDays: 300, DaysSinceLastSale: 30},
		{ItemCode: "C", ItemAgeDays: 400, DaysSinceLastSale: 300, AnnualSalesQty: 50},
	}

	for _, method := range []domain.ClassificationMethod{
		domain.MethodRuleBased, domain.MethodDBSCAN, domain.MethodKMeans, domain.MethodHybrid,
	} {
		t.Run(string(method), func(t *testing.T) {
			c := New(DefaultConfig())
			first, _, err := c.Classify(context.Background(), items, method)
			require.NoError(t, err)
			second, _, err := c.Classify(context.Background(), items, method)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestClassifyPreservesInputOrder(t *testing.T) {
	items := []domain.ItemMetrics{
		{ItemCode: "Z-3", AnnualSalesQty: 100, CurrentStock: 50, ItemAgeDays: 200, DaysSinceLastSale: 10},
		{ItemCode: "A-1", AnnualSalesQty: 2500, CurrentStock: 200, ItemAgeDays: 400, DaysSinceLastSale: 2},
		{ItemCode: "M-2", AnnualSalesQty: 548, CurrentStock: 500, ItemAgeDays: 300, DaysSinceLastSale: 30},
	}

	c := New(DefaultConfig())
	results, _, err := c.Classify(context.Background(), items, domain.MethodHybrid)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, it := range items {
		assert.Equal(t, it.ItemCode, results[i].ItemCode)
	}
}

func TestClassifyClusteringFallback(t *testing.T) {
	t.Run("dbscan with no eligible items", func(t *testing.T) {
		items := []domain.ItemMetrics{
			{ItemCode: "ZERO-1", ItemAgeDays: 400, DaysSinceLastSale: 20, CurrentStock: 10},
			{ItemCode: "ZERO-2", ItemAgeDays: 400, DaysSinceLastSale: 40, CurrentStock: 20},
		}

		c := New(DefaultConfig())
		results, stats, err := c.Classify(context.Background(), items, domain.MethodDBSCAN)
		require.NoError(t, err)
		require.Len(t, results, len(items))
		assert.Equal(t, len(items), stats.Fallbacks)
		for _, res := range results {
			assert.Equal(t, domain.MethodRuleBased, res.Method)
		}
	})

	t.Run("kmeans with fewer eligible items than clusters", func(t *testing.T) {
		items := []domain.ItemMetrics{
			fastMover(),
			{ItemCode: "ONLY-2", AnnualSalesQty: 100, CurrentStock: 50, ItemAgeDays: 200, DaysSinceLastSale: 10},
		}

		c := New(DefaultConfig())
		results, stats, err := c.Classify(context.Background(), items, domain.MethodKMeans)
		require.NoError(t, err)
		require.Len(t, results, len(items))
		assert.Equal(t, len(items), stats.Fallbacks)
		for _, res := range results {
			assert.Equal(t, domain.MethodRuleBased, res.Method)
		}
	})
}

func TestClassifyClusteringSkipsZeroSales(t *testing.T) {
	items := []domain.ItemMetrics{
		fastMover(),
		{ItemCode: "B", AnnualSalesQty: 110, CurrentStock: 400, ItemAgeDays: 200, DaysSinceLastSale: 30},
		{ItemCode: "C", AnnualSalesQty: 548, CurrentStock: 500, ItemAgeDays: 300, DaysSinceLastSale: 30},
		{ItemCode: "NO-SALES", AnnualSalesQty: 0, CurrentStock: 10, ItemAgeDays: 400, DaysSinceLastSale: 200},
	}

	c := New(DefaultConfig())
	results, stats, err := c.Classify(context.Background(), items, domain.MethodDBSCAN)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 3, stats.Classified)
	assert.Equal(t, 0, stats.Fallbacks)
	for _, res := range results {
		assert.NotEqual(t, "NO-SALES", res.ItemCode)
		assert.Equal(t, domain.MethodDBSCAN, res.Method)
	}
}
