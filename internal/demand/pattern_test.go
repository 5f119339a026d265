package demand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// steadySeries is a low-variance series with demand in every month.
var steadySeries = domain.MonthlySeries{100, 110, 105, 120, 95, 115, 108, 112, 100, 110, 105, 115}

func TestClassifyPattern(t *testing.T) {
	tests := []struct {
		name    string
		series  domain.MonthlySeries
		wantADI float64
		want    domain.DemandPattern
	}{
		{
			name:    "steady monthly demand is smooth",
			series:  steadySeries,
			wantADI: 1.0,
			want:    domain.PatternSmooth,
		},
		{
			name:    "volatile but regular demand is erratic",
			series:  domain.MonthlySeries{10, 200, 15, 300, 20, 250, 30, 280, 25, 310, 18, 290},
			wantADI: 1.0,
			want:    domain.PatternErratic,
		},
		{
			name:    "three quarters of steady orders is intermittent",
			series:  domain.MonthlySeries{50, 50, 50, 0, 50, 50, 50, 0, 50, 50, 50, 0},
			wantADI: 12.0 / 9.0,
			want:    domain.PatternIntermittent,
		},
		{
			name:    "quarterly equal orders is intermittent",
			series:  domain.MonthlySeries{0, 0, 0, 100, 0, 0, 0, 100, 0, 0, 0, 100},
			wantADI: 4.0,
			want:    domain.PatternIntermittent,
		},
		{
			name:    "sparse and wildly sized demand is lumpy",
			series:  domain.MonthlySeries{0, 0, 500, 0, 0, 0, 10, 0, 0, 0, 900, 0},
			wantADI: 4.0,
			want:    domain.PatternLumpy,
		},
		{
			name:    "no demand at all is lumpy",
			series:  domain.MonthlySeries{},
			wantADI: 0,
			want:    domain.PatternLumpy,
		},
	}

	m := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adi, cv2, pattern := m.ClassifyPattern(tt.series)
			assert.Equal(t, tt.want, pattern)
			assert.InDelta(t, tt.wantADI, adi, 1e-9)
			assert.GreaterOrEqual(t, cv2, 0.0)
		})
	}
}

func TestForecast(t *testing.T) {
	m := New(DefaultConfig())

	t.Run("smooth uses the mean with a normal interval", func(t *testing.T) {
		f := m.Forecast(steadySeries, domain.PatternSmooth)
		assert.Equal(t, domain.ForecastMovingAverage, f.Method)
		assert.InDelta(t, 107.9167, f.Forecast30d, 0.001)
		assert.InDelta(t, 107.9167-1.96*6.9577, f.CILower, 0.01)
		assert.InDelta(t, 107.9167+1.96*6.9577, f.CIUpper, 0.01)
	})

	t.Run("erratic weights the last three months", func(t *testing.T) {
		series := domain.MonthlySeries{10, 200, 15, 300, 20, 250, 30, 280, 25, 310, 18, 290}
		f := m.Forecast(series, domain.PatternErratic)
		assert.Equal(t, domain.ForecastWeightedAvg, f.Method)
		// 0.5*290 + 0.3*18 + 0.2*310
		assert.InDelta(t, 212.4, f.Forecast30d, 1e-9)
		assert.InDelta(t, 106.2, f.CILower, 1e-9)
		assert.InDelta(t, 318.6, f.CIUpper, 1e-9)
	})

	t.Run("intermittent spreads demand over its interval", func(t *testing.T) {
		series := domain.MonthlySeries{0, 0, 0, 100, 0, 0, 0, 100, 0, 0, 0, 100}
		f := m.Forecast(series, domain.PatternIntermittent)
		assert.Equal(t, domain.ForecastCrostons, f.Method)
		assert.InDelta(t, 1000.0, f.Forecast30d, 1e-9)
		assert.Zero(t, f.CILower)
		assert.InDelta(t, 2000.0, f.CIUpper, 1e-9)
	})

	t.Run("lumpy carries a wide interval", func(t *testing.T) {
		series := domain.MonthlySeries{0, 0, 500, 0, 0, 0, 10, 0, 0, 0, 900, 0}
		f := m.Forecast(series, domain.PatternLumpy)
		assert.Equal(t, domain.ForecastExpSmoothing, f.Method)
		assert.InDelta(t, 470.0, f.Forecast30d, 1e-9)
		assert.Zero(t, f.CILower)
		assert.InDelta(t, 1410.0, f.CIUpper, 1e-9)
	})
}

func TestCalculateROP(t *testing.T) {
	m := New(DefaultConfig())

	t.Run("smooth series with default lead time", func(t *testing.T) {
		r := m.CalculateROP(steadySeries, domain.PatternSmooth, 0)

		// avg daily 107.9167/30 over 7 days, z=1.65 on sqrt-scaled deviation
		assert.InDelta(t, 30.376, r.SafetyStock, 0.01)
		assert.InDelta(t, 55.556, r.ReorderPoint, 0.01)
		assert.InDelta(t, 804.674, r.EOQ, 0.01)
		assert.InDelta(t, 1.609, r.OrderFrequency, 0.001)
		assert.InDelta(t, r.EOQ, r.RecommendedQty, 1e-9)
	})

	t.Run("lumpy pattern holds more safety stock", func(t *testing.T) {
		smooth := m.CalculateROP(steadySeries, domain.PatternSmooth, 0)
		lumpy := m.CalculateROP(steadySeries, domain.PatternLumpy, 0)
		assert.Greater(t, lumpy.SafetyStock, smooth.SafetyStock)
		assert.InDelta(t, 2.58/1.65, lumpy.SafetyStock/smooth.SafetyStock, 1e-9)
	})

	t.Run("longer lead time raises the reorder point", func(t *testing.T) {
		week := m.CalculateROP(steadySeries, domain.PatternSmooth, 7)
		month := m.CalculateROP(steadySeries, domain.PatternSmooth, 28)
		assert.Greater(t, month.ReorderPoint, week.ReorderPoint)
		assert.InDelta(t, 2.0, month.SafetyStock/week.SafetyStock, 1e-9)
	})

	t.Run("idle series floors demand at one unit per month", func(t *testing.T) {
		r := m.CalculateROP(domain.MonthlySeries{}, domain.PatternLumpy, 0)

		// avg daily 1/30 over 7 days of lead time; no variance, no
		// safety stock.
		assert.InDelta(t, 0.2333, r.ReorderPoint, 0.001)
		assert.Zero(t, r.SafetyStock)
		assert.InDelta(t, 77.4597, r.EOQ, 0.001)
		assert.InDelta(t, r.EOQ, r.RecommendedQty, 1e-9)
		assert.InDelta(t, 12.0/77.4597, r.OrderFrequency, 0.001)
	})
}

func TestAnalyze(t *testing.T) {
	m := New(DefaultConfig())
	res := m.Analyze("PUMP-A", "Submersible Pump A", steadySeries, 0)

	assert.Equal(t, "PUMP-A", res.ItemCode)
	assert.Equal(t, domain.PatternSmooth, res.Pattern)
	assert.InDelta(t, 1.0, res.ADI, 1e-9)
	assert.InDelta(t, 107.9167, res.AvgMonthlyDemand, 0.001)
	assert.InDelta(t, 6.9577, res.StdDevDemand, 0.001)
	assert.Equal(t, domain.ForecastMovingAverage, res.Forecast.Method)
	assert.InDelta(t, 55.556, res.Reorder.ReorderPoint, 0.01)
	assert.Contains(t, res.Recommendation, "REGULAR_ORDERING")
	assert.Equal(t, 2, res.Priority)
	assert.NotEmpty(t, res.Guidance)
}

func TestRecommendationFor(t *testing.T) {
	tests := []struct {
		pattern      domain.DemandPattern
		wantAction   string
		wantPriority int
	}{
		{domain.PatternSmooth, "REGULAR_ORDERING", 2},
		{domain.PatternErratic, "FLEXIBLE_ORDERING", 5},
		{domain.PatternIntermittent, "PERIODIC_ORDERING", 4},
		{domain.PatternLumpy, "SPECIAL_ORDERING", 8},
	}

	for _, tt := range tests {
		t.Run(string(tt.pattern), func(t *testing.T) {
			rec := recommendationFor(tt.pattern)
			assert.Contains(t, rec.action, tt.wantAction)
			assert.Equal(t, tt.wantPriority, rec.priority)
			require.NotEmpty(t, rec.guidance)
		})
	}
}
