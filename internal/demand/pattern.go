// Package demand classifies 12-month demand series with the
// Syntetos-Boylan-Croston scheme and derives forecasts, safety stock,
// reorder points and order quantities from the pattern.
package demand

import (
	"math"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// Model is a stateless SBC demand classifier.
type Model struct {
	cfg Config
}

func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// ClassifyPattern computes ADI and CV² over the series and maps them onto
// the four SBC quadrants. A fully zero series is LUMPY with zero metrics.
func (m *Model) ClassifyPattern(series domain.MonthlySeries) (adi, cv2 float64, pattern domain.DemandPattern) {
	nz := nonZero(series)
	if len(nz) == 0 {
		return 0, 0, domain.PatternLumpy
	}

	adi = float64(domain.MonthsPerYear) / float64(len(nz))

	m0 := mean(nz)
	cv := 0.0
	if m0 > 0 {
		cv = stdDev(nz) / m0
	}
	cv2 = cv * cv

	switch {
	case adi <= m.cfg.ADIThreshold && cv2 <= m.cfg.CV2Threshold:
		pattern = domain.PatternSmooth
	case adi <= m.cfg.ADIThreshold:
		pattern = domain.PatternErratic
	case cv2 <= m.cfg.CV2Threshold:
		pattern = domain.PatternIntermittent
	default:
		pattern = domain.PatternLumpy
	}
	return adi, cv2, pattern
}

// Forecast produces the 30-day forecast for a series, selecting the method
// by pattern.
func (m *Model) Forecast(series domain.MonthlySeries, pattern domain.DemandPattern) domain.ForecastResult {
	nz := nonZero(series)
	avgNonZero := meanOrFloor(nz)

	switch pattern {
	case domain.PatternSmooth:
		sd := stdDev(series[:])
		f := avgNonZero
		return domain.ForecastResult{
			Forecast30d: f,
			CILower:     math.Max(0, f-1.96*sd),
			CIUpper:     f + 1.96*sd,
			Method:      domain.ForecastMovingAverage,
		}

	case domain.PatternErratic:
		// Weighted average of the last three months, most recent first.
		weights := [3]float64{0.5, 0.3, 0.2}
		f := 0.0
		for i, w := range weights {
			f += series[domain.MonthsPerYear-1-i] * w
		}
		return domain.ForecastResult{
			Forecast30d: f,
			CILower:     math.Max(0, f*0.5),
			CIUpper:     f * 1.5,
			Method:      domain.ForecastWeightedAvg,
		}

	case domain.PatternIntermittent:
		// Croston-style: demand size spread over the demand interval.
		f := 0.0
		if len(nz) > 0 {
			f = mean(nz) / float64(len(nz)) * m.cfg.ForecastPeriodDays
		}
		return domain.ForecastResult{
			Forecast30d: f,
			CILower:     0,
			CIUpper:     f * 2,
			Method:      domain.ForecastCrostons,
		}

	default: // LUMPY
		f := avgNonZero
		return domain.ForecastResult{
			Forecast30d: f,
			CILower:     0,
			CIUpper:     f * 3,
			Method:      domain.ForecastExpSmoothing,
		}
	}
}

// CalculateROP derives safety stock, reorder point, EOQ, recommended order
// quantity and order frequency. leadTimeDays <= 0 uses the configured
// default.
func (m *Model) CalculateROP(series domain.MonthlySeries, pattern domain.DemandPattern, leadTimeDays float64) domain.ReorderResult {
	if leadTimeDays <= 0 {
		leadTimeDays = m.cfg.LeadTimeDays
	}

	// Demand floors at one unit per month, same as Forecast, so an idle
	// item still gets minimal reorder parameters.
	nz := nonZero(series)
	avgMonthly := meanOrFloor(nz)
	avgDaily := avgMonthly / 30

	demandDuringLT := avgDaily * leadTimeDays
	stdDevLT := stdDev(series[:]) * math.Sqrt(leadTimeDays)

	safetyStock := m.zScore(pattern) * stdDevLT
	rop := demandDuringLT + safetyStock

	annualDemand := avgMonthly * 12
	eoq := math.Sqrt(2 * annualDemand * m.cfg.OrderingCost / m.cfg.HoldingCostRate)

	orderFrequency := 12.0
	if eoq > 0 {
		orderFrequency = annualDemand / eoq
	}

	return domain.ReorderResult{
		ReorderPoint:   rop,
		SafetyStock:    safetyStock,
		EOQ:            eoq,
		RecommendedQty: math.Max(eoq, rop),
		OrderFrequency: orderFrequency,
	}
}

// Analyze runs the full pipeline for one item: pattern, forecast, reorder
// parameters and the recommendation lookup.
func (m *Model) Analyze(itemCode, itemName string, series domain.MonthlySeries, leadTimeDays float64) domain.DemandPatternResult {
	adi, cv2, pattern := m.ClassifyPattern(series)
	forecast := m.Forecast(series, pattern)
	reorder := m.CalculateROP(series, pattern, leadTimeDays)
	rec := recommendationFor(pattern)

	return domain.DemandPatternResult{
		ItemCode:         itemCode,
		ItemName:         itemName,
		Pattern:          pattern,
		ADI:              adi,
		CVSquared:        cv2,
		AvgMonthlyDemand: mean(series[:]),
		StdDevDemand:     stdDev(series[:]),
		Forecast:         forecast,
		Reorder:          reorder,
		Recommendation:   rec.action,
		Priority:         rec.priority,
		Guidance:         rec.guidance,
	}
}

func (m *Model) zScore(pattern domain.DemandPattern) float64 {
	switch pattern {
	case domain.PatternSmooth:
		return m.cfg.ZScoreSmooth
	case domain.PatternErratic:
		return m.cfg.ZScoreErratic
	case domain.PatternIntermittent:
		return m.cfg.ZScoreIntermittent
	case domain.PatternLumpy:
		return m.cfg.ZScoreLumpy
	default:
		return m.cfg.ZScoreSmooth
	}
}

func nonZero(series domain.MonthlySeries) []float64 {
	nz := make([]float64, 0, len(series))
	for _, v := range series {
		if v > 0 {
			nz = append(nz, v)
		}
	}
	return nz
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// meanOrFloor substitutes a floor of 1 for an all-zero series so downstream
// divisions stay defined.
func meanOrFloor(nonZero []float64) float64 {
	if len(nonZero) == 0 {
		return 1
	}
	return mean(nonZero)
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m0 := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m0
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
