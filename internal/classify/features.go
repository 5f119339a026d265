package classify

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// daysPerYear converts annual sales quantity to a daily velocity.
const daysPerYear = 365.0

// PrepareItems cleans a batch and fills in derived features. Negative ages,
// stock and sales quantities are clamped to zero with a logged warning so a
// malformed row still produces a result. The input slice is not mutated.
func PrepareItems(cfg Config, items []domain.ItemMetrics) []domain.ItemMetrics {
	prepared := make([]domain.ItemMetrics, len(items))
	for i, it := range items {
		if it.ItemAgeDays < 0 || it.DaysSinceLastSale < 0 || it.AnnualSalesQty < 0 || it.CurrentStock < 0 {
			log.Warn().Str("item_code", it.ItemCode).Msg("negative metric clamped to zero")
			it.ItemAgeDays = math.Max(0, it.ItemAgeDays)
			it.DaysSinceLastSale = math.Max(0, it.DaysSinceLastSale)
			it.AnnualSalesQty = math.Max(0, it.AnnualSalesQty)
			it.CurrentStock = math.Max(0, it.CurrentStock)
		}

		if it.SalesVelocity == 0 {
			it.SalesVelocity = it.AnnualSalesQty / daysPerYear
		}
		if it.TurnoverRatio == 0 {
			if it.CurrentStock > 0 {
				it.TurnoverRatio = it.AnnualSalesQty / it.CurrentStock
			} else {
				it.TurnoverRatio = 0
			}
		}
		if it.ConsistencyScore == 0 {
			it.ConsistencyScore = cfg.DefaultConsistency
		}

		prepared[i] = it
	}
	return prepared
}

// mlEligible filters the subset usable by the clustering strategies: items
// with no sales at all carry no density signal (dead stock is the rule
// engine's business, not the clusterer's).
func mlEligible(items []domain.ItemMetrics) []domain.ItemMetrics {
	eligible := make([]domain.ItemMetrics, 0, len(items))
	for _, it := range items {
		if it.AnnualSalesQty > 0 {
			eligible = append(eligible, it)
		}
	}
	return eligible
}

// ScalerParams is the explicit fit state of a per-batch standard scaler.
// It is a value object: fit once per batch, then threaded into every
// clustering call, never stored on the classifier.
type ScalerParams struct {
	Mean   []float64
	StdDev []float64
}

// FitScaler computes per-feature mean and population standard deviation over
// the batch. Constant features scale to zero rather than dividing by zero.
func FitScaler(features [][]float64) ScalerParams {
	if len(features) == 0 {
		return ScalerParams{}
	}
	dims := len(features[0])
	mean := make([]float64, dims)
	std := make([]float64, dims)

	for _, row := range features {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(features))
	for j := range mean {
		mean[j] /= n
	}
	for _, row := range features {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}
	return ScalerParams{Mean: mean, StdDev: std}
}

// Transform standardizes a feature matrix with the fitted parameters.
func (s ScalerParams) Transform(features [][]float64) [][]float64 {
	scaled := make([][]float64, len(features))
	for i, row := range features {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = (v - s.Mean[j]) / s.StdDev[j]
		}
		scaled[i] = out
	}
	return scaled
}

// dbscanFeatures builds the 4-dimensional feature matrix used by density
// clustering.
func dbscanFeatures(items []domain.ItemMetrics) [][]float64 {
	features := make([][]float64, len(items))
	for i, it := range items {
		features[i] = []float64{it.SalesVelocity, it.TurnoverRatio, it.DaysSinceLastSale, it.AnnualSalesValue}
	}
	return features
}

// kmeansFeatures builds the 3-dimensional feature matrix used by centroid
// clustering.
func kmeansFeatures(items []domain.ItemMetrics) [][]float64 {
	features := make([][]float64, len(items))
	for i, it := range items {
		features[i] = []float64{it.SalesVelocity, it.TurnoverRatio, it.AnnualSalesValue}
	}
	return features
}
