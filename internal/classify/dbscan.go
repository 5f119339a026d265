package classify

import (
	"fmt"
	"math"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// noiseCluster marks points not assigned to any dense cluster.
const noiseCluster = -1

// dbscanAssign runs density-based clustering over scaled feature rows and
// returns a cluster id per point, noiseCluster for outliers.
func dbscanAssign(points [][]float64, eps float64, minSamples int) []int {
	const unvisited = -2

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	cluster := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		neighbors := regionQuery(points, i, eps)
		if len(neighbors) < minSamples {
			labels[i] = noiseCluster
			continue
		}

		labels[i] = cluster
		// Expand the cluster through density-reachable points.
		for q := 0; q < len(neighbors); q++ {
			j := neighbors[q]
			if labels[j] == noiseCluster {
				labels[j] = cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			next := regionQuery(points, j, eps)
			if len(next) >= minSamples {
				neighbors = append(neighbors, next...)
			}
		}
		cluster++
	}
	return labels
}

func regionQuery(points [][]float64, idx int, eps float64) []int {
	var neighbors []int
	for j := range points {
		if euclidean(points[idx], points[j]) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// classifyDBSCAN fits the batch scaler (the barrier), clusters the batch and
// maps every item to an outcome. Outliers follow the dormancy/velocity
// policy; cluster members follow their cluster's mean velocity.
func classifyDBSCAN(cfg Config, items []domain.ItemMetrics) []outcome {
	features := dbscanFeatures(items)
	scaler := FitScaler(features)
	scaled := scaler.Transform(features)

	labels := dbscanAssign(scaled, cfg.DBSCANEps, cfg.DBSCANMinSamples)

	meanVelocity := clusterMeanVelocity(items, labels)

	outcomes := make([]outcome, len(items))
	for i, it := range items {
		outcomes[i] = dbscanOutcome(cfg, it, labels[i], meanVelocity[labels[i]])
	}
	return outcomes
}

// clusterMeanVelocity averages sales velocity per cluster id. Outliers get
// their own velocity back.
func clusterMeanVelocity(items []domain.ItemMetrics, labels []int) map[int]float64 {
	sum := make(map[int]float64)
	count := make(map[int]float64)
	for i, it := range items {
		if labels[i] == noiseCluster {
			continue
		}
		sum[labels[i]] += it.SalesVelocity
		count[labels[i]]++
	}
	mean := make(map[int]float64, len(sum)+1)
	for id, s := range sum {
		mean[id] = s / count[id]
	}
	return mean
}

func dbscanOutcome(cfg Config, it domain.ItemMetrics, cluster int, meanVelocity float64) outcome {
	// All density outcomes carry the model's flat confidence.
	const dbscanConfidence = 0.75

	if cluster == noiseCluster {
		switch {
		case it.DaysSinceLastSale > 150:
			return outcome{
				label:      domain.ClassDeadStock,
				confidence: dbscanConfidence,
				reason:     fmt.Sprintf("Density outlier, no sale for %.0f days", it.DaysSinceLastSale),
			}
		case it.SalesVelocity > cfg.FastMinVelocity*1.5:
			return outcome{
				label:      domain.ClassFast,
				confidence: dbscanConfidence,
				reason:     fmt.Sprintf("Density outlier with exceptional velocity %.2f units/day", it.SalesVelocity),
			}
		default:
			return outcome{
				label:      domain.ClassSlow,
				confidence: dbscanConfidence,
				reason:     "Density outlier without fast-mover signal",
			}
		}
	}

	label := velocityBand(cfg, meanVelocity)
	return outcome{
		label:      label,
		confidence: dbscanConfidence,
		reason:     fmt.Sprintf("Cluster %d mean velocity %.2f units/day", cluster, meanVelocity),
	}
}

// velocityBand maps a mean velocity onto the FAST/MEDIUM/SLOW bands shared by
// both clustering strategies.
func velocityBand(cfg Config, velocity float64) domain.Classification {
	switch {
	case velocity > cfg.FastMinVelocity:
		return domain.ClassFast
	case velocity > cfg.MediumVelocityFloor:
		return domain.ClassMedium
	default:
		return domain.ClassSlow
	}
}
