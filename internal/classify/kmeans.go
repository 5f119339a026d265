package classify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// kmeansSeed fixes centroid initialization so repeated runs over the same
// batch yield identical partitions.
const kmeansSeed = 42

const kmeansMaxIterations = 100

// kmeansAssign partitions scaled points into k clusters with Lloyd's
// algorithm and k-means++ style seeding. Returns cluster ids per point.
func kmeansAssign(points [][]float64, k int) []int {
	if k > len(points) {
		k = len(points)
	}
	rng := rand.New(rand.NewSource(kmeansSeed))
	centroids := seedCentroids(points, k, rng)

	labels := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.MaxFloat64
			for c, centroid := range centroids {
				if d := euclidean(p, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; empty clusters keep their previous position.
		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for j, v := range p {
				sums[c][j] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / counts[c]
			}
		}
	}
	return labels
}

// seedCentroids spreads initial centroids with distance-weighted sampling.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := append([]float64(nil), points[rng.Intn(len(points))]...)
	centroids = append(centroids, first)

	for len(centroids) < k {
		weights := make([]float64, len(points))
		var total float64
		for i, p := range points {
			nearest := math.MaxFloat64
			for _, c := range centroids {
				if d := euclidean(p, c); d < nearest {
					nearest = d
				}
			}
			weights[i] = nearest * nearest
			total += weights[i]
		}
		if total == 0 {
			centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		for i, w := range weights {
			acc += w
			if acc >= target {
				centroids = append(centroids, append([]float64(nil), points[i]...))
				break
			}
		}
	}
	return centroids
}

// classifyKMeans clusters the eligible batch into velocity tiers and maps
// every member to its cluster's band.
func classifyKMeans(cfg Config, items []domain.ItemMetrics) []outcome {
	features := kmeansFeatures(items)
	scaler := FitScaler(features)
	scaled := scaler.Transform(features)

	labels := kmeansAssign(scaled, cfg.KMeansClusters)
	meanVelocity := clusterMeanVelocity(items, labels)

	outcomes := make([]outcome, len(items))
	for i := range items {
		avg := meanVelocity[labels[i]]
		label := velocityBand(cfg, avg)
		conf := 0.75
		if label == domain.ClassFast {
			conf = math.Min(95, 70+avg/10) / 100
		}
		outcomes[i] = outcome{
			label:      label,
			confidence: conf,
			reason:     fmt.Sprintf("Velocity tier %d, cluster mean %.2f units/day", labels[i], avg),
		}
	}
	return outcomes
}

// SilhouetteScore measures mean intra-batch separation of a partition in
// [-1,1]. Diagnostic only: it never affects classification.
func SilhouetteScore(points [][]float64, labels []int) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	var counted int
	for i := range points {
		a, b := meanIntraInter(points, labels, i)
		if a == 0 && b == 0 {
			continue
		}
		total += (b - a) / math.Max(a, b)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func meanIntraInter(points [][]float64, labels []int, i int) (intra, inter float64) {
	intraSum, intraN := 0.0, 0.0
	interMean := make(map[int][2]float64)
	for j := range points {
		if j == i {
			continue
		}
		d := euclidean(points[i], points[j])
		if labels[j] == labels[i] {
			intraSum += d
			intraN++
		} else {
			agg := interMean[labels[j]]
			interMean[labels[j]] = [2]float64{agg[0] + d, agg[1] + 1}
		}
	}
	if intraN > 0 {
		intra = intraSum / intraN
	}
	inter = math.MaxFloat64
	for _, agg := range interMean {
		if m := agg[0] / agg[1]; m < inter {
			inter = m
		}
	}
	if inter == math.MaxFloat64 {
		inter = 0
	}
	return intra, inter
}
