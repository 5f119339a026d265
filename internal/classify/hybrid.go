package classify

import (
	"fmt"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// Ensemble vote weights.
const (
	ruleVoteWeight   = 0.5
	dbscanVoteWeight = 0.35
	fastVelocityVote = 0.15
)

// classifyHybrid combines the rule engine with a density check per item.
//
// The density step runs over a singleton batch containing just the item, so
// it degenerates to the outlier policy rather than true density estimation
// over the population. This reproduces the established ensemble behavior;
// reclassifying against the full-batch cluster space would change vote
// inputs and is intentionally not done without a compatibility flag.
func classifyHybrid(cfg Config, it domain.ItemMetrics) outcome {
	ruleOut := applyRules(cfg, it)
	if ruleOut.confidence > 0.90 {
		return ruleOut
	}

	dbscanOut := classifyDBSCAN(cfg, []domain.ItemMetrics{it})[0]

	votes := map[domain.Classification]float64{}
	votes[ruleOut.label] += ruleOut.confidence * ruleVoteWeight
	votes[dbscanOut.label] += dbscanOut.confidence * dbscanVoteWeight
	if it.SalesVelocity > cfg.FastMinVelocity {
		votes[domain.ClassFast] += fastVelocityVote
	}

	winner, total := tallyVotes(votes)
	return outcome{
		label:      winner,
		confidence: votes[winner] / total,
		reason: fmt.Sprintf("Ensemble: %s(%.0f%%) + DBSCAN %s(%.0f%%) -> %s",
			ruleOut.label, ruleOut.confidence*100, dbscanOut.label, dbscanOut.confidence*100, winner),
	}
}

// tallyVotes picks the label with the highest accumulated vote mass. Ties
// resolve by the stable label ranking FAST > DEAD_STOCK > NEW_ITEM > SLOW >
// MEDIUM, never by map iteration order.
func tallyVotes(votes map[domain.Classification]float64) (domain.Classification, float64) {
	var total float64
	for _, v := range votes {
		total += v
	}

	winner := domain.ClassMedium
	best := -1.0
	for _, label := range domain.Classifications {
		v, ok := votes[label]
		if !ok {
			continue
		}
		if v > best {
			winner, best = label, v
		}
	}
	return winner, total
}
