// Package classify assigns operational categories to inventory items using
// deterministic rules, density clustering, centroid clustering, or a hybrid
// ensemble of the three.
package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// ErrUnknownMethod is a fatal configuration error: never retried, never
// substituted with a default strategy.
var ErrUnknownMethod = errors.New("unknown classification method")

// Classifier is a stateless classification engine. It holds configuration
// only; all fit state (the batch scaler) lives in per-call value objects.
type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Classifier{cfg: cfg}
}

// Classify runs one strategy over a batch. The result batch may be smaller
// than the input (ML-ineligible or erroring items), but never silently: the
// returned stats account for every input item.
func (c *Classifier) Classify(ctx context.Context, items []domain.ItemMetrics, method domain.ClassificationMethod) ([]domain.ClassificationResult, domain.BatchStats, error) {
	stats := domain.BatchStats{Total: len(items)}
	if len(items) == 0 {
		return []domain.ClassificationResult{}, stats, nil
	}

	prepared := PrepareItems(c.cfg, items)

	var results []domain.ClassificationResult
	var err error
	switch method {
	case domain.MethodRuleBased:
		results, err = c.perItem(ctx, prepared, &stats, func(it domain.ItemMetrics) (outcome, domain.ClassificationMethod) {
			return applyRules(c.cfg, it), domain.MethodRuleBased
		})
	case domain.MethodDBSCAN:
		results, err = c.clustered(ctx, prepared, &stats, domain.MethodDBSCAN, 1, classifyDBSCAN)
	case domain.MethodKMeans:
		results, err = c.clustered(ctx, prepared, &stats, domain.MethodKMeans, c.cfg.KMeansClusters, classifyKMeans)
	case domain.MethodHybrid:
		results, err = c.perItem(ctx, prepared, &stats, func(it domain.ItemMetrics) (outcome, domain.ClassificationMethod) {
			return classifyHybrid(c.cfg, it), domain.MethodHybrid
		})
	default:
		return nil, stats, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if err != nil {
		return nil, stats, err
	}

	stats.Classified = len(results)
	return results, stats, nil
}

// perItem fans classification out across the batch. Items are independent,
// so assignment order carries no meaning; results keep input order.
func (c *Classifier) perItem(ctx context.Context, items []domain.ItemMetrics, stats *domain.BatchStats, fn func(domain.ItemMetrics) (outcome, domain.ClassificationMethod)) ([]domain.ClassificationResult, error) {
	slots := make([]*domain.ClassificationResult, len(items))
	errored := make([]bool, len(items))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("item_code", it.ItemCode).Interface("panic", r).Msg("item classification failed")
					errored[i] = true
				}
			}()
			out, method := fn(it)
			res := buildResult(c.cfg, it, out, method)
			slots[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]domain.ClassificationResult, 0, len(items))
	for i, res := range slots {
		if errored[i] || res == nil {
			stats.Errored++
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// clustered runs a batch clustering strategy over the ML-eligible subset.
// The cluster assignment itself is the barrier: it completes over the whole
// eligible batch before any result is built. Items the strategy cannot
// handle fall back to the rule engine, tagged RULE_BASED.
func (c *Classifier) clustered(ctx context.Context, items []domain.ItemMetrics, stats *domain.BatchStats, method domain.ClassificationMethod, minPoints int, strategy func(Config, []domain.ItemMetrics) []outcome) ([]domain.ClassificationResult, error) {
	eligible := mlEligible(items)
	ineligible := len(items) - len(eligible)

	if len(eligible) < minPoints {
		// Clustering cannot run; classify the whole batch rule-based so
		// every item still gets a result.
		log.Warn().
			Str("method", string(method)).
			Int("eligible", len(eligible)).
			Msg("clustering unavailable, falling back to rule-based")
		stats.Fallbacks += len(items)
		return c.perItem(ctx, items, stats, func(it domain.ItemMetrics) (outcome, domain.ClassificationMethod) {
			return applyRules(c.cfg, it), domain.MethodRuleBased
		})
	}

	stats.Skipped += ineligible
	outcomes := strategy(c.cfg, eligible)

	slots := make([]*domain.ClassificationResult, len(eligible))
	errored := make([]bool, len(eligible))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, it := range eligible {
		i, it := i, it
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("item_code", it.ItemCode).Interface("panic", r).Msg("item enrichment failed")
					errored[i] = true
				}
			}()
			res := buildResult(c.cfg, it, outcomes[i], method)
			slots[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]domain.ClassificationResult, 0, len(eligible))
	for i, res := range slots {
		if errored[i] || res == nil {
			stats.Errored++
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}
