package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/hydroinv/backend-go/internal/cache"
	"github.com/andresuchdata/hydroinv/backend-go/internal/classify"
	"github.com/andresuchdata/hydroinv/backend-go/internal/demand"
	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
	"github.com/andresuchdata/hydroinv/backend-go/internal/health"
	"github.com/andresuchdata/hydroinv/backend-go/internal/ingest"
	"github.com/andresuchdata/hydroinv/backend-go/internal/repository"
)

// AnalyticsService runs the analytics models and, when a repository is
// configured, persists results and serves the aggregate dashboard.
type AnalyticsService struct {
	classifier *classify.Classifier
	demand     *demand.Model
	scorer     *health.Scorer
	repo       repository.AnalyticsRepository
	cache      cache.DashboardCache
}

// NewAnalyticsService wires the three models together. repo may be nil for
// compute-only use (the CLI without a database); cache may be nil.
func NewAnalyticsService(
	classifier *classify.Classifier,
	demandModel *demand.Model,
	scorer *health.Scorer,
	repo repository.AnalyticsRepository,
	cacheImpl cache.DashboardCache,
) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &AnalyticsService{
		classifier: classifier,
		demand:     demandModel,
		scorer:     scorer,
		repo:       repo,
		cache:      cacheImpl,
	}
}

// ClassifyItems classifies a batch and persists the results when a
// repository is configured.
func (s *AnalyticsService) ClassifyItems(ctx context.Context, items []domain.ItemMetrics, method domain.ClassificationMethod) ([]domain.ClassificationResult, domain.BatchStats, error) {
	results, stats, err := s.classifier.Classify(ctx, items, method)
	if err != nil {
		return nil, stats, err
	}

	log.Info().
		Int("total", stats.Total).
		Int("classified", stats.Classified).
		Int("skipped", stats.Skipped).
		Int("errored", stats.Errored).
		Int("fallbacks", stats.Fallbacks).
		Str("method", string(method)).
		Msg("classification batch complete")

	if s.repo != nil {
		saved, err := s.repo.SaveClassifications(ctx, results)
		if err != nil {
			return nil, stats, err
		}
		log.Info().Int("created", saved.Created).Int("updated", saved.Updated).Msg("classifications persisted")
		s.invalidateDashboard(ctx)
	}

	return results, stats, nil
}

// AnalyzeDemand classifies demand patterns and derives forecasts and reorder
// parameters for each item's monthly history.
func (s *AnalyticsService) AnalyzeDemand(ctx context.Context, rows []ingest.DemandRow) ([]domain.DemandPatternResult, error) {
	results := make([]domain.DemandPatternResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, s.demand.Analyze(row.ItemCode, row.ItemName, row.Series, row.LeadTimeDays))
	}

	log.Info().Int("items", len(results)).Msg("demand analysis complete")

	if s.repo != nil {
		saved, err := s.repo.SaveDemandPatterns(ctx, results)
		if err != nil {
			return nil, err
		}
		log.Info().Int("created", saved.Created).Int("updated", saved.Updated).Msg("demand patterns persisted")
		s.invalidateDashboard(ctx)
	}

	return results, nil
}

// ScoreNewItems computes composite health scores for a batch of new items.
func (s *AnalyticsService) ScoreNewItems(ctx context.Context, items []domain.NewItemMetrics) ([]domain.HealthScoreResult, error) {
	results := make([]domain.HealthScoreResult, 0, len(items))
	for _, item := range items {
		results = append(results, s.scorer.Score(item))
	}

	log.Info().Int("items", len(results)).Msg("health scoring complete")

	if s.repo != nil {
		saved, err := s.repo.SaveHealthScores(ctx, results)
		if err != nil {
			return nil, err
		}
		log.Info().Int("created", saved.Created).Int("updated", saved.Updated).Msg("health scores persisted")
		s.invalidateDashboard(ctx)
	}

	return results, nil
}

// ListClassifications returns stored classification results.
func (s *AnalyticsService) ListClassifications(ctx context.Context, filter repository.ClassificationFilter) ([]domain.ClassificationResult, int, error) {
	return s.repo.ListClassifications(ctx, filter)
}

// GetDashboard serves the aggregate view, cache-aside.
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	if dashboard, ok, err := s.cache.Get(ctx); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get dashboard failed")
	}

	dashboard, err := s.repo.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, dashboard); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set dashboard failed")
	}

	return dashboard, nil
}

func (s *AnalyticsService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidation failed")
	}
}
