// backend-go/internal/repository/analytics_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// UpsertStats reports how many rows an upsert batch created vs updated.
type UpsertStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// ClassificationFilter narrows classification listings.
type ClassificationFilter struct {
	Labels      []string
	ABCCategory string
	Page        int
	PageSize    int
}

type AnalyticsRepository interface {
	SaveClassifications(ctx context.Context, results []domain.ClassificationResult) (UpsertStats, error)
	SaveDemandPatterns(ctx context.Context, results []domain.DemandPatternResult) (UpsertStats, error)
	SaveHealthScores(ctx context.Context, results []domain.HealthScoreResult) (UpsertStats, error)
	ListClassifications(ctx context.Context, filter ClassificationFilter) ([]domain.ClassificationResult, int, error)
	GetDashboard(ctx context.Context) (*domain.Dashboard, error)
}

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SaveClassifications(ctx context.Context, results []domain.ClassificationResult) (UpsertStats, error) {
	var stats UpsertStats

	query := `
        INSERT INTO item_classifications (
            item_code, item_name, uom, classification, confidence, method, reason,
            annual_sales_qty, annual_sales_value, sales_velocity, turnover_ratio,
            current_stock, stock_value, holding_cost_annually, days_of_stock,
            abc_category, dormancy_status, new_item_status,
            recommended_action, action_priority, expected_impact,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
            $16, $17, $18, $19, $20, $21, NOW(), NOW()
        )
        ON CONFLICT (item_code)
        DO UPDATE SET
            item_name = EXCLUDED.item_name,
            uom = EXCLUDED.uom,
            classification = EXCLUDED.classification,
            confidence = EXCLUDED.confidence,
            method = EXCLUDED.method,
            reason = EXCLUDED.reason,
            annual_sales_qty = EXCLUDED.annual_sales_qty,
            annual_sales_value = EXCLUDED.annual_sales_value,
            sales_velocity = EXCLUDED.sales_velocity,
            turnover_ratio = EXCLUDED.turnover_ratio,
            current_stock = EXCLUDED.current_stock,
            stock_value = EXCLUDED.stock_value,
            holding_cost_annually = EXCLUDED.holding_cost_annually,
            days_of_stock = EXCLUDED.days_of_stock,
            abc_category = EXCLUDED.abc_category,
            dormancy_status = EXCLUDED.dormancy_status,
            new_item_status = EXCLUDED.new_item_status,
            recommended_action = EXCLUDED.recommended_action,
            action_priority = EXCLUDED.action_priority,
            expected_impact = EXCLUDED.expected_impact,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `

	for _, res := range results {
		if res.ItemCode == "" {
			stats.Skipped++
			continue
		}

		var inserted bool
		err := r.db.QueryRowxContext(ctx, query,
			res.ItemCode, res.ItemName, res.UOM, res.Label, res.Confidence, res.Method, res.Reason,
			res.AnnualSalesQty, res.AnnualSalesValue, res.SalesVelocity, res.TurnoverRatio,
			res.CurrentStock, res.StockValue, res.HoldingCostAnnually, res.DaysOfStock,
			res.ABCCategory, res.DormancyStatus, res.NewItemStatus,
			res.RecommendedAction, res.ActionPriority, res.ExpectedImpact,
		).Scan(&inserted)
		if err != nil {
			return stats, fmt.Errorf("error saving classification for %s: %w", res.ItemCode, err)
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

func (r *analyticsRepository) SaveDemandPatterns(ctx context.Context, results []domain.DemandPatternResult) (UpsertStats, error) {
	var stats UpsertStats

	query := `
        INSERT INTO demand_patterns (
            item_code, item_name, demand_pattern, adi, cv_squared,
            avg_monthly_demand, std_dev_demand,
            forecast_30d, ci_lower, ci_upper, forecast_method,
            reorder_point, safety_stock, economic_order_qty,
            recommended_order_qty, order_frequency,
            recommendation, priority, guidance,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
            $16, $17, $18, $19, NOW(), NOW()
        )
        ON CONFLICT (item_code)
        DO UPDATE SET
            item_name = EXCLUDED.item_name,
            demand_pattern = EXCLUDED.demand_pattern,
            adi = EXCLUDED.adi,
            cv_squared = EXCLUDED.cv_squared,
            avg_monthly_demand = EXCLUDED.avg_monthly_demand,
            std_dev_demand = EXCLUDED.std_dev_demand,
            forecast_30d = EXCLUDED.forecast_30d,
            ci_lower = EXCLUDED.ci_lower,
            ci_upper = EXCLUDED.ci_upper,
            forecast_method = EXCLUDED.forecast_method,
            reorder_point = EXCLUDED.reorder_point,
            safety_stock = EXCLUDED.safety_stock,
            economic_order_qty = EXCLUDED.economic_order_qty,
            recommended_order_qty = EXCLUDED.recommended_order_qty,
            order_frequency = EXCLUDED.order_frequency,
            recommendation = EXCLUDED.recommendation,
            priority = EXCLUDED.priority,
            guidance = EXCLUDED.guidance,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `

	for _, res := range results {
		if res.ItemCode == "" {
			stats.Skipped++
			continue
		}

		var inserted bool
		err := r.db.QueryRowxContext(ctx, query,
			res.ItemCode, res.ItemName, res.Pattern, res.ADI, res.CVSquared,
			res.AvgMonthlyDemand, res.StdDevDemand,
			res.Forecast.Forecast30d, res.Forecast.CILower, res.Forecast.CIUpper, res.Forecast.Method,
			res.Reorder.ReorderPoint, res.Reorder.SafetyStock, res.Reorder.EOQ,
			res.Reorder.RecommendedQty, res.Reorder.OrderFrequency,
			res.Recommendation, res.Priority, pq.Array(res.Guidance),
		).Scan(&inserted)
		if err != nil {
			return stats, fmt.Errorf("error saving demand pattern for %s: %w", res.ItemCode, err)
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

func (r *analyticsRepository) SaveHealthScores(ctx context.Context, results []domain.HealthScoreResult) (UpsertStats, error) {
	var stats UpsertStats

	query := `
        INSERT INTO health_scores (
            item_code, item_name, health_score, health_status, life_stage, item_age_days,
            sales_performance_score, sales_performance_reason,
            customer_acquisition_score, customer_acquisition_reason,
            stock_adequacy_score, stock_adequacy_reason,
            growth_trend_score, growth_trend_reason,
            total_customers, repeat_customers_pct, sales_vs_target_pct,
            days_of_stock, growth_trend_pct,
            recommended_action, action_priority, key_metrics, warning_flags,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
            $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW()
        )
        ON CONFLICT (item_code)
        DO UPDATE SET
            item_name = EXCLUDED.item_name,
            health_score = EXCLUDED.health_score,
            health_status = EXCLUDED.health_status,
            life_stage = EXCLUDED.life_stage,
            item_age_days = EXCLUDED.item_age_days,
            sales_performance_score = EXCLUDED.sales_performance_score,
            sales_performance_reason = EXCLUDED.sales_performance_reason,
            customer_acquisition_score = EXCLUDED.customer_acquisition_score,
            customer_acquisition_reason = EXCLUDED.customer_acquisition_reason,
            stock_adequacy_score = EXCLUDED.stock_adequacy_score,
            stock_adequacy_reason = EXCLUDED.stock_adequacy_reason,
            growth_trend_score = EXCLUDED.growth_trend_score,
            growth_trend_reason = EXCLUDED.growth_trend_reason,
            total_customers = EXCLUDED.total_customers,
            repeat_customers_pct = EXCLUDED.repeat_customers_pct,
            sales_vs_target_pct = EXCLUDED.sales_vs_target_pct,
            days_of_stock = EXCLUDED.days_of_stock,
            growth_trend_pct = EXCLUDED.growth_trend_pct,
            recommended_action = EXCLUDED.recommended_action,
            action_priority = EXCLUDED.action_priority,
            key_metrics = EXCLUDED.key_metrics,
            warning_flags = EXCLUDED.warning_flags,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted
    `

	for _, res := range results {
		if res.ItemCode == "" {
			stats.Skipped++
			continue
		}

		var inserted bool
		err := r.db.QueryRowxContext(ctx, query,
			res.ItemCode, res.ItemName, res.Score, res.Status, res.LifeStage, res.ItemAgeDays,
			res.SalesPerformance.Score, res.SalesPerformance.Reason,
			res.CustomerAcquisition.Score, res.CustomerAcquisition.Reason,
			res.StockAdequacy.Score, res.StockAdequacy.Reason,
			res.GrowthTrend.Score, res.GrowthTrend.Reason,
			res.TotalCustomers, res.RepeatCustomersPct, res.SalesVsTargetPct,
			res.DaysOfStock, res.GrowthTrendPct,
			res.RecommendedAction, res.ActionPriority,
			pq.Array(res.KeyMetrics), pq.Array(res.WarningFlags),
		).Scan(&inserted)
		if err != nil {
			return stats, fmt.Errorf("error saving health score for %s: %w", res.ItemCode, err)
		}
		if inserted {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

func (r *analyticsRepository) ListClassifications(ctx context.Context, filter ClassificationFilter) ([]domain.ClassificationResult, int, error) {
	countQuery := `
        SELECT COUNT(*)
        FROM item_classifications
        WHERE 1=1
    `

	query := `
        SELECT
            item_code, item_name, uom, classification, confidence, method, reason,
            annual_sales_qty, annual_sales_value, sales_velocity, turnover_ratio,
            current_stock, stock_value, holding_cost_annually, days_of_stock,
            abc_category, dormancy_status, new_item_status,
            recommended_action, action_priority, expected_impact
        FROM item_classifications
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if len(filter.Labels) > 0 {
		conditions = append(conditions, fmt.Sprintf("classification = ANY($%d::text[])", argCounter))
		args = append(args, pq.Array(filter.Labels))
		argCounter++
	}

	if filter.ABCCategory != "" {
		conditions = append(conditions, fmt.Sprintf("abc_category = $%d", argCounter))
		args = append(args, filter.ABCCategory)
		argCounter++
	}

	if len(conditions) > 0 {
		whereClause := " AND " + strings.Join(conditions, " AND ")
		query += whereClause
		countQuery += whereClause
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting classifications: %w", err)
	}

	query += " ORDER BY action_priority DESC, stock_value DESC"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.PageSize, offset)
	}

	var items []domain.ClassificationResult
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error listing classifications: %w", err)
	}

	return items, total, nil
}

func (r *analyticsRepository) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	dashboard := &domain.Dashboard{}

	summaryQuery := `
        SELECT
            COUNT(*) AS total_items,
            COUNT(*) FILTER (WHERE classification IN ('FAST', 'MEDIUM', 'SLOW')) AS active_items,
            COUNT(*) FILTER (WHERE classification = 'DEAD_STOCK') AS dead_stock_items,
            COUNT(*) FILTER (WHERE classification = 'NEW_ITEM') AS new_items,
            COALESCE(SUM(stock_value), 0) AS total_stock_value,
            COALESCE(SUM(stock_value) FILTER (WHERE classification = 'DEAD_STOCK'), 0) AS dead_stock_value
        FROM item_classifications
    `

	var summary struct {
		TotalItems      int     `db:"total_items"`
		ActiveItems     int     `db:"active_items"`
		DeadStockItems  int     `db:"dead_stock_items"`
		NewItems        int     `db:"new_items"`
		TotalStockValue float64 `db:"total_stock_value"`
		DeadStockValue  float64 `db:"dead_stock_value"`
	}
	if err := r.db.GetContext(ctx, &summary, summaryQuery); err != nil {
		return nil, fmt.Errorf("error getting dashboard summary: %w", err)
	}
	dashboard.TotalItems = summary.TotalItems
	dashboard.ActiveItems = summary.ActiveItems
	dashboard.DeadStockItems = summary.DeadStockItems
	dashboard.NewItems = summary.NewItems
	dashboard.TotalStockValue = summary.TotalStockValue
	dashboard.DeadStockValue = summary.DeadStockValue

	classQuery := `
        SELECT classification, COUNT(*) AS count, COALESCE(SUM(stock_value), 0) AS stock_value
        FROM item_classifications
        GROUP BY classification
        ORDER BY count DESC
    `
	if err := r.db.SelectContext(ctx, &dashboard.ClassificationBreakdown, classQuery); err != nil {
		return nil, fmt.Errorf("error getting classification breakdown: %w", err)
	}

	patternQuery := `
        SELECT demand_pattern, COUNT(*) AS count
        FROM demand_patterns
        GROUP BY demand_pattern
        ORDER BY count DESC
    `
	if err := r.db.SelectContext(ctx, &dashboard.PatternBreakdown, patternQuery); err != nil {
		return nil, fmt.Errorf("error getting pattern breakdown: %w", err)
	}

	healthQuery := `
        SELECT health_status, COUNT(*) AS count
        FROM health_scores
        GROUP BY health_status
        ORDER BY count DESC
    `
	if err := r.db.SelectContext(ctx, &dashboard.HealthBreakdown, healthQuery); err != nil {
		return nil, fmt.Errorf("error getting health breakdown: %w", err)
	}

	var atRisk int
	atRiskQuery := `
        SELECT COUNT(*)
        FROM health_scores
        WHERE health_status IN ('CRITICAL', 'AT_RISK')
    `
	if err := r.db.GetContext(ctx, &atRisk, atRiskQuery); err != nil {
		return nil, fmt.Errorf("error counting at-risk items: %w", err)
	}
	dashboard.AtRiskItems = atRisk

	// Top liquidation candidates, recovery assumed at 30% of book value.
	deadStockQuery := `
        SELECT item_code, item_name, stock_value, stock_value * 0.3 AS recovery_value
        FROM item_classifications
        WHERE classification = 'DEAD_STOCK'
        ORDER BY stock_value DESC
        LIMIT 10
    `
	if err := r.db.SelectContext(ctx, &dashboard.TopDeadStock, deadStockQuery); err != nil {
		return nil, fmt.Errorf("error getting top dead stock: %w", err)
	}

	return dashboard, nil
}
