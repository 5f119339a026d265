package domain

// ItemMetrics is the raw per-item input to the item classifier.
// Velocity, TurnoverRatio and ConsistencyScore are optional precomputed
// features; when zero they are derived during preparation.
type ItemMetrics struct {
	ItemCode          string  `json:"item_code" db:"item_code"`
	ItemName          string  `json:"item_name" db:"item_name"`
	UOM               string  `json:"uom" db:"uom"`
	AnnualSalesQty    float64 `json:"annual_sales_qty" db:"annual_sales_qty"`
	AnnualSalesValue  float64 `json:"annual_sales_value" db:"annual_sales_value"`
	CurrentStock      float64 `json:"current_stock" db:"current_stock"`
	StockValue        float64 `json:"stock_value" db:"stock_value"`
	ItemAgeDays       float64 `json:"item_age_days" db:"item_age_days"`
	DaysSinceLastSale float64 `json:"days_since_last_sale" db:"days_since_last_sale"`
	CreatedDate       string  `json:"created_date" db:"created_date"`

	// Optional precomputed features
	SalesVelocity     float64 `json:"sales_velocity,omitempty" db:"sales_velocity"`
	TurnoverRatio     float64 `json:"turnover_ratio,omitempty" db:"turnover_ratio"`
	ConsistencyScore  float64 `json:"consistency_score,omitempty" db:"consistency_score"`
	DemandVariability float64 `json:"demand_variability,omitempty" db:"demand_variability"`
}

// ClassificationResult is the immutable output of one classification run for
// one item. It is computed fresh per call and never mutated afterward.
type ClassificationResult struct {
	ItemCode   string               `json:"item_code" db:"item_code"`
	ItemName   string               `json:"item_name" db:"item_name"`
	UOM        string               `json:"uom" db:"uom"`
	Label      Classification       `json:"classification" db:"classification"`
	Confidence int                  `json:"confidence" db:"confidence"`
	Method     ClassificationMethod `json:"method" db:"method"`
	Reason     string               `json:"reason" db:"reason"`

	AnnualSalesQty   float64 `json:"annual_sales_qty" db:"annual_sales_qty"`
	AnnualSalesValue float64 `json:"annual_sales_value" db:"annual_sales_value"`
	SalesVelocity    float64 `json:"sales_velocity" db:"sales_velocity"`
	TurnoverRatio    float64 `json:"turnover_ratio" db:"turnover_ratio"`
	CurrentStock     float64 `json:"current_stock" db:"current_stock"`
	StockValue       float64 `json:"stock_value" db:"stock_value"`

	HoldingCostAnnually float64        `json:"holding_cost_annually" db:"holding_cost_annually"`
	DaysOfStock         float64        `json:"days_of_stock" db:"days_of_stock"`
	ABCCategory         ABCCategory    `json:"abc_category" db:"abc_category"`
	DormancyStatus      DormancyStatus `json:"dormancy_status" db:"dormancy_status"`
	NewItemStatus       LifeStage      `json:"new_item_status" db:"new_item_status"`

	RecommendedAction string  `json:"recommended_action" db:"recommended_action"`
	ActionPriority    int     `json:"action_priority" db:"action_priority"`
	ExpectedImpact    float64 `json:"expected_impact" db:"expected_impact"`
}

// BatchStats reports what happened to every item in a classification batch:
// batch outputs may shrink, but never silently.
type BatchStats struct {
	Total      int `json:"total"`
	Classified int `json:"classified"`
	Skipped    int `json:"skipped"`
	Errored    int `json:"errored"`
	Fallbacks  int `json:"fallbacks"`
}

// MonthsPerYear is the fixed length of a demand series.
const MonthsPerYear = 12

// MonthlySeries is 12 ordered monthly demand values, oldest first.
type MonthlySeries [MonthsPerYear]float64

// ForecastResult is a 30-day demand forecast with its confidence interval.
type ForecastResult struct {
	Forecast30d float64        `json:"forecast_30d" db:"forecast_30d"`
	CILower     float64        `json:"ci_lower" db:"ci_lower"`
	CIUpper     float64        `json:"ci_upper" db:"ci_upper"`
	Method      ForecastMethod `json:"method" db:"forecast_method"`
}

// ReorderResult carries the inventory-control parameters derived from a
// demand series.
type ReorderResult struct {
	ReorderPoint   float64 `json:"reorder_point" db:"reorder_point"`
	SafetyStock    float64 `json:"safety_stock" db:"safety_stock"`
	EOQ            float64 `json:"economic_order_qty" db:"economic_order_qty"`
	RecommendedQty float64 `json:"recommended_order_qty" db:"recommended_order_qty"`
	OrderFrequency float64 `json:"order_frequency" db:"order_frequency"`
}

// DemandPatternResult is the full output of the demand pattern classifier.
type DemandPatternResult struct {
	ItemCode string        `json:"item_code" db:"item_code"`
	ItemName string        `json:"item_name" db:"item_name"`
	Pattern  DemandPattern `json:"demand_pattern" db:"demand_pattern"`

	ADI              float64 `json:"adi" db:"adi"`
	CVSquared        float64 `json:"cv_squared" db:"cv_squared"`
	AvgMonthlyDemand float64 `json:"avg_monthly_demand" db:"avg_monthly_demand"`
	StdDevDemand     float64 `json:"std_dev_demand" db:"std_dev_demand"`

	Forecast ForecastResult `json:"forecast"`
	Reorder  ReorderResult  `json:"reorder"`

	Recommendation string   `json:"recommendation" db:"recommendation"`
	Priority       int      `json:"priority" db:"priority"`
	Guidance       []string `json:"guidance,omitempty"`
}

// NewItemMetrics is the raw input to the health scorer for a newly launched item.
type NewItemMetrics struct {
	ItemCode        string  `json:"item_code" db:"item_code"`
	ItemName        string  `json:"item_name" db:"item_name"`
	ItemAgeDays     float64 `json:"item_age_days" db:"item_age_days"`
	ActualSalesQty  float64 `json:"actual_sales_qty" db:"actual_sales_qty"`
	TargetSalesQty  float64 `json:"target_sales_qty" db:"target_sales_qty"`
	UniqueCustomers int     `json:"unique_customers" db:"unique_customers"`
	RepeatCustomers int     `json:"repeat_customers" db:"repeat_customers"`
	CurrentStock    float64 `json:"current_stock" db:"current_stock"`
	StockValue      float64 `json:"stock_value" db:"stock_value"`
	AvgMonthlySales float64 `json:"avg_monthly_sales" db:"avg_monthly_sales"`
	SalesLastWeek   float64 `json:"sales_last_week" db:"sales_last_week"`
	SalesPriorWeek  float64 `json:"sales_prior_week" db:"sales_prior_week"`
}

// ComponentScore is one weighted sub-score of the composite health score.
type ComponentScore struct {
	Score  int    `json:"score" db:"score"`
	Reason string `json:"reason" db:"reason"`
}

// HealthScoreResult is the composite health assessment of a new item.
type HealthScoreResult struct {
	ItemCode    string       `json:"item_code" db:"item_code"`
	ItemName    string       `json:"item_name" db:"item_name"`
	Score       int          `json:"health_score" db:"health_score"`
	Status      HealthStatus `json:"health_status" db:"health_status"`
	LifeStage   LifeStage    `json:"life_stage" db:"life_stage"`
	ItemAgeDays float64      `json:"item_age_days" db:"item_age_days"`

	SalesPerformance    ComponentScore `json:"sales_performance"`
	CustomerAcquisition ComponentScore `json:"customer_acquisition"`
	StockAdequacy       ComponentScore `json:"stock_adequacy"`
	GrowthTrend         ComponentScore `json:"growth_trend"`

	TotalCustomers     int     `json:"total_customers" db:"total_customers"`
	RepeatCustomersPct float64 `json:"repeat_customers_pct" db:"repeat_customers_pct"`
	SalesVsTargetPct   float64 `json:"sales_vs_target_pct" db:"sales_vs_target_pct"`
	DaysOfStock        float64 `json:"days_of_stock" db:"days_of_stock"`
	GrowthTrendPct     float64 `json:"growth_trend_pct" db:"growth_trend_pct"`

	RecommendedAction string   `json:"recommended_action" db:"recommended_action"`
	ActionPriority    int      `json:"action_priority" db:"action_priority"`
	KeyMetrics        []string `json:"key_metrics,omitempty"`
	WarningFlags      []string `json:"warning_flags,omitempty"`
}
