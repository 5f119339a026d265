package domain

// ClassificationBreakdown is the per-label item count and stock value rollup.
type ClassificationBreakdown struct {
	Label      Classification `json:"classification" db:"classification"`
	Count      int            `json:"count" db:"count"`
	StockValue float64        `json:"stock_value" db:"stock_value"`
}

// PatternBreakdown counts items per demand pattern.
type PatternBreakdown struct {
	Pattern DemandPattern `json:"demand_pattern" db:"demand_pattern"`
	Count   int           `json:"count" db:"count"`
}

// HealthBreakdown counts new items per health status.
type HealthBreakdown struct {
	Status HealthStatus `json:"health_status" db:"health_status"`
	Count  int          `json:"count" db:"count"`
}

// DeadStockItem is one liquidation candidate ranked by recoverable value.
type DeadStockItem struct {
	ItemCode      string  `json:"item_code" db:"item_code"`
	ItemName      string  `json:"item_name" db:"item_name"`
	StockValue    float64 `json:"stock_value" db:"stock_value"`
	RecoveryValue float64 `json:"recovery_value" db:"recovery_value"`
}

// Dashboard aggregates the latest analytics run for the operations view.
type Dashboard struct {
	TotalItems      int     `json:"total_items"`
	ActiveItems     int     `json:"active_items"`
	DeadStockItems  int     `json:"dead_stock_items"`
	NewItems        int     `json:"new_items"`
	TotalStockValue float64 `json:"total_stock_value"`
	DeadStockValue  float64 `json:"dead_stock_value"`
	AtRiskItems     int     `json:"at_risk_items"`

	ClassificationBreakdown []ClassificationBreakdown `json:"classification_breakdown"`
	PatternBreakdown        []PatternBreakdown        `json:"demand_pattern_breakdown"`
	HealthBreakdown         []HealthBreakdown         `json:"health_status_breakdown"`
	TopDeadStock            []DeadStockItem           `json:"top_dead_stock"`
}
