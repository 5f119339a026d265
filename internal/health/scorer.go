package health

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// Scorer computes composite health scores for newly launched items.
type Scorer struct {
	cfg Config
}

// New builds a Scorer. The config weights must sum to 1.0.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// Score calculates the weighted composite health score for one item.
func (s *Scorer) Score(item domain.NewItemMetrics) domain.HealthScoreResult {
	log.Debug().Str("item_code", item.ItemCode).Msg("calculating health score")

	sales := s.scoreSalesPerformance(item)
	customers := s.scoreCustomerAcquisition(item)
	stock := s.scoreStockAdequacy(item)
	growth := s.scoreGrowthTrend(item)

	composite := float64(sales.Score)*s.cfg.WeightSalesPerformance +
		float64(customers.Score)*s.cfg.WeightCustomerAcquisition +
		float64(stock.Score)*s.cfg.WeightStockAdequacy +
		float64(growth.Score)*s.cfg.WeightGrowthTrend

	score := int(math.Round(composite))
	status := s.healthStatus(score)
	stage := s.lifeStage(item.ItemAgeDays)

	action, priority, metrics, warnings := s.recommend(status, stage)

	return domain.HealthScoreResult{
		ItemCode:    item.ItemCode,
		ItemName:    item.ItemName,
		Score:       score,
		Status:      status,
		LifeStage:   stage,
		ItemAgeDays: item.ItemAgeDays,

		SalesPerformance:    sales,
		CustomerAcquisition: customers,
		StockAdequacy:       stock,
		GrowthTrend:         growth,

		TotalCustomers:     item.UniqueCustomers,
		RepeatCustomersPct: repeatCustomersPct(item),
		SalesVsTargetPct:   salesVsTargetPct(item),
		DaysOfStock:        daysOfStock(item),
		GrowthTrendPct:     growthTrend(item),

		RecommendedAction: action,
		ActionPriority:    priority,
		KeyMetrics:        metrics,
		WarningFlags:      warnings,
	}
}

// scoreSalesPerformance rates actual sales against target.
func (s *Scorer) scoreSalesPerformance(item domain.NewItemMetrics) domain.ComponentScore {
	// Zero or negative targets floor to 1 so every item scores.
	ratio := item.ActualSalesQty / math.Max(item.TargetSalesQty, 1)

	switch {
	case ratio >= s.cfg.SalesExcellent:
		return domain.ComponentScore{Score: 100,
			Reason: fmt.Sprintf("Excellent: %.0f%% of target (>%.0f%%)", ratio*100, s.cfg.SalesExcellent*100)}
	case ratio >= s.cfg.SalesGood:
		return domain.ComponentScore{Score: 85,
			Reason: fmt.Sprintf("Good: %.0f%% of target (%.0f%%-%.0f%%)", ratio*100, s.cfg.SalesGood*100, s.cfg.SalesExcellent*100)}
	case ratio >= s.cfg.SalesFair:
		return domain.ComponentScore{Score: 60,
			Reason: fmt.Sprintf("Fair: %.0f%% of target (%.0f%%-%.0f%%)", ratio*100, s.cfg.SalesFair*100, s.cfg.SalesGood*100)}
	case ratio >= s.cfg.SalesPoor:
		return domain.ComponentScore{Score: 35,
			Reason: fmt.Sprintf("Poor: %.0f%% of target (%.0f%%-%.0f%%)", ratio*100, s.cfg.SalesPoor*100, s.cfg.SalesFair*100)}
	case ratio >= s.cfg.SalesCritical:
		return domain.ComponentScore{Score: 15,
			Reason: fmt.Sprintf("Critical: %.0f%% of target (%.0f%%-%.0f%%)", ratio*100, s.cfg.SalesCritical*100, s.cfg.SalesPoor*100)}
	default:
		return domain.ComponentScore{Score: 0,
			Reason: fmt.Sprintf("Failing: %.0f%% of target (<%.0f%%)", ratio*100, s.cfg.SalesCritical*100)}
	}
}

// scoreCustomerAcquisition rates the unique customer base with a retention bonus.
func (s *Scorer) scoreCustomerAcquisition(item domain.NewItemMetrics) domain.ComponentScore {
	unique := item.UniqueCustomers

	var score int
	var reason string
	switch {
	case unique >= s.cfg.CustomersExcellent:
		score = 100
		reason = fmt.Sprintf("Excellent: %d unique customers (>%d)", unique, s.cfg.CustomersExcellent)
	case unique >= s.cfg.CustomersGood:
		score = 85
		reason = fmt.Sprintf("Good: %d unique customers", unique)
	case unique >= s.cfg.CustomersFair:
		score = 60
		reason = fmt.Sprintf("Fair: %d unique customers", unique)
	case unique >= s.cfg.CustomersPoor:
		score = 35
		reason = fmt.Sprintf("Poor: %d unique customers", unique)
	default:
		score = 15
		reason = fmt.Sprintf("Critical: %d unique customers (<%d)", unique, s.cfg.CustomersPoor)
	}

	if unique > 0 {
		retention := float64(item.RepeatCustomers) / float64(unique)
		if retention > s.cfg.RetentionBonusRatio {
			score = min(100, score+s.cfg.RetentionBonus)
			reason += fmt.Sprintf(" | %.0f%% repeat customers (retention bonus)", retention*100)
		}
	}

	return domain.ComponentScore{Score: score, Reason: reason}
}

// scoreStockAdequacy rates days of stock against the optimal holding window.
func (s *Scorer) scoreStockAdequacy(item domain.NewItemMetrics) domain.ComponentScore {
	dos := daysOfStock(item)

	switch {
	case dos >= s.cfg.DOSOptimalMin && dos <= s.cfg.DOSOptimalMax:
		return domain.ComponentScore{Score: 100,
			Reason: fmt.Sprintf("Optimal: %.0f days of stock (%.0f-%.0f day range)", dos, s.cfg.DOSOptimalMin, s.cfg.DOSOptimalMax)}
	case dos < s.cfg.DOSOptimalMin:
		stockoutRisk := (s.cfg.DOSOptimalMin - dos) / s.cfg.DOSOptimalMin * 100
		score := int(math.Round(math.Max(30, 100-stockoutRisk*2)))
		return domain.ComponentScore{Score: score,
			Reason: fmt.Sprintf("Low Stock: %.0f days (<%.0f days) - stockout risk", dos, s.cfg.DOSOptimalMin)}
	case dos <= s.cfg.DOSWarningMax:
		return domain.ComponentScore{Score: 75,
			Reason: fmt.Sprintf("Caution: %.0f days of stock (%.0f-%.0f day range)", dos, s.cfg.DOSOptimalMax, s.cfg.DOSWarningMax)}
	case dos <= s.cfg.DOSCriticalMax:
		return domain.ComponentScore{Score: 45,
			Reason: fmt.Sprintf("High Stock: %.0f days (%.0f-%.0f days) - high holding cost", dos, s.cfg.DOSWarningMax, s.cfg.DOSCriticalMax)}
	default:
		return domain.ComponentScore{Score: 15,
			Reason: fmt.Sprintf("Excessive: %.0f days (>%.0f days) - excess inventory risk", dos, s.cfg.DOSCriticalMax)}
	}
}

// scoreGrowthTrend rates week-over-week sales growth.
func (s *Scorer) scoreGrowthTrend(item domain.NewItemMetrics) domain.ComponentScore {
	growth := growthTrend(item)

	switch {
	case growth >= s.cfg.GrowthExcellent:
		return domain.ComponentScore{Score: 100,
			Reason: fmt.Sprintf("Excellent: +%.1f%% WoW growth (>%.0f%%)", growth*100, s.cfg.GrowthExcellent*100)}
	case growth >= s.cfg.GrowthGood:
		return domain.ComponentScore{Score: 85,
			Reason: fmt.Sprintf("Good: +%.1f%% WoW growth", growth*100)}
	case growth >= s.cfg.GrowthFair:
		return domain.ComponentScore{Score: 70,
			Reason: fmt.Sprintf("Stable: %.1f%% WoW growth (0-%.0f%%)", growth*100, s.cfg.GrowthGood*100)}
	case growth >= s.cfg.GrowthPoor:
		return domain.ComponentScore{Score: 45,
			Reason: fmt.Sprintf("Declining: %.1f%% WoW growth (%.0f%%-0%%)", growth*100, s.cfg.GrowthPoor*100)}
	case growth >= s.cfg.GrowthCritical:
		return domain.ComponentScore{Score: 20,
			Reason: fmt.Sprintf("Steep Decline: %.1f%% WoW growth", growth*100)}
	default:
		return domain.ComponentScore{Score: 5,
			Reason: fmt.Sprintf("Collapsing: %.1f%% WoW growth (<%.0f%%)", growth*100, s.cfg.GrowthCritical*100)}
	}
}

func (s *Scorer) healthStatus(score int) domain.HealthStatus {
	switch {
	case score <= s.cfg.HealthCriticalMax:
		return domain.HealthCritical
	case score <= s.cfg.HealthAtRiskMax:
		return domain.HealthAtRisk
	case score < s.cfg.HealthHealthyMin:
		return domain.HealthCaution
	default:
		return domain.HealthHealthy
	}
}

func (s *Scorer) lifeStage(ageDays float64) domain.LifeStage {
	switch {
	case ageDays <= s.cfg.LaunchMaxDays:
		return domain.StageLaunch
	case ageDays <= s.cfg.LearningMaxDays:
		return domain.StageLearning
	case ageDays <= s.cfg.GraduationMaxDays:
		return domain.StageGraduation
	default:
		return domain.StageEstablished
	}
}

// recommend derives the action plan from status and life stage. Status sets
// the baseline, then the life stage overrides the action and can only raise
// the priority, never lower it. ESTABLISHED items keep the status baseline.
func (s *Scorer) recommend(status domain.HealthStatus, stage domain.LifeStage) (action string, priority int, metrics, warnings []string) {
	switch status {
	case domain.HealthCritical:
		action = "URGENT_INTERVENTION_REQUIRED"
		priority = 10
		warnings = append(warnings,
			"Health score < 30 - item may fail",
			"Review launch strategy and market positioning",
			"Consider product adjustments or discontinuation")
	case domain.HealthAtRisk:
		action = "CLOSE_MONITORING_REQUIRED"
		priority = 8
		warnings = append(warnings,
			"Health score 30-60 - monitor closely",
			"Increase marketing efforts",
			"Gather customer feedback for improvements")
	case domain.HealthCaution:
		action = "OPTIMIZE_INVENTORY"
		priority = 5
		warnings = append(warnings, "Health score 60-80 - needs optimization")
	default:
		action = "MAINTAIN_CURRENT_STRATEGY"
		priority = 2
	}

	switch stage {
	case domain.StageLaunch:
		action = "AGGRESSIVE_MARKETING"
		priority = max(priority, 7)
		metrics = append(metrics,
			"Focus on customer acquisition",
			"Expected: 20-30% weekly growth")
	case domain.StageLearning:
		action = "MARKET_EXPANSION"
		priority = max(priority, 6)
		metrics = append(metrics,
			"Scale marketing campaigns",
			"Target new customer segments")
	case domain.StageGraduation:
		action = "OPTIMIZE_SUPPLY_CHAIN"
		priority = max(priority, 4)
		metrics = append(metrics,
			"Optimize ordering and inventory",
			"Stabilize supply from suppliers")
	case domain.StageEstablished:
		metrics = append(metrics,
			"Monitor for market changes",
			"Maintain competitive pricing")
	}

	return action, priority, metrics, warnings
}

// Denominators floor to 1 so items with no history still score; stock
// against no sales reads as overstock, not as missing data.
func daysOfStock(item domain.NewItemMetrics) float64 {
	return item.CurrentStock / math.Max(item.AvgMonthlySales, 1) * 30
}

func growthTrend(item domain.NewItemMetrics) float64 {
	return (item.SalesLastWeek - item.SalesPriorWeek) / math.Max(item.SalesPriorWeek, 1)
}

func repeatCustomersPct(item domain.NewItemMetrics) float64 {
	unique := item.UniqueCustomers
	if unique < 1 {
		unique = 1
	}
	return float64(item.RepeatCustomers) / float64(unique) * 100
}

func salesVsTargetPct(item domain.NewItemMetrics) float64 {
	target := item.TargetSalesQty
	if target < 1 {
		target = 1
	}
	return item.ActualSalesQty / target * 100
}
