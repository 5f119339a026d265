package classify

import (
	"math"

	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
)

// Recommended action labels keyed by classification.
const (
	ActionIncreaseStock = "INCREASE_STOCK"
	ActionReduceStock   = "REDUCE_STOCK"
	ActionMaintainStock = "MAINTAIN_STOCK"
	ActionLiquidation   = "LIQUIDATION"
	ActionMarketMore    = "MARKET_MORE"
)

// buildResult enriches an outcome into the full immutable result record.
func buildResult(cfg Config, it domain.ItemMetrics, out outcome, method domain.ClassificationMethod) domain.ClassificationResult {
	holdingCost := it.StockValue * cfg.HoldingCostRate
	dos := daysOfStock(it)
	action, priority, impact := recommendAction(cfg, it, out.label, dos, holdingCost)

	return domain.ClassificationResult{
		ItemCode:   it.ItemCode,
		ItemName:   it.ItemName,
		UOM:        it.UOM,
		Label:      out.label,
		Confidence: clampConfidence(out.confidence * 100),
		Method:     method,
		Reason:     out.reason,

		AnnualSalesQty:   it.AnnualSalesQty,
		AnnualSalesValue: it.AnnualSalesValue,
		SalesVelocity:    it.SalesVelocity,
		TurnoverRatio:    it.TurnoverRatio,
		CurrentStock:     it.CurrentStock,
		StockValue:       it.StockValue,

		HoldingCostAnnually: holdingCost,
		DaysOfStock:         dos,
		ABCCategory:         abcCategory(cfg, it.AnnualSalesValue),
		DormancyStatus:      dormancyStatus(it.DaysSinceLastSale),
		NewItemStatus:       newItemStatus(it.ItemAgeDays),

		RecommendedAction: action,
		ActionPriority:    priority,
		ExpectedImpact:    impact,
	}
}

func clampConfidence(pct float64) int {
	return int(math.Round(math.Min(100, math.Max(0, pct))))
}

// daysOfStock expresses current stock in days of average consumption.
func daysOfStock(it domain.ItemMetrics) float64 {
	if it.SalesVelocity > 0 {
		return it.CurrentStock / it.SalesVelocity
	}
	return 0
}

func abcCategory(cfg Config, annualValue float64) domain.ABCCategory {
	switch {
	case annualValue > cfg.ABCClassAValue:
		return domain.ABCCategoryA
	case annualValue > cfg.ABCClassBValue:
		return domain.ABCCategoryB
	default:
		return domain.ABCCategoryC
	}
}

func dormancyStatus(daysSinceLastSale float64) domain.DormancyStatus {
	switch {
	case daysSinceLastSale < 90:
		return domain.DormancyActive
	case daysSinceLastSale < 180:
		return domain.DormancySleepy
	case daysSinceLastSale < 365:
		return domain.DormancyDormant
	default:
		return domain.DormancyDead
	}
}

func newItemStatus(ageDays float64) domain.LifeStage {
	switch {
	case ageDays < 30:
		return domain.StageLaunch
	case ageDays < 90:
		return domain.StageLearning
	case ageDays < 180:
		return domain.StageGraduation
	default:
		return domain.StageEstablished
	}
}

// recommendAction maps the final classification to an operational action,
// its priority and the expected monetary impact.
func recommendAction(cfg Config, it domain.ItemMetrics, label domain.Classification, dos, holdingCost float64) (string, int, float64) {
	switch label {
	case domain.ClassFast:
		return ActionIncreaseStock, 8, it.AnnualSalesValue * 0.10
	case domain.ClassSlow:
		if dos > 180 {
			return ActionReduceStock, 5, -holdingCost * 0.5
		}
		return ActionMaintainStock, 2, 0
	case domain.ClassDeadStock:
		return ActionLiquidation, 10, it.StockValue * 0.3
	case domain.ClassNewItem:
		return ActionMarketMore, 7, it.AnnualSalesValue * 0.20
	default:
		return ActionMaintainStock, 1, 0
	}
}
