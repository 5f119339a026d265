package domain

import "strings"

// Classification is the operational category assigned to an inventory item.
type Classification string

const (
	ClassFast      Classification = "FAST"
	ClassSlow      Classification = "SLOW"
	ClassMedium    Classification = "MEDIUM"
	ClassNewItem   Classification = "NEW_ITEM"
	ClassDeadStock Classification = "DEAD_STOCK"
)

// Classifications lists every classification label in vote tie-break order:
// when ensemble votes tie, the earlier label wins.
var Classifications = []Classification{
	ClassFast,
	ClassDeadStock,
	ClassNewItem,
	ClassSlow,
	ClassMedium,
}

func (c Classification) Valid() bool {
	switch c {
	case ClassFast, ClassSlow, ClassMedium, ClassNewItem, ClassDeadStock:
		return true
	}
	return false
}

// ClassificationMethod identifies the strategy that produced a classification.
type ClassificationMethod string

const (
	MethodRuleBased ClassificationMethod = "RULE_BASED"
	MethodDBSCAN    ClassificationMethod = "DBSCAN_CLUSTERING"
	MethodKMeans    ClassificationMethod = "KMEANS_CLUSTERING"
	MethodHybrid    ClassificationMethod = "HYBRID"
)

var methodAliases = map[string]ClassificationMethod{
	"rule_based": MethodRuleBased,
	"dbscan":     MethodDBSCAN,
	"kmeans":     MethodKMeans,
	"hybrid":     MethodHybrid,
}

// ParseClassificationMethod resolves a method name (case-insensitive, short or
// full form) to its ClassificationMethod.
func ParseClassificationMethod(name string) (ClassificationMethod, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if m, ok := methodAliases[key]; ok {
		return m, true
	}
	switch ClassificationMethod(strings.ToUpper(key)) {
	case MethodRuleBased, MethodDBSCAN, MethodKMeans, MethodHybrid:
		return ClassificationMethod(strings.ToUpper(key)), true
	}
	return "", false
}

// DormancyStatus tracks how long an item has gone without a sale.
type DormancyStatus string

const (
	DormancyActive  DormancyStatus = "ACTIVE"
	DormancySleepy  DormancyStatus = "SLEEPY"
	DormancyDormant DormancyStatus = "DORMANT"
	DormancyDead    DormancyStatus = "DEAD"
)

// ABCCategory ranks items by annual revenue contribution.
type ABCCategory string

const (
	ABCCategoryA ABCCategory = "A"
	ABCCategoryB ABCCategory = "B"
	ABCCategoryC ABCCategory = "C"
)

// DemandPattern is the SBC (Syntetos-Boylan-Croston) demand category.
type DemandPattern string

const (
	PatternSmooth       DemandPattern = "SMOOTH"
	PatternErratic      DemandPattern = "ERRATIC"
	PatternIntermittent DemandPattern = "INTERMITTENT"
	PatternLumpy        DemandPattern = "LUMPY"
)

func (p DemandPattern) Valid() bool {
	switch p {
	case PatternSmooth, PatternErratic, PatternIntermittent, PatternLumpy:
		return true
	}
	return false
}

// ForecastMethod names the forecasting technique selected for a pattern.
type ForecastMethod string

const (
	ForecastMovingAverage  ForecastMethod = "MOVING_AVERAGE"
	ForecastWeightedAvg    ForecastMethod = "WEIGHTED_AVERAGE"
	ForecastCrostons       ForecastMethod = "CROSTONS"
	ForecastExpSmoothing   ForecastMethod = "EXPONENTIAL_SMOOTHING"
)

// HealthStatus bands a composite health score.
type HealthStatus string

const (
	HealthCritical HealthStatus = "CRITICAL"
	HealthAtRisk   HealthStatus = "AT_RISK"
	HealthCaution  HealthStatus = "CAUTION"
	HealthHealthy  HealthStatus = "HEALTHY"
)

// LifeStage is the age-based phase of a new item's lifecycle.
type LifeStage string

const (
	StageLaunch      LifeStage = "LAUNCH"
	StageLearning    LifeStage = "LEARNING"
	StageGraduation  LifeStage = "GRADUATION"
	StageEstablished LifeStage = "ESTABLISHED"
)
