package analysis

import (
	"math"

	"business-health-workers/internal/models"
)

// Breakdown exposes the points each rubric term contributed.
type Breakdown struct {
	MarginPoints        float64 `json:"marginPoints"`
	SafetyPoints        float64 `json:"safetyPoints"`
	RunwayPoints        float64 `json:"runwayPoints"`
	ROIPoints           float64 `json:"roiPoints"`
	GrowthRatePoints    float64 `json:"growthRatePoints"`
	SGRPoints           float64 `json:"sgrPoints"`
	LTVCACPoints        float64 `json:"ltvCacPoints"`
	AssetTurnoverPoints float64 `json:"assetTurnoverPoints"`
	ProfitIndexPoints   float64 `json:"profitIndexPoints"`
}

// Score rates m against the targets in b.
func Score(m models.MetricsRecord, b Benchmark) models.HealthScores {
	scores, _ := ScoreWithBreakdown(m, b)
	return scores
}

// ScoreWithBreakdown is Score plus the per-term points.
func ScoreWithBreakdown(m models.MetricsRecord, b Benchmark) (models.HealthScores, Breakdown) {
	var bd Breakdown

	bd.MarginPoints = scaled(m.ProfitMargin, b.ProfitMargin, 40)
	bd.SafetyPoints = safetyPoints(m.SafetyMargin)
	bd.RunwayPoints = runwayPoints(m.MonthsToBankruptcy)
	financial := component(bd.MarginPoints + bd.SafetyPoints + bd.RunwayPoints)

	bd.ROIPoints = scaled(m.ROI, b.ROI, 40)
	bd.GrowthRatePoints = growthRatePoints(m.RevenueGrowthRate)
	bd.SGRPoints = sgrPoints(m.SGR)
	growth := component(bd.ROIPoints + bd.GrowthRatePoints + bd.SGRPoints)

	bd.LTVCACPoints = ltvCACPoints(m.LTVCACRatio, b.LTVCACRatio)
	bd.AssetTurnoverPoints = assetTurnoverPoints(m.AssetTurnover)
	bd.ProfitIndexPoints = profitIndexPoints(m.ProfitabilityIndex)
	efficiency := component(bd.LTVCACPoints + bd.AssetTurnoverPoints + bd.ProfitIndexPoints)

	overall := int(math.Round(float64(financial+growth+efficiency) / 3))

	return models.HealthScores{
		Financial:  financial,
		Growth:     growth,
		Efficiency: efficiency,
		Overall:    overall,
		Tier:       Assess(overall),
	}, bd
}

// Assess maps an overall score to its tier.
func Assess(overall int) models.Tier {
	switch {
	case overall >= 90:
		return models.TierExcellent
	case overall >= 70:
		return models.TierGood
	case overall >= 50:
		return models.TierStable
	default:
		return models.TierCritical
	}
}

// scaled awards budget points in proportion to value/target, floored at 0 and capped at budget.
func scaled(value, target, budget float64) float64 {
	if target <= 0 || math.IsNaN(value) {
		return 0
	}
	return clamp(value/target*budget, 0, budget)
}

func safetyPoints(safety float64) float64 {
	switch {
	case safety > 30:
		return 30
	case safety > 20:
		return 20
	case safety > 10:
		return 10
	case safety > 0:
		return 5
	default:
		return 0
	}
}

// runwayPoints treats MonthsUnbounded like any runway over a year.
func runwayPoints(months float64) float64 {
	switch {
	case months > 12:
		return 30
	case months > 6:
		return 20
	case months > 3:
		return 10
	case months > 0:
		return 5
	default:
		return 0
	}
}

func growthRatePoints(rate float64) float64 {
	switch {
	case rate > 20:
		return 30
	case rate > 10:
		return 20
	case rate > 5:
		return 15
	case rate > 0:
		return 10
	default:
		return 0
	}
}

func sgrPoints(sgr float64) float64 {
	switch {
	case sgr > 15:
		return 30
	case sgr > 10:
		return 20
	case sgr > 5:
		return 10
	default:
		return 0
	}
}

func ltvCACPoints(ratio, target float64) float64 {
	switch {
	case target > 0 && ratio > target*1.5:
		return 50
	case target > 0 && ratio > target:
		return 40
	case target > 0 && ratio > target*0.7:
		return 30
	case target > 0 && ratio > target*0.5:
		return 20
	case ratio > 1.0:
		return 10
	default:
		return 0
	}
}

func assetTurnoverPoints(turnover float64) float64 {
	switch {
	case turnover > 2.0:
		return 30
	case turnover > 1.5:
		return 20
	case turnover > 1.0:
		return 15
	case turnover > 0.5:
		return 10
	default:
		return 0
	}
}

func profitIndexPoints(index float64) float64 {
	switch {
	case index > 2.0:
		return 20
	case index > 1.5:
		return 15
	case index > 1.0:
		return 10
	case index > 0.5:
		return 5
	default:
		return 0
	}
}

// component truncates a point sum to an int in [0, 100].
func component(points float64) int {
	return int(clamp(points, 0, 100))
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
