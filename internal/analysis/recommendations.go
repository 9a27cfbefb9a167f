package analysis

import "business-health-workers/internal/models"

const maxRecommendations = 5

// Recommendation codes.
const (
	RecRaiseMargin       = "RAISE_MARGIN"
	RecImproveLTVCAC     = "IMPROVE_LTV_CAC"
	RecBuildCushion      = "BUILD_CASH_CUSHION"
	RecCashFlowUrgent    = "CASH_FLOW_URGENT"
	RecRestructure       = "RESTRUCTURE"
	RecReviewInvestments = "REVIEW_INVESTMENT_PAYBACK"
)

// Recommend returns at most five advice items for the computed snapshot.
func Recommend(m models.MetricsRecord, h models.HealthScores, profile models.BusinessProfile) []models.Recommendation {
	recs := make([]models.Recommendation, 0, maxRecommendations)
	add := func(code, text string) {
		if len(recs) < maxRecommendations {
			recs = append(recs, models.Recommendation{Code: code, Text: text})
		}
	}

	if m.ProfitMargin < 10 {
		add(RecRaiseMargin, "Profit margin is below 10%: review pricing or cut variable costs.")
	}
	if m.LTVCACRatio > 0 && m.LTVCACRatio < 2 {
		add(RecImproveLTVCAC, "Customer lifetime value barely covers acquisition cost: improve retention or lower acquisition spend.")
	}
	if m.SafetyMargin < 20 {
		add(RecBuildCushion, "Safety margin is under 20%: build a financial cushion.")
	}
	if m.MonthsToBankruptcy < 6 {
		add(RecCashFlowUrgent, "Investments cover less than six months of losses: act on cash flow now.")
	}
	if h.Tier == models.TierCritical {
		add(RecRestructure, "Overall health is critical: consider restructuring the business model.")
	}
	if m.ROI < 0 && profile.Meaningful(models.FieldInvestments) {
		add(RecReviewInvestments, "Investments are not paying back yet: review their payback schedule.")
	}

	return recs
}
