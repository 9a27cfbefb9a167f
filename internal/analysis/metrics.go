// Package analysis computes metrics, health scores and benchmark comparisons for a business profile.
// Compute, Score and Compare are pure and safe for concurrent use.
package analysis

import "business-health-workers/internal/models"

const (
	// newClientShare estimates monthly new clients when the profile does not state them.
	newClientShare = 0.3
	// retentionRatio is the share of profit assumed to be reinvested for sustainable growth.
	retentionRatio = 0.5
	// equityRevenueShare approximates equity as investments plus half of revenue.
	equityRevenueShare = 0.5
)

// Compute derives every metric from profile. previous, when non-nil, feeds the revenue growth rate.
// Invalid denominators resolve to 0, or to MonthsUnbounded for months to bankruptcy.
func Compute(profile models.BusinessProfile, previous *models.BusinessProfile) models.MetricsRecord {
	revenue := profile.Float(models.FieldRevenue)
	expenses := profile.Float(models.FieldExpenses)
	clients := profile.Float(models.FieldClients)
	investments := profile.Float(models.FieldInvestments)
	marketing := profile.Float(models.FieldMarketingCosts)

	var m models.MetricsRecord

	if v, ok := profile.Number(models.FieldProfit); ok {
		m.Profit = v
	} else {
		m.Profit = revenue - expenses
	}

	if v, ok := profile.Number(models.FieldAverageCheck); ok && v > 0 {
		m.AverageCheck = v
	} else {
		m.AverageCheck = safeDiv(revenue, clients)
	}

	if v, ok := profile.Number(models.FieldNewClientsPerMonth); ok {
		m.NewClients = v
	} else {
		m.NewClients = clients * newClientShare
	}

	if revenue > 0 {
		m.ProfitMargin = m.Profit / revenue * 100
	}

	m.BreakEvenClients = safeDiv(expenses, m.AverageCheck)
	if revenue > 0 && m.BreakEvenClients > 0 {
		m.SafetyMargin = (revenue - m.BreakEvenClients*m.AverageCheck) / revenue * 100
	}

	if investments > 0 {
		m.ROI = (m.Profit - investments) / investments * 100
		m.ProfitabilityIndex = m.Profit * 12 / investments
		if m.Profit > 0 {
			m.SGR = m.Profit / investments * 100 * retentionRatio
		}
	}

	equity := investments + revenue*equityRevenueShare
	if equity > 0 {
		m.ROE = m.Profit / equity * 100
		m.AssetTurnover = revenue / equity
	}

	m.MonthsToBankruptcy = models.MonthsUnbounded
	if expenses > revenue && investments > 0 {
		m.MonthsToBankruptcy = investments / (expenses - revenue)
	}

	m.LTV = safeDiv(revenue, clients)
	m.CAC = safeDiv(marketing, m.NewClients)
	m.LTVCACRatio = safeDiv(m.LTV, m.CAC)
	m.CustomerProfitMargin = safeDiv(m.Profit, clients)

	if previous != nil {
		if prevRevenue := previous.Float(models.FieldRevenue); prevRevenue > 0 {
			m.RevenueGrowthRate = (revenue - prevRevenue) / prevRevenue * 100
		}
	}

	return m
}

// safeDiv returns a/b, or 0 unless b is strictly positive.
func safeDiv(a, b float64) float64 {
	if b > 0 {
		return a / b
	}
	return 0
}
