package analysis

import (
	"time"

	"business-health-workers/internal/models"
)

// trendThreshold is the revenue change, in percent, beyond which a trend is not stable.
const trendThreshold = 5.0

// CompareSnapshots measures how current moved relative to previous.
func CompareSnapshots(previous, current models.MetricsSnapshot) models.Trend {
	var t models.Trend

	prevRevenue := previous.Profile.Float(models.FieldRevenue)
	if prevRevenue > 0 {
		t.RevenueChange = (current.Profile.Float(models.FieldRevenue) - prevRevenue) / prevRevenue * 100
	}
	t.HealthChange = current.Health.Overall - previous.Health.Overall

	switch {
	case t.RevenueChange > trendThreshold:
		t.Direction = models.TrendUp
	case t.RevenueChange < -trendThreshold:
		t.Direction = models.TrendDown
	default:
		t.Direction = models.TrendStable
	}
	return t
}

// Summarize averages the snapshots taken at or after since.
func Summarize(businessID string, snapshots []models.MetricsSnapshot, since time.Time) models.PeriodSummary {
	summary := models.PeriodSummary{BusinessID: businessID, Since: since}

	var revenue, profit, health float64
	for _, s := range snapshots {
		if s.CreatedAt.Before(since) {
			continue
		}
		revenue += s.Profile.Float(models.FieldRevenue)
		profit += s.Metrics.Profit
		health += float64(s.Health.Overall)
		summary.SnapshotCount++
	}

	if summary.SnapshotCount > 0 {
		n := float64(summary.SnapshotCount)
		summary.AvgRevenue = revenue / n
		summary.AvgProfit = profit / n
		summary.AvgHealth = health / n
	}
	return summary
}
