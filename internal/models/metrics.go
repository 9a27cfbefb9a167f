package models

import "time"

// MonthsUnbounded marks a business that is not burning its investments.
const MonthsUnbounded = 999.0

// MetricsRecord holds every metric derived from one profile.
// Percentages are plain numbers: 15.0 means 15%.
type MetricsRecord struct {
	Profit               float64 `json:"profit"`
	AverageCheck         float64 `json:"averageCheck"`
	NewClients           float64 `json:"newClients"`
	ProfitMargin         float64 `json:"profitMargin"`
	BreakEvenClients     float64 `json:"breakEvenClients"`
	SafetyMargin         float64 `json:"safetyMargin"`
	ROI                  float64 `json:"roi"`
	ProfitabilityIndex   float64 `json:"profitabilityIndex"`
	ROE                  float64 `json:"roe"`
	MonthsToBankruptcy   float64 `json:"monthsToBankruptcy"`
	LTV                  float64 `json:"ltv"`
	CAC                  float64 `json:"cac"`
	LTVCACRatio          float64 `json:"ltvCacRatio"`
	CustomerProfitMargin float64 `json:"customerProfitMargin"`
	AssetTurnover        float64 `json:"assetTurnover"`
	SGR                  float64 `json:"sgr"`
	RevenueGrowthRate    float64 `json:"revenueGrowthRate"`
}

// Tier is the qualitative reading of an overall health score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierStable    Tier = "stable"
	TierCritical  Tier = "critical"
)

// HealthScores are the three 0-100 sub-scores and their rounded mean.
type HealthScores struct {
	Financial  int  `json:"financialHealthScore"`
	Growth     int  `json:"growthHealthScore"`
	Efficiency int  `json:"efficiencyHealthScore"`
	Overall    int  `json:"overallHealthScore"`
	Tier       Tier `json:"tier"`
}

// BenchmarkStatus is the outcome of one benchmark comparison.
type BenchmarkStatus string

const (
	BenchmarkAbove        BenchmarkStatus = "above"
	BenchmarkBelow        BenchmarkStatus = "below"
	BenchmarkNotAvailable BenchmarkStatus = "no_benchmark"
)

// BenchmarkComparison compares one metric against its peer target.
type BenchmarkComparison struct {
	Metric             string          `json:"metric"`
	Actual             float64         `json:"actual"`
	Benchmark          float64         `json:"benchmark"`
	PercentageOfTarget float64         `json:"percentageOfTarget"`
	Status             BenchmarkStatus `json:"status"`
}

// MetricsSnapshot is one computed analysis of a profile. It is never mutated after creation.
type MetricsSnapshot struct {
	ID         string          `json:"id" db:"id"`
	BusinessID string          `json:"businessId" db:"business_id"`
	Profile    BusinessProfile `json:"profile" db:"raw_fields"`
	Metrics    MetricsRecord   `json:"metrics" db:"metrics"`
	Health     HealthScores    `json:"health" db:"health"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Recommendation is a structured advice item. Rendering is left to the presenter.
type Recommendation struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// TrendDirection summarises how a business moved between two snapshots.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Trend compares the latest snapshot with the one before it.
type Trend struct {
	RevenueChange float64        `json:"revenueChange"`
	HealthChange  int            `json:"healthChange"`
	Direction     TrendDirection `json:"direction"`
}

// PeriodSummary aggregates snapshots taken since a point in time.
type PeriodSummary struct {
	BusinessID    string    `json:"businessId"`
	Since         time.Time `json:"since"`
	AvgRevenue    float64   `json:"avgRevenue"`
	AvgProfit     float64   `json:"avgProfit"`
	AvgHealth     float64   `json:"avgHealth"`
	SnapshotCount int       `json:"snapshotCount"`
}

// Business is a tracked business owned by one user.
type Business struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
