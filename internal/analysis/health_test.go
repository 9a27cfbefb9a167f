package analysis

import (
	"math/rand"
	"testing"

	"business-health-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScore_ReferenceProfile(t *testing.T) {
	m := Compute(referenceProfile(), nil)

	scores, bd := ScoreWithBreakdown(m, Lookup("general"))

	assert.Equal(t, 40.0, bd.MarginPoints)
	assert.Equal(t, 30.0, bd.SafetyPoints)
	assert.Equal(t, 30.0, bd.RunwayPoints)
	assert.Equal(t, 100, scores.Financial)

	assert.Equal(t, 0.0, bd.ROIPoints)
	assert.Equal(t, 0.0, bd.GrowthRatePoints)
	assert.Equal(t, 10.0, bd.SGRPoints)
	assert.Equal(t, 10, scores.Growth)

	assert.Equal(t, 50.0, bd.LTVCACPoints)
	assert.Equal(t, 0.0, bd.AssetTurnoverPoints)
	assert.Equal(t, 20.0, bd.ProfitIndexPoints)
	assert.Equal(t, 70, scores.Efficiency)

	assert.Equal(t, 60, scores.Overall)
	assert.Equal(t, models.TierStable, scores.Tier)
}

func TestScore_GrowthFromPreviousSnapshot(t *testing.T) {
	prev := profileOf(map[models.Field]float64{models.FieldRevenue: 400000})

	scores := Score(Compute(referenceProfile(), &prev), Lookup("general"))

	assert.Equal(t, 40, scores.Growth)
	assert.Equal(t, 70, scores.Overall)
	assert.Equal(t, models.TierGood, scores.Tier)
}

func TestScore_EmptyProfile(t *testing.T) {
	scores := Score(Compute(models.BusinessProfile{}, nil), Lookup("general"))

	// only the unbounded runway scores
	assert.Equal(t, 30, scores.Financial)
	assert.Equal(t, 0, scores.Growth)
	assert.Equal(t, 0, scores.Efficiency)
	assert.Equal(t, 10, scores.Overall)
	assert.Equal(t, models.TierCritical, scores.Tier)
}

func TestScore_ScaledTermsFlooredAndCapped(t *testing.T) {
	b := Lookup("general")

	assert.Equal(t, 0.0, scaled(-80, b.ROI, 40))
	assert.Equal(t, 40.0, scaled(500, b.ROI, 40))
	assert.InDelta(t, 20.0, scaled(7.5, b.ProfitMargin, 40), 1e-9)
	assert.Equal(t, 0.0, scaled(10, 0, 40))
}

func TestScore_LTVCACBands(t *testing.T) {
	tests := []struct {
		ratio    float64
		target   float64
		expected float64
	}{
		{ratio: 4.6, target: 3, expected: 50},
		{ratio: 4.5, target: 3, expected: 40},
		{ratio: 3.1, target: 3, expected: 40},
		{ratio: 3.0, target: 3, expected: 30},
		{ratio: 2.2, target: 3, expected: 30},
		{ratio: 1.6, target: 3, expected: 20},
		{ratio: 1.4, target: 3, expected: 10},
		{ratio: 1.0, target: 3, expected: 0},
		{ratio: 1.2, target: 0, expected: 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ltvCACPoints(tt.ratio, tt.target), "ratio %.1f target %.1f", tt.ratio, tt.target)
	}
}

func TestScore_BandBoundaries(t *testing.T) {
	assert.Equal(t, 20.0, safetyPoints(30))
	assert.Equal(t, 5.0, safetyPoints(0.1))
	assert.Equal(t, 0.0, safetyPoints(0))

	assert.Equal(t, 30.0, runwayPoints(models.MonthsUnbounded))
	assert.Equal(t, 20.0, runwayPoints(12))
	assert.Equal(t, 5.0, runwayPoints(1))
	assert.Equal(t, 0.0, runwayPoints(0))

	assert.Equal(t, 15.0, growthRatePoints(10))
	assert.Equal(t, 10.0, growthRatePoints(0.5))
	assert.Equal(t, 0.0, growthRatePoints(-3))

	assert.Equal(t, 20.0, sgrPoints(15))
	assert.Equal(t, 0.0, sgrPoints(5))

	assert.Equal(t, 30.0, assetTurnoverPoints(2.01))
	assert.Equal(t, 10.0, assetTurnoverPoints(1.0))

	assert.Equal(t, 20.0, profitIndexPoints(2.4))
	assert.Equal(t, 5.0, profitIndexPoints(1.0))
}

func TestAssess_Thresholds(t *testing.T) {
	tests := []struct {
		overall  int
		expected models.Tier
	}{
		{100, models.TierExcellent},
		{90, models.TierExcellent},
		{89, models.TierGood},
		{70, models.TierGood},
		{69, models.TierStable},
		{50, models.TierStable},
		{49, models.TierCritical},
		{0, models.TierCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Assess(tt.overall), "overall %d", tt.overall)
	}
}

func TestScore_OverallAlwaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	value := func() float64 {
		switch r.Intn(4) {
		case 0:
			return 0
		case 1:
			return r.Float64() * 100
		default:
			return r.Float64() * 5e6
		}
	}

	for i := 0; i < 1000; i++ {
		p := profileOf(map[models.Field]float64{
			models.FieldRevenue:        value(),
			models.FieldExpenses:       value(),
			models.FieldClients:        float64(int(value()) % 1000),
			models.FieldInvestments:    value(),
			models.FieldMarketingCosts: value(),
		})
		prev := profileOf(map[models.Field]float64{models.FieldRevenue: value()})

		for _, b := range Benchmarks() {
			s := Score(Compute(p, &prev), b)
			for _, v := range []int{s.Financial, s.Growth, s.Efficiency, s.Overall} {
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, 100)
			}
		}
	}
}
