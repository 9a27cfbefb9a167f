package conversation

import (
	"testing"

	"business-health-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func partialOf(values map[models.Field]float64) models.BusinessProfile {
	var p models.BusinessProfile
	for f, v := range values {
		p.SetNumber(f, v)
	}
	return p
}

func TestMerge_ZeroDoesNotOverwrite(t *testing.T) {
	var profile models.BusinessProfile

	Merge(&profile, partialOf(map[models.Field]float64{models.FieldRevenue: 500000}))
	changed := Merge(&profile, partialOf(map[models.Field]float64{models.FieldRevenue: 0, models.FieldClients: 100}))

	assert.Equal(t, 500000.0, profile.Float(models.FieldRevenue))
	assert.Equal(t, 100, *profile.Clients)
	assert.Equal(t, []models.Field{models.FieldClients}, changed)
}

func TestMerge_NullIsIgnored(t *testing.T) {
	profile := partialOf(map[models.Field]float64{models.FieldRevenue: 500000})

	changed := Merge(&profile, models.BusinessProfile{})

	assert.Empty(t, changed)
	assert.Equal(t, 500000.0, profile.Float(models.FieldRevenue))
}

func TestMerge_ZeroFillsAbsentField(t *testing.T) {
	var profile models.BusinessProfile

	changed := Merge(&profile, partialOf(map[models.Field]float64{models.FieldInvestments: 0}))

	assert.Equal(t, []models.Field{models.FieldInvestments}, changed)
	assert.True(t, profile.Has(models.FieldInvestments))
}

func TestMerge_NonZeroOverwrites(t *testing.T) {
	profile := partialOf(map[models.Field]float64{models.FieldExpenses: 300000})
	profile.SetNumber(models.FieldMonthlyCosts, 300000)

	changed := Merge(&profile, partialOf(map[models.Field]float64{models.FieldExpenses: 320000}))

	assert.Equal(t, []models.Field{models.FieldExpenses}, changed)
	assert.Equal(t, 320000.0, profile.Float(models.FieldExpenses))
	assert.Equal(t, 300000.0, profile.Float(models.FieldMonthlyCosts))
}

func TestMerge_BusinessName(t *testing.T) {
	var profile models.BusinessProfile

	var blank models.BusinessProfile
	blank.SetName("   ")
	assert.Empty(t, Merge(&profile, blank))
	assert.Nil(t, profile.BusinessName)

	var named models.BusinessProfile
	named.SetName("  Coffee Lab ")
	assert.Equal(t, []models.Field{models.FieldBusinessName}, Merge(&profile, named))
	assert.Equal(t, "Coffee Lab", *profile.BusinessName)

	assert.Empty(t, Merge(&profile, named))
}

func TestMerge_DerivesMonthlyCosts(t *testing.T) {
	var profile models.BusinessProfile

	changed := Merge(&profile, partialOf(map[models.Field]float64{models.FieldExpenses: 250000}))

	assert.ElementsMatch(t, []models.Field{models.FieldExpenses, models.FieldMonthlyCosts}, changed)
	assert.Equal(t, 250000.0, profile.Float(models.FieldMonthlyCosts))
}

func TestMerge_ZeroExpensesDoNotPinMonthlyCosts(t *testing.T) {
	var profile models.BusinessProfile

	changed := Merge(&profile, partialOf(map[models.Field]float64{models.FieldExpenses: 0}))
	assert.Equal(t, []models.Field{models.FieldExpenses}, changed)
	assert.False(t, profile.Has(models.FieldMonthlyCosts))

	changed = Merge(&profile, partialOf(map[models.Field]float64{models.FieldExpenses: 300000}))
	assert.ElementsMatch(t, []models.Field{models.FieldExpenses, models.FieldMonthlyCosts}, changed)
	assert.Equal(t, 300000.0, profile.Float(models.FieldExpenses))
	assert.Equal(t, 300000.0, profile.Float(models.FieldMonthlyCosts))
}

func TestMerge_ReportedZeroMonthlyCostsAreDerived(t *testing.T) {
	profile := partialOf(map[models.Field]float64{models.FieldMonthlyCosts: 0})

	Merge(&profile, partialOf(map[models.Field]float64{models.FieldExpenses: 120000}))

	assert.Equal(t, 120000.0, profile.Float(models.FieldMonthlyCosts))
}

func TestMerge_Idempotent(t *testing.T) {
	partial := partialOf(map[models.Field]float64{
		models.FieldRevenue:  500000,
		models.FieldExpenses: 300000,
		models.FieldClients:  150,
	})
	partial.SetName("Coffee Lab")

	var once models.BusinessProfile
	Merge(&once, partial)

	twice := once.Clone()
	changed := Merge(&twice, partial)

	assert.Empty(t, changed)
	assert.Equal(t, once, twice)
}
