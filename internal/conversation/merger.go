package conversation

import (
	"strings"

	"business-health-workers/internal/models"
)

// Merge folds an extracted partial profile into profile and returns the fields that changed.
//
// A nil value means the extractor found nothing. A zero never replaces a value that is already
// present, because extractors report "not found" as 0 often enough to clobber real figures.
// After merging, monthly_costs defaults to expenses when it holds no positive value and expenses does.
func Merge(profile *models.BusinessProfile, partial models.BusinessProfile) []models.Field {
	var changed []models.Field

	for _, f := range models.AllFields {
		if !partial.Has(f) {
			continue
		}

		if f == models.FieldBusinessName {
			name := strings.TrimSpace(*partial.BusinessName)
			if name == "" {
				continue
			}
			if profile.BusinessName == nil || profile.Name() != name {
				changed = append(changed, f)
			}
			profile.SetName(name)
			continue
		}

		v, _ := partial.Number(f)
		old, had := profile.Number(f)
		if v == 0 && had {
			continue
		}
		if !had || old != v {
			changed = append(changed, f)
		}
		profile.SetNumber(f, v)
	}

	if !profile.Meaningful(models.FieldMonthlyCosts) && profile.Meaningful(models.FieldExpenses) {
		profile.SetNumber(models.FieldMonthlyCosts, profile.Float(models.FieldExpenses))
		changed = append(changed, models.FieldMonthlyCosts)
	}

	return changed
}
