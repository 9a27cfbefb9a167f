// Package extraction adapts language-model backends to the field extractor and missing-data classifier contracts.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"business-health-workers/internal/common/validation"
	"business-health-workers/internal/models"
)

// EnoughDataSentinel is the classifier answer meaning nothing else needs to be asked.
const EnoughDataSentinel = "ENOUGH_DATA"

var (
	ErrExtractionFailed      = errors.New("EXTRACTION_FAILED")
	ErrExtractionTimeout     = errors.New("EXTRACTION_TIMEOUT")
	ErrClassifierUnavailable = errors.New("CLASSIFIER_UNAVAILABLE")

	// ErrInvalidPayload marks a reply that arrived but does not satisfy the extractor contract.
	// It always comes wrapped together with ErrExtractionFailed.
	ErrInvalidPayload = errors.New("INVALID_PAYLOAD")
)

// FieldExtractor turns free text into a partial profile. Fields that were not found stay nil.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (models.BusinessProfile, error)
}

// MissingDataClassifier answers either EnoughDataSentinel or free-text follow-up questions.
type MissingDataClassifier interface {
	Analyze(ctx context.Context, profile models.BusinessProfile) (string, error)
}

// IsEnoughData matches the sentinel case-insensitively after trimming.
func IsEnoughData(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), EnoughDataSentinel)
}

// DecodeFields validates a raw extractor payload and converts it into a partial profile.
// Unknown keys are ignored. null and blank names are treated as not found.
func DecodeFields(raw []byte) (models.BusinessProfile, error) {
	var profile models.BusinessProfile

	v, err := validation.ExtractedFields()
	if err != nil {
		return profile, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	res, err := v.ValidateJSON(raw)
	if err != nil {
		return profile, invalidPayload(err.Error())
	}
	if !res.Valid {
		return profile, invalidPayload(strings.Join(res.GetErrorMessages(), "; "))
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return profile, invalidPayload(err.Error())
	}

	for _, f := range models.AllFields {
		switch val := fields[string(f)].(type) {
		case string:
			if f == models.FieldBusinessName && strings.TrimSpace(val) != "" {
				profile.SetName(strings.TrimSpace(val))
			}
		case float64:
			profile.SetNumber(f, val)
		}
	}
	return profile, nil
}

func invalidPayload(detail string) error {
	return fmt.Errorf("%w: %w: %s", ErrExtractionFailed, ErrInvalidPayload, detail)
}

// extractJSONObject returns the outermost {...} of a model reply, tolerating code fences and prose.
func extractJSONObject(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}
