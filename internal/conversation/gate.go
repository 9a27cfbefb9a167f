package conversation

import (
	"context"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/metrics"
	"business-health-workers/internal/extraction"
	"business-health-workers/internal/models"
)

// Level is how much of the profile has been collected.
type Level string

const (
	LevelInsufficient Level = "insufficient"
	LevelMinimal      Level = "minimal"
	LevelFull         Level = "full"
)

// Sufficiency is the outcome of one gate evaluation.
type Sufficiency struct {
	Level           Level          `json:"level"`
	MissingRequired []models.Field `json:"missingRequired,omitempty"`
	MissingOptional []models.Field `json:"missingOptional,omitempty"`
	// Requested is what the owner should be asked for next, highest priority first.
	Requested []models.Field `json:"requested,omitempty"`
	// Questions is the classifier's free-text answer when it asked for more.
	Questions        string `json:"questions,omitempty"`
	ClassifierFailed bool   `json:"classifierFailed,omitempty"`
}

// IsMinimal reports whether every required field is present.
func (s Sufficiency) IsMinimal() bool {
	return s.Level == LevelMinimal || s.Level == LevelFull
}

// Gate decides whether enough has been collected to run an analysis.
type Gate struct {
	classifier extraction.MissingDataClassifier
	logger     logger.Logger
}

func NewGate(classifier extraction.MissingDataClassifier, log logger.Logger) *Gate {
	return &Gate{
		classifier: classifier,
		logger:     logger.ForComponent(log, "completeness-gate"),
	}
}

// Evaluate consults the classifier. A classifier failure counts as full sufficiency once the
// required fields are in, so an unavailable backend cannot stall the dialog.
func (g *Gate) Evaluate(ctx context.Context, profile models.BusinessProfile) Sufficiency {
	s := g.Local(profile)

	subject := profile.Clone()
	if len(s.MissingRequired) > 0 {
		subject = profile.Subset(models.RequiredFields)
	}

	if g.classifier == nil {
		if s.IsMinimal() {
			s.Level = LevelFull
			s.Requested = nil
		}
		return s
	}

	answer, err := g.classifier.Analyze(ctx, subject)
	switch {
	case err != nil:
		s.ClassifierFailed = true
		if s.IsMinimal() {
			metrics.ClassifierFallbacks.Inc()
			g.logger.Warn("classifier unavailable, treating profile as complete", map[string]interface{}{
				"error": err.Error(),
			})
			s.Level = LevelFull
			s.Requested = nil
		}
	case extraction.IsEnoughData(answer):
		if s.IsMinimal() {
			s.Level = LevelFull
			s.Requested = nil
		}
	default:
		s.Questions = answer
	}
	return s
}

// Local evaluates the required and optional coverage without the classifier. It never reports full.
func (g *Gate) Local(profile models.BusinessProfile) Sufficiency {
	s := Sufficiency{
		Level:           LevelInsufficient,
		MissingRequired: profile.MissingFrom(models.RequiredFields),
		MissingOptional: profile.MissingFrom(models.OptionalFields),
	}
	if len(s.MissingRequired) == 0 {
		s.Level = LevelMinimal
		s.Requested = s.MissingOptional
	} else {
		s.Requested = s.MissingRequired
	}
	return s
}
