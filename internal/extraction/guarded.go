package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/metrics"
	"business-health-workers/internal/models"
)

// GuardOptions bounds every backend call.
type GuardOptions struct {
	Provider   string
	Timeout    time.Duration
	MaxRetries int
}

// Guarded wraps a backend with a per-attempt timeout and bounded retries.
// It always reports failures as ErrExtractionFailed or ErrClassifierUnavailable so the caller can
// fall back to "no new fields" and "classifier unavailable".
type Guarded struct {
	extractor  FieldExtractor
	classifier MissingDataClassifier
	opts       GuardOptions
	logger     logger.Logger
}

func NewGuarded(extractor FieldExtractor, classifier MissingDataClassifier, opts GuardOptions, log logger.Logger) *Guarded {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Guarded{
		extractor:  extractor,
		classifier: classifier,
		opts:       opts,
		logger:     logger.ForComponent(log, "extraction-guard"),
	}
}

func (g *Guarded) Extract(ctx context.Context, text string) (models.BusinessProfile, error) {
	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		profile, err := g.extractor.Extract(attemptCtx, text)
		cancel()
		if err == nil {
			return profile, nil
		}
		lastErr = err
		if errors.Is(err, ErrInvalidPayload) {
			break
		}
	}
	if lastErr == nil {
		lastErr = ctx.Err()
	}

	kind := "error"
	switch {
	case errors.Is(lastErr, ErrExtractionTimeout) || errors.Is(lastErr, context.DeadlineExceeded):
		kind = "timeout"
	case errors.Is(lastErr, ErrInvalidPayload):
		kind = "invalid_payload"
	}
	metrics.ExtractionFailures.WithLabelValues(g.opts.Provider, kind).Inc()
	g.logger.Warn("extraction failed, turn contributes no fields", map[string]interface{}{
		"provider": g.opts.Provider,
		"kind":     kind,
		"error":    fmt.Sprint(lastErr),
	})

	if errors.Is(lastErr, ErrExtractionFailed) {
		return models.BusinessProfile{}, lastErr
	}
	return models.BusinessProfile{}, fmt.Errorf("%w: %v", ErrExtractionFailed, lastErr)
}

func (g *Guarded) Analyze(ctx context.Context, profile models.BusinessProfile) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		answer, err := g.classifier.Analyze(attemptCtx, profile)
		cancel()
		if err == nil {
			return answer, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ctx.Err()
	}

	g.logger.Warn("missing-data classifier unavailable", map[string]interface{}{
		"provider": g.opts.Provider,
		"error":    fmt.Sprint(lastErr),
	})
	if errors.Is(lastErr, ErrClassifierUnavailable) {
		return "", lastErr
	}
	return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, lastErr)
}
