package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonhttp "business-health-workers/internal/common/http"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"
)

const (
	extractPath = "/api/ai/extract-business-data"
	analyzePath = "/api/ai/analyze-missing-data"
)

// GenAIConfig points the client at the in-house GenAI service.
type GenAIConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// GenAIClient implements FieldExtractor and MissingDataClassifier over the GenAI HTTP API.
type GenAIClient struct {
	baseURL string
	http    *commonhttp.Client
	logger  logger.Logger
}

func NewGenAIClient(cfg GenAIConfig, log logger.Logger) *GenAIClient {
	client := commonhttp.NewClient(cfg.Timeout, cfg.MaxRetries)
	if cfg.APIKey != "" {
		client.WithHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	return &GenAIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    client,
		logger:  logger.ForComponent(log, "genai-extractor"),
	}
}

func (c *GenAIClient) Extract(ctx context.Context, text string) (models.BusinessProfile, error) {
	var resp struct {
		Fields json.RawMessage `json:"fields"`
	}
	if err := c.http.PostJSON(ctx, c.baseURL+extractPath, map[string]string{"text": text}, &resp); err != nil {
		if errors.Is(err, commonhttp.ErrRequestTimeout) {
			return models.BusinessProfile{}, fmt.Errorf("%w: %v", ErrExtractionTimeout, err)
		}
		return models.BusinessProfile{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if len(resp.Fields) == 0 || string(resp.Fields) == "null" {
		return models.BusinessProfile{}, invalidPayload("response has no fields")
	}

	profile, err := DecodeFields(resp.Fields)
	if err != nil {
		return models.BusinessProfile{}, err
	}

	c.logger.Debug("fields extracted", map[string]interface{}{
		"found": len(profile.Present()),
	})
	return profile, nil
}

func (c *GenAIClient) Analyze(ctx context.Context, profile models.BusinessProfile) (string, error) {
	var resp struct {
		Result string `json:"result"`
	}
	if err := c.http.PostJSON(ctx, c.baseURL+analyzePath, map[string]interface{}{"data": profile}, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	if strings.TrimSpace(resp.Result) == "" {
		return "", fmt.Errorf("%w: empty answer", ErrClassifierUnavailable)
	}
	return resp.Result, nil
}
