package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"
	"business-health-workers/pkg/anthropic"
)

const extractPrompt = `You extract facts about a small business from the owner's message.
Reply with a single JSON object and nothing else. Use exactly these keys:
business_name (string), revenue, expenses, profit, average_check, clients, investments,
marketing_costs, employees, monthly_costs, new_clients_per_month, customer_retention_rate (numbers).
Money values are monthly amounts. customer_retention_rate is a percentage from 0 to 100.
Use null for every fact the message does not state. Never use 0 for an unknown value.
Expand shorthand such as "500k" or "1.2 million" into plain numbers.`

const analyzePrompt = `You review the facts collected about a small business before a financial health analysis.
The facts are given as JSON. If they are enough for a useful analysis, reply with exactly ENOUGH_DATA.
Otherwise reply with one or two short questions asking for the most important missing facts.`

// AnthropicConfig selects the model used for extraction and classification.
type AnthropicConfig struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

// AnthropicClient implements FieldExtractor and MissingDataClassifier over the Messages API.
type AnthropicClient struct {
	client anthropic.Client
	cfg    AnthropicConfig
	logger logger.Logger
}

func NewAnthropicClient(client anthropic.Client, cfg AnthropicConfig, log logger.Logger) *AnthropicClient {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &AnthropicClient{
		client: client,
		cfg:    cfg,
		logger: logger.ForComponent(log, "anthropic-extractor"),
	}
}

func (c *AnthropicClient) Extract(ctx context.Context, text string) (models.BusinessProfile, error) {
	reply, err := c.ask(ctx, extractPrompt, text)
	if err != nil {
		if ctx.Err() != nil {
			return models.BusinessProfile{}, fmt.Errorf("%w: %v", ErrExtractionTimeout, err)
		}
		return models.BusinessProfile{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	obj, ok := extractJSONObject(reply)
	if !ok {
		return models.BusinessProfile{}, invalidPayload("reply is not a JSON object")
	}
	return DecodeFields([]byte(obj))
}

func (c *AnthropicClient) Analyze(ctx context.Context, profile models.BusinessProfile) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	reply, err := c.ask(ctx, analyzePrompt, string(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty answer", ErrClassifierUnavailable)
	}
	return reply, nil
}

func (c *AnthropicClient) ask(ctx context.Context, system, user string) (string, error) {
	temp := c.cfg.Temperature
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		System:      []anthropic.SystemBlock{{Text: system}},
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("model replied", map[string]interface{}{
		"model":        resp.Model,
		"inputTokens":  resp.Usage.InputTokens,
		"outputTokens": resp.Usage.OutputTokens,
	})
	return resp.Text(), nil
}
