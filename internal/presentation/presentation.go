// Package presentation delivers completed analyses to downstream consumers.
package presentation

import (
	"context"
	"encoding/json"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Publisher is satisfied by *sns.Client and internal/common/aws.SNSClient.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPresenter publishes every result as JSON to one topic.
type SNSPresenter struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewSNSPresenter(publisher Publisher, topicARN string, log logger.Logger) *SNSPresenter {
	return &SNSPresenter{
		publisher: publisher,
		topicARN:  topicARN,
		logger:    logger.ForComponent(log, "sns-presenter"),
	}
}

func (p *SNSPresenter) Present(ctx context.Context, result *analysis.Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return errors.NewPresentationFailedError("sns", err)
	}

	out, err := p.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("business-health-analysis"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"tier": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(result.Snapshot.Health.Tier)),
			},
			"businessId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(result.Snapshot.BusinessID),
			},
		},
	})
	if err != nil {
		return errors.NewPresentationFailedError("sns", err)
	}

	p.logger.Info("analysis published", map[string]interface{}{
		"businessId": result.Snapshot.BusinessID,
		"snapshotId": result.Snapshot.ID,
		"messageId":  aws.ToString(out.MessageId),
	})
	return nil
}

// LogPresenter writes a structured summary line instead of publishing.
type LogPresenter struct {
	logger logger.Logger
}

func NewLogPresenter(log logger.Logger) *LogPresenter {
	return &LogPresenter{logger: logger.ForComponent(log, "log-presenter")}
}

func (p *LogPresenter) Present(ctx context.Context, result *analysis.Result) error {
	codes := make([]string, len(result.Recommendations))
	for i, r := range result.Recommendations {
		codes[i] = r.Code
	}

	fields := map[string]interface{}{
		"businessId":      result.Snapshot.BusinessID,
		"snapshotId":      result.Snapshot.ID,
		"overall":         result.Snapshot.Health.Overall,
		"tier":            result.Snapshot.Health.Tier,
		"profitMargin":    result.Snapshot.Metrics.ProfitMargin,
		"recommendations": codes,
	}
	if result.Trend != nil {
		fields["trend"] = result.Trend.Direction
	}
	p.logger.Info("analysis ready", fields)
	return nil
}
