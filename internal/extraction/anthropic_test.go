package extraction

import (
	"context"
	"errors"
	"testing"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"
	"business-health-workers/pkg/anthropic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnthropic struct {
	mock.Mock
}

func (m *MockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textReply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Model:   "claude-test",
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func newTestAnthropicClient(t *testing.T, m *MockAnthropic) *AnthropicClient {
	return NewAnthropicClient(m, AnthropicConfig{Model: "claude-test", Temperature: 0.2}, logger.NewTestLogger(t))
}

func TestAnthropicClient_Extract(t *testing.T) {
	m := new(MockAnthropic)
	m.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-test" &&
			req.MaxTokens == 1024 &&
			len(req.System) == 1 && req.System[0].Text == extractPrompt &&
			len(req.Messages) == 1 && req.Messages[0].Content == "We are Coffee Lab, 40 clients a day"
	})).Return(textReply("```json\n{\"business_name\":\"Coffee Lab\",\"clients\":40,\"revenue\":null}\n```"), nil)

	profile, err := newTestAnthropicClient(t, m).Extract(context.Background(), "We are Coffee Lab, 40 clients a day")

	require.NoError(t, err)
	assert.Equal(t, "Coffee Lab", profile.Name())
	assert.Equal(t, 40, *profile.Clients)
	assert.Nil(t, profile.Revenue)
	m.AssertExpectations(t)
}

func TestAnthropicClient_ExtractErrors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(m *MockAnthropic)
		expectedErr error
	}{
		{
			name: "prose reply",
			setup: func(m *MockAnthropic) {
				m.On("CreateMessage", mock.Anything, mock.Anything).Return(textReply("I could not find anything."), nil)
			},
			expectedErr: ErrInvalidPayload,
		},
		{
			name: "api error",
			setup: func(m *MockAnthropic) {
				m.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))
			},
			expectedErr: ErrExtractionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockAnthropic)
			tt.setup(m)

			_, err := newTestAnthropicClient(t, m).Extract(context.Background(), "text")

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr))
		})
	}
}

func TestAnthropicClient_Analyze(t *testing.T) {
	m := new(MockAnthropic)
	m.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.System[0].Text == analyzePrompt && req.Temperature != nil && *req.Temperature == 0.2
	})).Return(textReply(" ENOUGH_DATA \n"), nil).Once()

	var profile models.BusinessProfile
	profile.SetNumber(models.FieldRevenue, 1000)

	answer, err := newTestAnthropicClient(t, m).Analyze(context.Background(), profile)

	require.NoError(t, err)
	assert.Equal(t, "ENOUGH_DATA", answer)
}

func TestAnthropicClient_AnalyzeFailure(t *testing.T) {
	m := new(MockAnthropic)
	m.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	_, err := newTestAnthropicClient(t, m).Analyze(context.Background(), models.BusinessProfile{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassifierUnavailable))
}
