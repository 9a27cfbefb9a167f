package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenAIServer(t *testing.T, handler http.HandlerFunc) (*GenAIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGenAIClient(GenAIConfig{
		BaseURL:    server.URL + "/",
		APIKey:     "test-key",
		Timeout:    time.Second,
		MaxRetries: 1,
	}, logger.NewTestLogger(t))
	return client, server
}

// ==========================
// Extract
// ==========================

func TestGenAIClient_Extract(t *testing.T) {
	client, _ := newGenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, extractPath, r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "my coffee shop makes 500k", body["text"])

		w.Write([]byte(`{"fields":{"business_name":null,"revenue":500000}}`))
	})

	profile, err := client.Extract(context.Background(), "my coffee shop makes 500k")

	require.NoError(t, err)
	assert.Equal(t, []models.Field{models.FieldRevenue}, profile.Present())
	assert.Equal(t, 500000.0, profile.Float(models.FieldRevenue))
}

func TestGenAIClient_ExtractRetriesBadGateway(t *testing.T) {
	var calls int32
	client, _ := newGenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"fields":{"clients":120}}`))
	})

	profile, err := client.Extract(context.Background(), "120 clients")

	require.NoError(t, err)
	assert.Equal(t, 120, *profile.Clients)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenAIClient_ExtractErrors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		ctxTimeout  time.Duration
		expectedErr error
	}{
		{
			name: "invalid value",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"fields":{"revenue":-10}}`))
			},
			expectedErr: ErrInvalidPayload,
		},
		{
			name: "no fields",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"ok"}`))
			},
			expectedErr: ErrInvalidPayload,
		},
		{
			name: "server keeps failing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedErr: ErrExtractionFailed,
		},
		{
			name: "deadline exceeded",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
			ctxTimeout:  50 * time.Millisecond,
			expectedErr: ErrExtractionTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newGenAIServer(t, tt.handler)

			ctx := context.Background()
			if tt.ctxTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.ctxTimeout)
				defer cancel()
			}

			_, err := client.Extract(ctx, "anything")

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
		})
	}
}

// ==========================
// Analyze
// ==========================

func TestGenAIClient_Analyze(t *testing.T) {
	client, _ := newGenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, analyzePath, r.URL.Path)

		var body struct {
			Data models.BusinessProfile `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Coffee Lab", body.Data.Name())

		w.Write([]byte(`{"result":"ENOUGH_DATA"}`))
	})

	var profile models.BusinessProfile
	profile.SetName("Coffee Lab")

	answer, err := client.Analyze(context.Background(), profile)

	require.NoError(t, err)
	assert.True(t, IsEnoughData(answer))
}

func TestGenAIClient_AnalyzeEmptyAnswer(t *testing.T) {
	client, _ := newGenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"  "}`))
	})

	_, err := client.Analyze(context.Background(), models.BusinessProfile{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassifierUnavailable))
}
