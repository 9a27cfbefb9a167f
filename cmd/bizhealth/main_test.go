package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/conversation"
	"business-health-workers/internal/models"
	"business-health-workers/internal/repository"
	"business-health-workers/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const currentYAML = `business_name: Coffee Lab
revenue: 500000
expenses: 400000
clients: 1000
marketing_costs: 20000
`

const previousJSON = `{"business_name":"Coffee Lab","revenue":400000,"expenses":350000,"clients":900}`

// stubExtractor returns a fixed partial per message.
type stubExtractor map[string]models.BusinessProfile

func (s stubExtractor) Extract(_ context.Context, text string) (models.BusinessProfile, error) {
	return s[text], nil
}

// ==========================
// analyze Tests
// ==========================

func TestRunAnalyze_YAMLProfile(t *testing.T) {
	var out bytes.Buffer
	err := runAnalyze(context.Background(), &out, analyzeOptions{
		File:     writeFile(t, "profile.yaml", currentYAML),
		Category: "service",
	}, logger.NewTestLogger(t))
	require.NoError(t, err)

	var result analysis.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.NotEmpty(t, result.Snapshot.BusinessID)
	assert.Equal(t, "service", result.Category)
	assert.Len(t, result.Benchmarks, 3)
	assert.InDelta(t, 100000.0, result.Snapshot.Metrics.Profit, 1e-9)
	assert.Nil(t, result.Trend)
}

func TestRunAnalyze_WithPreviousProfile(t *testing.T) {
	var out bytes.Buffer
	err := runAnalyze(context.Background(), &out, analyzeOptions{
		File:     writeFile(t, "current.yaml", currentYAML),
		Previous: writeFile(t, "previous.json", previousJSON),
	}, logger.NewTestLogger(t))
	require.NoError(t, err)

	var result analysis.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.NotNil(t, result.Trend)
	assert.Equal(t, models.TrendUp, result.Trend.Direction)
	assert.InDelta(t, 25.0, result.Trend.RevenueChange, 1e-9)
	assert.InDelta(t, 25.0, result.Snapshot.Metrics.RevenueGrowthRate, 1e-9)
	assert.Equal(t, "general", result.Category)
}

func TestRunAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			file:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: "read profile",
		},
		{
			name:    "negative revenue",
			file:    func(t *testing.T) string { return writeFile(t, "neg.json", `{"business_name":"X","revenue":-5}`) },
			wantErr: "invalid profile",
		},
		{
			name:    "broken yaml",
			file:    func(t *testing.T) string { return writeFile(t, "bad.yml", "revenue: [1, 2") },
			wantErr: "parse yaml",
		},
		{
			name:    "required fields missing",
			file:    func(t *testing.T) string { return writeFile(t, "partial.json", `{"revenue":1000}`) },
			wantErr: "analyze profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runAnalyze(context.Background(), &out, analyzeOptions{File: tt.file(t)}, logger.NewNoOpLogger())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, out.String())
		})
	}
}

// ==========================
// benchmarks Tests
// ==========================

func TestFormatBenchmarks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatBenchmarks(&buf, analysis.Benchmarks()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "CATEGORY")
	assert.Contains(t, lines[1], "ecommerce")
	assert.Contains(t, buf.String(), "service")
	assert.Contains(t, buf.String(), "20.0")
}

// ==========================
// chat Tests
// ==========================

func TestRunChat_CollectsAndAnalyzes(t *testing.T) {
	log := logger.NewTestLogger(t)

	var full models.BusinessProfile
	full.SetName("Coffee Lab")
	full.SetNumber(models.FieldRevenue, 500000)
	full.SetNumber(models.FieldExpenses, 400000)
	full.SetNumber(models.FieldClients, 1000)

	extractor := stubExtractor{"we are Coffee Lab, 500k revenue, 400k costs, 1000 clients": full}
	analyzer := analysis.NewAnalyzer(repository.NewMemoryRepository(), nil, "", log)
	machine := conversation.NewMachine(conversation.NewMemoryStore(), extractor, conversation.NewGate(nil, log), analyzer, log)

	in := strings.NewReader("\nwe are Coffee Lab, 500k revenue, 400k costs, 1000 clients\nready\nthis line is never read\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), in, &out, machine, "owner-cli"))

	text := out.String()
	assert.Contains(t, text, "[COLLECTING] collect_data")
	assert.Contains(t, text, "next: business_name, revenue, expenses, clients")
	assert.Contains(t, text, "[READY_FOR_ANALYSIS] await_analysis_confirm")
	assert.Contains(t, text, "[COMPLETED] analysis_complete")
	assert.Contains(t, text, "profit_margin")
	assert.NotContains(t, text, "never read")
}

func TestRunChat_Cancel(t *testing.T) {
	log := logger.NewNoOpLogger()
	machine := conversation.NewMachine(conversation.NewMemoryStore(), stubExtractor{}, conversation.NewGate(nil, log), nil, log)

	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), strings.NewReader("cancel\n"), &out, machine, "owner-cli"))

	assert.Contains(t, out.String(), "[CANCELLED] cancelled")
}

// ==========================
// workers Tests
// ==========================

func TestFormatActivities(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatActivities(&buf, registry.Default()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "TASK TYPE")
	assert.Contains(t, buf.String(), "process-business-message")
	assert.Contains(t, buf.String(), "BUSINESS_NOT_FOUND")
}
