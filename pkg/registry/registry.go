// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

const Version = "1.0.0"

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, reg.Validate()
}

// Default returns the activities implemented in this repository.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version: Version,
		Activities: []Activity{
			{
				ID:          "process-business-message",
				DisplayName: "Process Business Message",
				Description: "Runs one owner message through the profile collection dialog",
				Category:    "conversation",
				TaskType:    "process-business-message",
				Input:       map[string]string{"ownerId": "string", "message": "string"},
				Output:      map[string]string{"turn": "object", "readyForAnalysis": "boolean", "completed": "boolean", "cancelled": "boolean"},
				ErrorCodes:  []string{"INVALID_INPUT", "SESSION_STORE_FAILED", "INSUFFICIENT_DATA", "ANALYSIS_FAILED", "SNAPSHOT_PERSIST_FAILED", "HISTORY_QUERY_FAILED"},
				Timeout:     "60s",
				Tags:        []string{"stateful"},
			},
			{
				ID:          "start-business-session",
				DisplayName: "Start Business Session",
				Description: "Opens a fresh collection session for an owner",
				Category:    "conversation",
				TaskType:    "start-business-session",
				Input:       map[string]string{"ownerId": "string", "businessId": "string"},
				Output:      map[string]string{"sessionId": "string", "state": "string", "requested": "array"},
				ErrorCodes:  []string{"INVALID_INPUT", "SESSION_STORE_FAILED"},
				Timeout:     "10s",
				Tags:        []string{"stateful"},
			},
			{
				ID:          "extract-business-fields",
				DisplayName: "Extract Business Fields",
				Description: "Extracts profile fields from free text with the configured language model",
				Category:    "ai-conversation",
				TaskType:    "extract-business-fields",
				Input:       map[string]string{"text": "string"},
				Output:      map[string]string{"fields": "object", "found": "array", "extractionFailed": "boolean"},
				ErrorCodes:  []string{"INVALID_INPUT"},
				Timeout:     "30s",
				Tags:        []string{"llm"},
			},
			{
				ID:          "calculate-business-metrics",
				DisplayName: "Calculate Business Metrics",
				Description: "Derives the financial metrics of a complete profile",
				Category:    "analysis",
				TaskType:    "calculate-business-metrics",
				Input:       map[string]string{"profile": "object", "previousProfile": "object"},
				Output:      map[string]string{"metrics": "object", "missingRequired": "array"},
				ErrorCodes:  []string{"INVALID_INPUT", "INVALID_PROFILE", "INSUFFICIENT_DATA"},
				Timeout:     "5s",
				Tags:        []string{"pure"},
			},
			{
				ID:          "score-business-health",
				DisplayName: "Score Business Health",
				Description: "Scores metrics into financial, growth, efficiency and overall health",
				Category:    "analysis",
				TaskType:    "score-business-health",
				Input:       map[string]string{"metrics": "object", "category": "string"},
				Output:      map[string]string{"health": "object", "breakdown": "object", "category": "string"},
				ErrorCodes:  []string{"INVALID_INPUT"},
				Timeout:     "5s",
				Tags:        []string{"pure"},
			},
			{
				ID:          "compare-benchmarks",
				DisplayName: "Compare Benchmarks",
				Description: "Compares profit margin, ROI and LTV/CAC against the category benchmark",
				Category:    "analysis",
				TaskType:    "compare-benchmarks",
				Input:       map[string]string{"metrics": "object", "category": "string"},
				Output:      map[string]string{"category": "string", "comparisons": "array", "aboveCount": "number", "belowCount": "number"},
				ErrorCodes:  []string{"INVALID_INPUT"},
				Timeout:     "5s",
				Tags:        []string{"pure"},
			},
			{
				ID:          "build-business-report",
				DisplayName: "Build Business Report",
				Description: "Builds history, trend, period summary and recommendations for a business",
				Category:    "analysis",
				TaskType:    "build-business-report",
				Input:       map[string]string{"businessId": "string", "historyLimit": "number", "periodDays": "number"},
				Output:      map[string]string{"latest": "object", "history": "array", "trend": "object", "period": "object", "benchmarks": "array", "recommendations": "array"},
				ErrorCodes:  []string{"INVALID_INPUT", "BUSINESS_NOT_FOUND", "HISTORY_QUERY_FAILED"},
				Timeout:     "15s",
			},
		},
	}
}

// Find looks an activity up by task type.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// TaskTypes lists every task type, sorted.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// Validate rejects duplicate ids or task types, missing task types and unparsable timeouts.
func (r *ActivityRegistry) Validate() error {
	ids := make(map[string]bool, len(r.Activities))
	types := make(map[string]bool, len(r.Activities))
	for i, a := range r.Activities {
		if a.ID == "" || a.TaskType == "" {
			return fmt.Errorf("activity %d: id and taskType are required", i)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity id %q", a.ID)
		}
		if types[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s: bad timeout %q", a.ID, a.Timeout)
			}
		}
		ids[a.ID] = true
		types[a.TaskType] = true
	}
	return nil
}
