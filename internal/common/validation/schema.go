package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ExtractedFieldsSchema describes the partial field map returned by an extractor.
// Unknown keys are allowed and ignored by the decoder; null means "not found".
const ExtractedFieldsSchema = `{
  "type": "object",
  "properties": {
    "business_name":           {"type": ["string", "null"]},
    "revenue":                 {"type": ["number", "null"], "minimum": 0},
    "expenses":                {"type": ["number", "null"], "minimum": 0},
    "profit":                  {"type": ["number", "null"]},
    "average_check":           {"type": ["number", "null"], "minimum": 0},
    "clients":                 {"type": ["number", "null"], "minimum": 0, "maximum": 1000000000},
    "investments":             {"type": ["number", "null"], "minimum": 0},
    "marketing_costs":         {"type": ["number", "null"], "minimum": 0},
    "employees":               {"type": ["number", "null"], "minimum": 0, "maximum": 1000000000},
    "monthly_costs":           {"type": ["number", "null"], "minimum": 0},
    "new_clients_per_month":   {"type": ["number", "null"], "minimum": 0},
    "customer_retention_rate": {"type": ["number", "null"], "minimum": 0, "maximum": 100}
  }
}`

// ValidationResult is the outcome of validating one document.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator holds a compiled schema. It is safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a JSON schema document.
func NewValidator(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

var (
	extractedOnce      sync.Once
	extractedValidator *Validator
	extractedErr       error
)

// ExtractedFields returns the shared validator for extractor payloads.
func ExtractedFields() (*Validator, error) {
	extractedOnce.Do(func() {
		extractedValidator, extractedErr = NewValidator(ExtractedFieldsSchema)
	})
	return extractedValidator, extractedErr
}

// ValidateJSON validates a raw JSON document.
func (v *Validator) ValidateJSON(doc []byte) (*ValidationResult, error) {
	return v.validate(gojsonschema.NewBytesLoader(doc))
}

// ValidateInput validates an already decoded document.
func (v *Validator) ValidateInput(input interface{}) (*ValidationResult, error) {
	return v.validate(gojsonschema.NewGoLoader(input))
}

func (v *Validator) validate(loader gojsonschema.JSONLoader) (*ValidationResult, error) {
	res, err := v.schema.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
