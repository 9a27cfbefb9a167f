package analysis

import (
	"sort"
	"strings"

	"business-health-workers/internal/models"
)

// DefaultCategory is the benchmark table applied when none is configured.
const DefaultCategory = "general"

// Benchmark holds peer targets for one business category.
type Benchmark struct {
	Category     string  `json:"category" yaml:"category"`
	ProfitMargin float64 `json:"profitMargin" yaml:"profit_margin"`
	LTVCACRatio  float64 `json:"ltvCacRatio" yaml:"ltv_cac_ratio"`
	ROI          float64 `json:"roi" yaml:"roi"`
}

var benchmarkTable = map[string]Benchmark{
	"general":       {Category: "general", ProfitMargin: 15, LTVCACRatio: 3.0, ROI: 25},
	"retail":        {Category: "retail", ProfitMargin: 15, LTVCACRatio: 3.0, ROI: 25},
	"service":       {Category: "service", ProfitMargin: 20, LTVCACRatio: 4.0, ROI: 30},
	"ecommerce":     {Category: "ecommerce", ProfitMargin: 10, LTVCACRatio: 2.5, ROI: 20},
	"manufacturing": {Category: "manufacturing", ProfitMargin: 12, LTVCACRatio: 2.8, ROI: 22},
}

// Lookup returns the table for category. Unknown or empty categories fall back to general.
func Lookup(category string) Benchmark {
	if b, ok := benchmarkTable[strings.ToLower(strings.TrimSpace(category))]; ok {
		return b
	}
	return benchmarkTable[DefaultCategory]
}

// Benchmarks lists every table sorted by category.
func Benchmarks() []Benchmark {
	out := make([]Benchmark, 0, len(benchmarkTable))
	for _, b := range benchmarkTable {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Compare checks profit margin, ROI and LTV/CAC against b, in that order.
func Compare(m models.MetricsRecord, b Benchmark) []models.BenchmarkComparison {
	return []models.BenchmarkComparison{
		compareOne("profit_margin", m.ProfitMargin, b.ProfitMargin),
		compareOne("roi", m.ROI, b.ROI),
		compareOne("ltv_cac_ratio", m.LTVCACRatio, b.LTVCACRatio),
	}
}

func compareOne(metric string, actual, target float64) models.BenchmarkComparison {
	c := models.BenchmarkComparison{
		Metric:    metric,
		Actual:    actual,
		Benchmark: target,
		Status:    models.BenchmarkNotAvailable,
	}
	if target <= 0 {
		return c
	}
	c.PercentageOfTarget = actual / target * 100
	if c.PercentageOfTarget >= 100 {
		c.Status = models.BenchmarkAbove
	} else {
		c.Status = models.BenchmarkBelow
	}
	return c
}
