package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"business-health-workers/internal/analysis"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Print the benchmark table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return formatBenchmarks(cmd.OutOrStdout(), analysis.Benchmarks())
	},
}

func init() {
	rootCmd.AddCommand(benchmarksCmd)
}

func formatBenchmarks(w io.Writer, table []analysis.Benchmark) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPROFIT MARGIN %\tLTV/CAC\tROI %")
	for _, b := range table {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\n", b.Category, b.ProfitMargin, b.LTVCACRatio, b.ROI)
	}
	return tw.Flush()
}
