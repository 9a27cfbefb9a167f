package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/extraction"
	"business-health-workers/internal/models"
	"business-health-workers/internal/presentation"
	"business-health-workers/internal/repository"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a business profile file",
	Long: `Reads a business profile from a YAML or JSON file and prints the analysis as JSON.

Keys use the profile field names (business_name, revenue, expenses, clients, ...).
With --previous the earlier profile is analyzed first, so revenue growth and the
trend are filled in.

Examples:
  bizhealth analyze --file profile.yaml
  bizhealth analyze --file march.json --previous february.json --category service`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		previous, _ := cmd.Flags().GetString("previous")
		category, _ := cmd.Flags().GetString("category")
		if category == "" {
			category = cfg.Conversation.BenchmarkCategory
		}
		return runAnalyze(cmd.Context(), cmd.OutOrStdout(), analyzeOptions{
			File:     file,
			Previous: previous,
			Category: category,
		}, log)
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.String("file", "", "profile file (.yaml, .yml or .json)")
	f.String("previous", "", "earlier profile of the same business")
	f.String("category", "", "benchmark category (general, retail, service, ecommerce, manufacturing)")
	_ = analyzeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOptions struct {
	File     string
	Previous string
	Category string
}

func runAnalyze(ctx context.Context, out io.Writer, opts analyzeOptions, log logger.Logger) error {
	profile, err := loadProfile(opts.File)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(repository.NewMemoryRepository(), presentation.NewLogPresenter(log), opts.Category, log)

	businessID := ""
	if opts.Previous != "" {
		prev, err := loadProfile(opts.Previous)
		if err != nil {
			return err
		}
		res, err := analyzer.Analyze(ctx, "cli", "", prev)
		if err != nil {
			return eris.Wrap(err, "analyze previous profile")
		}
		businessID = res.Snapshot.BusinessID
	}

	result, err := analyzer.Analyze(ctx, "cli", businessID, profile)
	if err != nil {
		return eris.Wrap(err, "analyze profile")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// loadProfile reads a profile file and runs it through the same validation as extractor payloads.
func loadProfile(path string) (models.BusinessProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.BusinessProfile{}, eris.Wrapf(err, "read profile %s", path)
	}

	raw := data
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var fields map[string]interface{}
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return models.BusinessProfile{}, eris.Wrapf(err, "parse yaml %s", path)
		}
		if raw, err = json.Marshal(fields); err != nil {
			return models.BusinessProfile{}, eris.Wrapf(err, "convert yaml %s", path)
		}
	}

	profile, err := extraction.DecodeFields(raw)
	if err != nil {
		return models.BusinessProfile{}, eris.Wrapf(err, "invalid profile %s", path)
	}
	return profile, nil
}
