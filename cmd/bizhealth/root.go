package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"business-health-workers/internal/common/config"
	"business-health-workers/internal/common/logger"
)

var (
	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bizhealth",
	Short: "Business health analysis from the command line",
	Long:  "Computes metrics, health scores and benchmark comparisons for a business profile, or collects the profile in a chat.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = cfg.Logging.Level
		}
		log = logger.NewZapAdapter(logger.NewWithOptions(logger.Options{
			Level:  level,
			Format: "console",
			Output: "stderr",
		}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
