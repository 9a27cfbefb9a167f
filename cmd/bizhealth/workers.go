package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"business-health-workers/pkg/registry"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List the Zeebe task types served by the worker manager",
	Long: `Prints the activity registry. With --file a registry JSON is loaded and
validated instead of the built-in one.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := registry.Default()
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			loaded, err := registry.LoadRegistry(path)
			if err != nil {
				return eris.Wrap(err, "workers: load registry")
			}
			reg = loaded
		}
		return formatActivities(cmd.OutOrStdout(), reg)
	},
}

func init() {
	workersCmd.Flags().String("file", "", "activity registry JSON to validate and print")
	rootCmd.AddCommand(workersCmd)
}

func formatActivities(w io.Writer, reg *registry.ActivityRegistry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tCATEGORY\tTIMEOUT\tERRORS")
	for _, a := range reg.Activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.TaskType, a.Category, a.Timeout, strings.Join(a.ErrorCodes, ","))
	}
	return tw.Flush()
}
