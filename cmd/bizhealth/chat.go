package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/conversation"
	"business-health-workers/internal/extraction"
	"business-health-workers/internal/models"
	"business-health-workers/internal/presentation"
	"business-health-workers/internal/repository"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Collect a business profile interactively",
	Long: `Runs the collection dialog over stdin. Each line is one owner message.
Type "ready" to analyze once the required data is in, or "cancel" to stop.
Uses the configured extraction provider; sessions and snapshots stay in memory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		owner, _ := cmd.Flags().GetString("owner")

		backend, err := extraction.NewFromConfig(cfg, log)
		if err != nil {
			return eris.Wrap(err, "chat: init extraction")
		}
		analyzer := analysis.NewAnalyzer(repository.NewMemoryRepository(), presentation.NewLogPresenter(log),
			cfg.Conversation.BenchmarkCategory, log)
		machine := conversation.NewMachine(conversation.NewMemoryStore(), backend,
			conversation.NewGate(backend, log), analyzer, log)

		return runChat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), machine, owner)
	},
}

func init() {
	chatCmd.Flags().String("owner", "cli", "owner id of the session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, machine *conversation.Machine, owner string) error {
	turn, err := machine.Start(ctx, owner, "")
	if err != nil {
		return eris.Wrap(err, "chat: start session")
	}
	renderTurn(out, turn)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		turn, err := machine.HandleTurn(ctx, owner, text)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		renderTurn(out, turn)

		if turn.State.IsTerminal() {
			return nil
		}
	}
	return scanner.Err()
}

func renderTurn(w io.Writer, turn *conversation.TurnResult) {
	fmt.Fprintf(w, "[%s] %s\n", turn.State, turn.Action)
	if turn.ExtractionFailed {
		fmt.Fprintln(w, "  could not read any figures from that message")
	}

	switch turn.State {
	case models.StateCollecting, models.StateStart:
		for _, s := range turn.Summary {
			mark := " "
			if s.Present {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %s", mark, s.Field)
			if s.Present {
				fmt.Fprintf(w, " = %v", s.Value)
			}
			fmt.Fprintln(w)
		}
		if len(turn.Sufficiency.Requested) > 0 {
			fmt.Fprintf(w, "  next: %s\n", joinFields(turn.Sufficiency.Requested))
		}
		if turn.Sufficiency.Questions != "" {
			fmt.Fprintf(w, "  %s\n", turn.Sufficiency.Questions)
		}

	case models.StateReadyForAnalysis:
		fmt.Fprintln(w, "  enough data collected, reply \"ready\" to analyze")

	case models.StateCompleted:
		if r := turn.Analysis; r != nil {
			h := r.Snapshot.Health
			fmt.Fprintf(w, "  overall %d (%s)  financial %d  growth %d  efficiency %d\n",
				h.Overall, h.Tier, h.Financial, h.Growth, h.Efficiency)
			for _, c := range r.Benchmarks {
				fmt.Fprintf(w, "  %-14s %8.2f vs %6.2f  %s\n", c.Metric, c.Actual, c.Benchmark, c.Status)
			}
			for _, rec := range r.Recommendations {
				fmt.Fprintf(w, "  - %s\n", rec.Text)
			}
		}
	}
}

func joinFields(fields []models.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
