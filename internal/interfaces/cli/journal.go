package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/journal"
)

var errJournalDisabled = errors.New("request journal is disabled")

func newJournalCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the local request journal",
	}

	cmd.AddCommand(newJournalListCmd(deps), newJournalPruneCmd(deps))
	return cmd
}

func newJournalListCmd(deps *Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Journal == nil {
				return errJournalDisabled
			}

			entries, err := deps.Journal.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("reading journal: %w", err)
			}

			if flagFormat == "json" {
				return printJSON(deps, entries)
			}
			return printJournalTable(deps, entries)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries")
	return cmd
}

func newJournalPruneCmd(deps *Dependencies) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete journal entries older than a given age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Journal == nil {
				return errJournalDisabled
			}

			n, err := deps.Journal.Prune(cmd.Context(), olderThan)
			if err != nil {
				return fmt.Errorf("pruning journal: %w", err)
			}
			_, _ = fmt.Fprintf(deps.Out, "Pruned %s entries older than %s\n", humanize.Comma(n), olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age threshold")
	return cmd
}

func printJournalTable(deps *Dependencies, entries []journal.Entry) error {
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tOPERATION\tTARGET\tOUTCOME\tDURATION")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(e.CreatedAt), e.Operation, e.Target, e.Outcome, e.Duration())
	}
	return w.Flush()
}
