package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	mcpiface "github.com/felixgeelhaar/gong-mcp/internal/interfaces/mcp"
)

func newSearchCmd(deps *Dependencies) *cobra.Command {
	var (
		from, to, workspace, cursor string
		callIDs, userIDs            []string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search calls by date range, workspace, call, or host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := mcpiface.SearchCallsToolInput{CallIDs: callIDs, PrimaryUserIDs: userIDs}
			if from != "" {
				input.FromDateTime = &from
			}
			if to != "" {
				input.ToDateTime = &to
			}
			if workspace != "" {
				input.WorkspaceID = &workspace
			}
			if cursor != "" {
				input.Cursor = &cursor
			}

			list, err := deps.MCPServer.HandleSearchCalls(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("search failed: %w", scrub(deps, err))
			}

			if flagFormat == "json" {
				return printJSON(deps, list)
			}
			return printCallsTable(deps, list)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Calls started at or after (ISO-8601)")
	cmd.Flags().StringVar(&to, "to", "", "Calls started at or before (ISO-8601)")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace ID")
	cmd.Flags().StringSliceVar(&callIDs, "call-id", nil, "Call ID (repeatable)")
	cmd.Flags().StringSliceVar(&userIDs, "user", nil, "Primary user ID (repeatable)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Cursor from a previous page")

	return cmd
}

func printCallsTable(deps *Dependencies, list *callapp.CallList) error {
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tSTARTED\tDURATION\tPARTIES")
	for _, c := range list.Calls {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%ds\t%d\n", c.ID, c.Title, c.Started, c.DurationSeconds, len(c.Parties))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if list.HasMore {
		_, _ = fmt.Fprintf(deps.Out, "\nMore results: --cursor %s\n", list.NextCursor)
	}
	return nil
}
