package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gong-mcp/internal/application/flatten"
	userapp "github.com/felixgeelhaar/gong-mcp/internal/application/user"
	mcpiface "github.com/felixgeelhaar/gong-mcp/internal/interfaces/mcp"
)

func newUsersCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List Gong users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := deps.MCPServer.ReadResource(cmd.Context(), mcpiface.UsersURI)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", scrub(deps, err))
			}

			if flagFormat == "json" {
				_, _ = fmt.Fprintln(deps.Out, content.Text)
				return nil
			}

			var out userapp.ListUsersOutput
			if err := json.Unmarshal([]byte(content.Text), &out); err != nil {
				return fmt.Errorf("decoding users: %w", err)
			}
			return printUsersTable(deps, out.Users)
		},
	}
}

func printUsersTable(deps *Dependencies, users []flatten.User) error {
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTITLE\tACTIVE")
	for _, u := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Title, u.Active)
	}
	return w.Flush()
}
