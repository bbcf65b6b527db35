// Package cli is the cobra command tree of gong-mcp. Every command reads
// from the same use cases and facade the MCP server exposes.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	exportapp "github.com/felixgeelhaar/gong-mcp/internal/application/export"
	statusapp "github.com/felixgeelhaar/gong-mcp/internal/application/status"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/journal"
	mcpiface "github.com/felixgeelhaar/gong-mcp/internal/interfaces/mcp"
)

// Dependencies is everything the commands need, wired by main.
type Dependencies struct {
	MCPServer        *mcpiface.Server
	CheckStatus      *statusapp.CheckStatus
	ExportTranscript *exportapp.ExportTranscript
	Journal          *journal.Store
	Credentials      *account.Credentials

	Transport string
	Host      string
	Port      int
	// OpsPort serves health, status and metrics in http mode; 0 disables.
	OpsPort int

	Out io.Writer
}

var flagFormat string

func NewRootCmd(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "gong-mcp",
		Short:         "MCP server for Gong calls, transcripts, and users",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.Out)

	root.PersistentFlags().StringVar(&flagFormat, "format", "table", "Output format: table or json")

	root.AddCommand(
		newServeCmd(deps),
		newStatusCmd(deps),
		newUsersCmd(deps),
		newTranscriptCmd(deps),
		newSearchCmd(deps),
		newJournalCmd(deps),
		newVersionCmd(),
	)
	return root
}

func printJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// scrub keeps credential material out of anything a command prints.
func scrub(deps *Dependencies, err error) error {
	if err == nil {
		return nil
	}
	if fe, ok := failure.As(err); ok {
		return fe.Redact(deps.Credentials.Secrets()...)
	}
	return err
}
