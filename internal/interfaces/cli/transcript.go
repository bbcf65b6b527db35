package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	exportapp "github.com/felixgeelhaar/gong-mcp/internal/application/export"
)

func newTranscriptCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript [call-id]",
		Short: "Print or export a call transcript (--format json, md, or txt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := exportapp.Format(flagFormat)
			if flagFormat == "table" {
				format = exportapp.FormatMarkdown
			}

			out, err := deps.ExportTranscript.Execute(cmd.Context(), exportapp.ExportTranscriptInput{
				CallID: args[0],
				Format: format,
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", scrub(deps, err))
			}

			_, _ = fmt.Fprint(deps.Out, out.Content)
			return nil
		},
	}
}
