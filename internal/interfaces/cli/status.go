package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the Gong API is configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := deps.CheckStatus.Execute()
			if flagFormat == "json" {
				return printJSON(deps, report)
			}

			if !report.Configured {
				_, _ = fmt.Fprintln(deps.Out, "Not configured.")
				if len(report.MissingEnv) > 0 {
					_, _ = fmt.Fprintf(deps.Out, "Missing: %s\n", strings.Join(report.MissingEnv, ", "))
				}
				if len(report.InvalidEnv) > 0 {
					_, _ = fmt.Fprintf(deps.Out, "Invalid: %s\n", strings.Join(report.InvalidEnv, ", "))
				}
				return nil
			}
			_, _ = fmt.Fprintf(deps.Out, "Configured (%s)\n", report.BaseURL)
			return nil
		},
	}
}
