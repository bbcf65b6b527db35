package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/config"
)

func newServeCmd(deps *Dependencies) *cobra.Command {
	var (
		transport string
		host      string
		port      int
		opsPort   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long:  "Start the Gong MCP server. By default serves over stdio for use with MCP clients.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.MCPServer == nil {
				return fmt.Errorf("MCP server not configured")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// stdout carries the protocol in stdio mode.
			banner := os.Stderr

			var err error
			switch transport {
			case config.TransportHTTP:
				if opsPort == port {
					return fmt.Errorf("--ops-port %d collides with --port", opsPort)
				}
				addr := net.JoinHostPort(host, strconv.Itoa(port))
				opsAddr := ""
				if opsPort > 0 {
					opsAddr = net.JoinHostPort(host, strconv.Itoa(opsPort))
				}
				_, _ = fmt.Fprintf(banner, "Starting %s v%s MCP server (http on %s/mcp)...\n",
					deps.MCPServer.Name(), deps.MCPServer.Version(), addr)
				if opsAddr != "" {
					_, _ = fmt.Fprintf(banner, "Health, status and metrics on %s\n", opsAddr)
				}
				err = deps.MCPServer.ServeHTTP(ctx, addr, opsAddr)
			case config.TransportStdio:
				_, _ = fmt.Fprintf(banner, "Starting %s v%s MCP server (stdio)...\n",
					deps.MCPServer.Name(), deps.MCPServer.Version())
				err = deps.MCPServer.ServeStdio(ctx)
			default:
				return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
			}

			if err != nil {
				if ctx.Err() != nil {
					_, _ = fmt.Fprintln(banner, "MCP server stopped.")
					return nil
				}
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&transport, "transport", deps.Transport, "Transport: stdio or http")
	cmd.Flags().StringVar(&host, "host", deps.Host, "HTTP bind host (when transport=http)")
	cmd.Flags().IntVar(&port, "port", deps.Port, "HTTP port (when transport=http)")
	cmd.Flags().IntVar(&opsPort, "ops-port", deps.OpsPort, "Health, status and metrics port (when transport=http, 0 disables)")

	return cmd
}
