package commands

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/commands/options"
	"tableflip.dev/streammap/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	mo := &options.MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server",
		Long: `Launch an MCP server that lets assistants list streams, add new ones and
read the map markers.`,
		Example: `
streammap mcp
streammap mcp --transport http --http-port 9001
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := mcp.Runner{
				Name:             "streammap",
				Version:          version,
				HTTPEndpointPath: mo.Path(),
			}

			switch strings.ToLower(strings.TrimSpace(mo.Transport)) {
			case "", string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
			case string(mcp.TransportHTTP):
				addr, err := mo.ListenAddr()
				if err != nil {
					return err
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = addr
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on http://%s%s\n", a, runner.HTTPEndpointPath)
				}
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", mo.Transport)
			}

			ctx, cancel := signalContext()
			defer cancel()

			a, _, done, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer done()
			runner.App = a

			return runner.Do(ctx)
		},
	}

	options.AddMCPArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}
