package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/commands/options"
	"tableflip.dev/streammap/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table and map over HTTP",
		Example: `
streammap serve
streammap serve --addr 127.0.0.1:9000
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, _, done, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer done()

			s := serve.Serve{App: a, Addr: so.Addr, Title: so.Title}
			return s.Do(ctx)
		},
	}

	options.AddServeArgs(cmd, so)
	topLevel.AddCommand(cmd)
}
