package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the configuration in use",
		Example: `
streammap info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cfg, done, err := loadApp(ctx)
			if done != nil {
				defer done()
			}
			s := info.Info{Config: cfg, App: a}
			if rerr := s.Do(ctx); rerr != nil {
				if err != nil {
					return err
				}
				return rerr
			}
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
