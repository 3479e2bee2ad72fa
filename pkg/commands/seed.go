package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/runner/seed"
)

func addSeed(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add the example streams that are missing",
		Example: `
streammap seed
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, _, done, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer done()

			s := seed.Seed{App: a}
			return s.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
