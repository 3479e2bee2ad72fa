package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/runner/reset"
)

func addClear(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored stream",
		Long:  "Delete every stored stream. The example streams come back on the next start.",
		Example: `
streammap clear
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, _, done, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer done()

			s := reset.Reset{App: a}
			return s.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
