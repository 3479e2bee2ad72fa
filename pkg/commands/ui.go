package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
streammap ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, _, done, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer done()

			i := ui.UI{App: a}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
