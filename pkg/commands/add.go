package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/commands/options"
	"tableflip.dev/streammap/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stream",
		Long: base.Wrap80("Add a stream. The place is resolved to coordinates before " +
			"the stream is saved; with --here the device location is used and named " +
			"by a reverse lookup when one is configured."),
		Example: `
streammap add --link https://youtu.be/abc --description "Finals" --city Aspen --state CO
streammap add -l https://youtu.be/abc -d "Live from the beach" --here
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return eo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, _, done, err := loadApp(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			s := add.Add{
				App:  a,
				Form: eo.Form(),
				JSON: oo.JSON,
			}
			err = s.Do(ctx)
			return oo.HandleError(err)
		},
	}

	options.AddEntryArgs(cmd, eo)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
