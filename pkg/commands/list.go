package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/commands/options"
	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/runner/list"
	"tableflip.dev/streammap/pkg/view"
)

func addList(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "List streams",
		Example: `
streammap list
streammap list --sort city --asc
streammap list --search motherlode --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, _, done, err := loadApp(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			s := list.List{
				App:        a,
				Sort:       vo.Sort(),
				Search:     vo.Search,
				JSON:       oo.JSON,
				Hyperlinks: vo.UseHyperlinks(),
			}
			err = s.Do(ctx)
			return oo.HandleError(err)
		},
	}

	options.AddViewArgs(cmd, vo)
	_ = cmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return append(append([]string{}, entry.Fields...), view.KeyCreated), cobra.ShellCompDirectiveNoFileComp
	})
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
