package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/commands/options"
	"tableflip.dev/streammap/pkg/runner/export"
)

func addMap(topLevel *cobra.Command) {
	mo := &options.MapOptions{}
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Export the map as GeoJSON or a Leaflet page",
		Example: `
streammap map > streams.geojson
streammap map --format html --out streams.html
streammap map --search aspen
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, _, done, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer done()

			a.View.SetFilter(vo.Search)
			if _, err := a.SetSort(vo.Sort()); err != nil {
				return err
			}
			s := export.Export{
				App:    a,
				Format: mo.Format,
				Path:   mo.Out,
			}
			return s.Do(ctx)
		},
	}

	options.AddMapArgs(cmd, mo)
	options.AddViewArgs(cmd, vo)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{export.FormatGeoJSON, export.FormatHTML}, cobra.ShellCompDirectiveNoFileComp
	})
	topLevel.AddCommand(cmd)
}
