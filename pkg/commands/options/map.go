package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/runner/export"
)

// MapOptions
type MapOptions struct {
	Format string
	Out    string
}

func AddMapArgs(cmd *cobra.Command, o *MapOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", export.FormatGeoJSON,
		"Output format, one of 'geojson' or 'html'.")
	cmd.Flags().StringVar(&o.Out, "out", "",
		"Write to this file instead of stdout.")
}
