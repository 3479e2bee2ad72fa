package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/server"
)

// ServeOptions
type ServeOptions struct {
	Addr  string
	Title string
}

func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Addr, "addr", server.DefaultAddr,
		"Address to listen on.")
	cmd.Flags().StringVar(&o.Title, "title", server.DefaultTitle,
		"Page title.")
}
