package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/controller"
)

// EntryOptions are the create-entry form as flags.
type EntryOptions struct {
	Link        string
	Description string
	City        string
	State       string
	Here        bool
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVarP(&o.Link, "link", "l", "",
		"Link to the stream.")
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Description shown in the table and the map popup.")
	cmd.Flags().StringVar(&o.City, "city", "",
		"City the event took place in.")
	cmd.Flags().StringVar(&o.State, "state", "",
		"State the event took place in.")
	cmd.Flags().BoolVar(&o.Here, "here", false,
		"Use the current device location instead of --city and --state.")
}

// Validate rejects mixing a place with --here.
func (o *EntryOptions) Validate() error {
	if o.Here && (o.City != "" || o.State != "") {
		return errors.New("--here can not be combined with --city or --state")
	}
	return nil
}

func (o *EntryOptions) Form() controller.Form {
	return controller.Form{
		Link:              o.Link,
		Description:       o.Description,
		City:              o.City,
		State:             o.State,
		UseDeviceLocation: o.Here,
	}
}
