package options

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/view"
)

// ViewOptions select the sort and search text.
type ViewOptions struct {
	SortKey    string
	Ascending  bool
	Search     string
	Hyperlinks bool
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	keys := append(append([]string{}, entry.Fields...), view.KeyCreated)
	cmd.Flags().StringVar(&o.SortKey, "sort", entry.FieldDateTime,
		fmt.Sprintf("Column to sort by, one of: %s.", strings.Join(keys, ", ")))
	cmd.Flags().BoolVar(&o.Ascending, "asc", false,
		"Sort ascending instead of descending.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only show streams containing this text.")
	cmd.Flags().BoolVar(&o.Hyperlinks, "hyperlinks", false,
		"Print descriptions as terminal hyperlinks instead of a link column.")
}

func (o *ViewOptions) Sort() view.Sort {
	s := view.Sort{Key: o.SortKey, Direction: view.Descending}
	if o.Ascending {
		s.Direction = view.Ascending
	}
	return s
}

// UseHyperlinks is true when hyperlinks were asked for and stdout is a
// terminal that can show them.
func (o *ViewOptions) UseHyperlinks() bool {
	return o.Hyperlinks && isatty.IsTerminal(os.Stdout.Fd())
}
