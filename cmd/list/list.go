package list

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/weatherboard/internal/app"
	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/view"
)

// Command creates the list command that prints the dashboard.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the dashboard",
		Long:  "Restore the saved cities, or add the city at the current location when none are saved, and print their weather.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			a.Dashboard.Bootstrap(cmd.Context())
			return view.RenderText(cmd.OutOrStdout(), view.BuildPage(a.Dashboard.Snapshot()))
		},
	}
}
