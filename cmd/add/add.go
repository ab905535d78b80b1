package add

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/weatherboard/internal/app"
	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/view"
)

// Command creates the add command that adds a city to the persisted list.
func Command(settings *conf.Settings) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "add <city>",
		Short: "Add a city to the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if _, err := a.Dashboard.Restore(ctx); err != nil {
				return err
			}
			record, err := a.Dashboard.AddCity(ctx, args[0], country)
			if err != nil {
				if banner := a.Dashboard.Snapshot().Banner; banner != "" {
					cmd.PrintErrln(banner)
				}
				return err
			}
			return view.RenderText(cmd.OutOrStdout(), view.Page{Cards: []view.Card{view.BuildCard(*record)}})
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "ISO 3166 country code to disambiguate the city")
	return cmd
}
