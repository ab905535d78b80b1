package remove

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tphakala/weatherboard/internal/app"
	"github.com/tphakala/weatherboard/internal/conf"
)

// Command creates the remove command that removes a city by id.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a city from the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid city id %q: %w", args[0], err)
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if _, err := a.Dashboard.Restore(ctx); err != nil {
				return err
			}
			if a.Dashboard.RemoveCity(ctx, id) {
				cmd.Printf("Removed city %d\n", id)
			} else {
				cmd.Printf("City %d is not on the dashboard\n", id)
			}
			return nil
		},
	}
}
