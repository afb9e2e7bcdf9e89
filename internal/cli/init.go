package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewardmaths/localbase/pkg/localbase"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the local database and seed first-run defaults",
		Long: "Creates the database file and tables if missing, seeds the default\n" +
			"level ladder and player profiles, and leaves existing data alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				if err := c.Seed(); err != nil {
					return fmt.Errorf("seed defaults: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "localbase initialized")
				return nil
			})
		},
	}
}
