package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewardmaths/localbase/pkg/localbase"
	"github.com/rewardmaths/localbase/pkg/types"
)

func newSignInCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signin <username>",
		Short: "Sign in a player by username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				session, err := c.Auth.SignInByName(args[0])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, session)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", session.String("username"))
				return nil
			})
		},
	}
}

func newSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				if err := c.Auth.SignOut(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the active session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				session, err := c.Auth.CurrentSession()
				if err != nil {
					return err
				}
				if session == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
					return nil
				}
				if flags.jsonMode {
					return printJSON(cmd, session)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n",
					session.String("username"), session.String("user_id"))
				return nil
			})
		},
	}
}

// printJSON writes a record or record list as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// printRecords writes records as JSON or one summary line each.
func printRecords(cmd *cobra.Command, records []types.Record, line func(types.Record) string) error {
	if flags.jsonMode {
		return printJSON(cmd, records)
	}
	for _, rec := range records {
		fmt.Fprintln(cmd.OutOrStdout(), line(rec))
	}
	return nil
}
