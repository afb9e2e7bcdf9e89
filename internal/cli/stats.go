package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewardmaths/localbase/pkg/localbase"
	"github.com/rewardmaths/localbase/pkg/types"
)

func newUsersCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List per-player aggregate statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				q := c.From(localbase.ViewUserStats).Select()
				if limit > 0 {
					q = q.Limit(limit)
				}
				rows, err := q.Execute()
				if err != nil {
					return err
				}
				return printRecords(cmd, rows, func(r types.Record) string {
					return fmt.Sprintf("%-12s level %-3d sessions %-4d answered %-5d accuracy %d%%",
						r.String("username"), r.Int("current_level"),
						r.Int("total_sessions"), r.Int("total_questions_answered"),
						r.Int("overall_accuracy"))
				})
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return")
	return cmd
}

func newSessionsCmd() *cobra.Command {
	var userID, from, to string
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List finalized play sessions with derived accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				q := c.From(localbase.ViewPerformanceAnalysis).Select()
				if userID != "" {
					q = q.Eq("user_id", userID)
				}
				if from != "" {
					q = q.Gte("started_at", from)
				}
				if to != "" {
					q = q.Lte("started_at", to)
				}
				if limit > 0 {
					q = q.Limit(limit)
				}
				rows, err := q.Execute()
				if err != nil {
					return err
				}
				return printRecords(cmd, rows, func(r types.Record) string {
					return fmt.Sprintf("%s  %-12s level %-3d %d/%d (%d%%)",
						r.String("started_at"), r.String("username"),
						r.Int("level_number"), r.Int("correct_answers"),
						r.Int("total_questions"), r.Int("accuracy_percentage"))
				})
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "restrict to one player id")
	cmd.Flags().StringVar(&from, "from", "", "start of date range (RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "end of date range (RFC3339)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return")
	return cmd
}

func newDailyCmd() *cobra.Command {
	var userID string
	var limit int
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "List per-player daily performance rollups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *localbase.Client) error {
				q := c.From(localbase.ViewDailyPerformance).Select()
				if userID != "" {
					q = q.Eq("user_id", userID)
				}
				if limit > 0 {
					q = q.Limit(limit)
				}
				rows, err := q.Execute()
				if err != nil {
					return err
				}
				return printRecords(cmd, rows, func(r types.Record) string {
					return fmt.Sprintf("%s  %-12s sessions %-3d %d/%d (%d%%)",
						r.String("play_date"), r.String("username"),
						r.Int("sessions_count"), r.Int("total_correct"),
						r.Int("total_questions"), r.Int("accuracy_percentage"))
				})
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "restrict to one player id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return")
	return cmd
}
