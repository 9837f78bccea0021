package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/services"
	"github.com/localnerve/resonance/internal/types"
)

// NewRecordCommand logs a resonance event directly, bypassing completions
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var userID, categoryID, day string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a resonance event for a user",
		Example: `  resonancectl record --user 6f1c... --category 0b4e... --day 2026-06-01
  resonancectl record --user 6f1c... --category 0b4e... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := types.ParseDay(day)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --day", err)
			}
			s, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.engine.Events.Record(cmd.Context(), userID, models.CategoryID(categoryID), d)
			if err != nil {
				return WrapExitError(ExitFailure, "record failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, result, func(tw *tabwriter.Writer) {
				status := "recorded"
				if !result.Inserted {
					status = "already recorded"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", status, result.Event.AxisSlug, result.Event.Day)
				if result.Aggregate != nil {
					fmt.Fprintf(tw, "count\t%d\n", result.Aggregate.CompletionCount)
					fmt.Fprintf(tw, "intensity\t%.2f\n", result.Aggregate.Intensity)
				}
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&categoryID, "category", "", "axis category id")
	cmd.Flags().StringVar(&day, "day", "", "day as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// NewCheckInCommand goes through the completion path so the event is
// propagated the same way the API does it.
func NewCheckInCommand(rootOpts *RootOptions) *cobra.Command {
	var userID, day string
	var categories []string

	cmd := &cobra.Command{
		Use:           "checkin",
		Short:         "Check in completions for a user",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := types.ParseDay(day)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --day", err)
			}
			items := make([]services.CheckInInput, 0, len(categories))
			for _, c := range categories {
				items = append(items, services.CheckInInput{CategoryID: models.CategoryID(c), Day: d})
			}

			s, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			results, err := s.engine.Completions.CheckInMany(cmd.Context(), userID, items)
			if err != nil {
				return WrapExitError(ExitFailure, "check-in failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, results, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "CATEGORY\tDAY\tCREATED")
				for _, r := range results {
					fmt.Fprintf(tw, "%s\t%s\t%t\n", r.CategoryID, r.Day, r.Created)
				}
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category id, repeatable")
	cmd.Flags().StringVar(&day, "day", "", "day as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
