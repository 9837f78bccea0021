package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/localnerve/resonance/internal/types"
)

// NewHexagonCommand prints what a user's hexagon shows for a day
func NewHexagonCommand(rootOpts *RootOptions) *cobra.Command {
	var userID, day string

	cmd := &cobra.Command{
		Use:           "hexagon",
		Short:         "Show the resonance hexagon a user sees",
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

			hexagon, err := s.engine.Query.HexagonResonance(cmd.Context(), userID, d)
			if err != nil {
				return WrapExitError(ExitFailure, "hexagon failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, hexagon, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "day %s", hexagon.Day)
				if hexagon.Degraded {
					fmt.Fprint(tw, " (degraded)")
				}
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "AXIS\tRESONANCE\tCOMPLETED")
				for _, axis := range hexagon.Axes {
					fmt.Fprintf(tw, "%s\t%d\t%t\n", axis.AxisSlug, axis.ResonanceCount, axis.UserCompleted)
				}
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&day, "day", "", "day as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// NewConstellationCommand prints the community aggregates of a day
func NewConstellationCommand(rootOpts *RootOptions) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:           "constellation",
		Short:         "Show the community constellation of a day",
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

			rows, err := s.engine.Query.Constellation(cmd.Context(), d)
			if err != nil {
				return WrapExitError(ExitFailure, "constellation failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, rows, func(tw *tabwriter.Writer) {
				if len(rows) == 0 {
					fmt.Fprintln(tw, "No resonance recorded")
					return
				}
				fmt.Fprintln(tw, "AXIS\tCOUNT\tINTENSITY")
				for _, row := range rows {
					fmt.Fprintf(tw, "%s\t%d\t%.2f\n", row.AxisSlug, row.CompletionCount, row.Intensity)
				}
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day as YYYY-MM-DD, defaults to today")

	return cmd
}

// NewReconcileCommand re-derives a day's aggregates from the event log
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild a day's constellation from the event log",
		Long: `Recount every axis of the day from the resonance events and rewrite
the aggregate rows. Rows that drifted are listed; axes with no events are
zeroed.`,
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

			report, err := s.engine.Aggregator.Reconcile(cmd.Context(), d)
			if err != nil {
				return WrapExitError(ExitFailure, "reconcile failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, report, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "day %s: %d drifted\n", report.Day, report.Drifted)
				for _, axis := range report.Axes {
					if !axis.Drifted {
						continue
					}
					fmt.Fprintf(tw, "%s\t%d -> %d\t%.2f -> %.2f\n",
						axis.AxisSlug, axis.CountBefore, axis.CountAfter, axis.IntensityBefore, axis.IntensityAfter)
				}
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "day as YYYY-MM-DD, defaults to today")

	return cmd
}
