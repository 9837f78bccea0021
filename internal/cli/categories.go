package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/localnerve/resonance/data"
)

// NewCategoriesCommand lists the active hexagon axes
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "categories",
		Short:         "List the hexagon axes in display order",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			axes, err := s.engine.Registry.ListAxes(cmd.Context(), nil)
			if err != nil {
				return WrapExitError(ExitFailure, "list categories failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, axes, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "POS\tSLUG\tNAME\tID")
				for _, c := range axes {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Position, c.Slug, c.DisplayName, c.CategoryID)
				}
			})
		},
	}
}

// NewSeedCommand fills an empty registry from a JSON file or the
// built-in six axes.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the category registry when it is empty",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := data.SeedCategories
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read seed file", err)
				}
				raw = b
			}

			s, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := s.engine.Registry.Seed(cmd.Context(), raw)
			if err != nil {
				return WrapExitError(ExitFailure, "seed failed", err)
			}
			return render(cmd.OutOrStdout(), rootOpts.Format, map[string]int{"created": created}, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "%d categories created\n", created)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "seed JSON file, defaults to the built-in axes")

	return cmd
}
