package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chartwell/internal/chart"
	"github.com/zjrosen/chartwell/internal/charts"
)

func newPaletteCmd() *cobra.Command {
	var (
		theme   string
		offset  int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print a theme palette, optionally drifted",
		Long: `Print the colors of a chart theme in the order a chart would use them.

--offset rotates the palette the same way the dashboard does when several
charts are open: with an offset of 3 the fourth color comes first.

Examples:
  chartwell palette
  chartwell palette --theme vintage --offset 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			t, err := chart.LookupTheme(theme)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "COLOR", "SWATCH"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")

			for i, color := range charts.ComputeDrift(t.Palette, offset) {
				swatch := lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("    ")
				table.Append([]string{strconv.Itoa(i + 1), color, swatch})
			}
			table.Render()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %s\n", t.Name, t.Description)
			return err
		},
	}

	cmd.Flags().StringVarP(&theme, "theme", "t", chart.DefaultTheme, "theme name")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "rotate the palette left by this many positions")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "print without color swatches")
	return cmd
}
