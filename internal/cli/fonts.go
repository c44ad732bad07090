package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdfwatermark/pkg/fonts"
)

// fontsOpts holds the command-line flags for the fonts command.
type fontsOpts struct {
	system      bool   // also scan the system font directories
	customFonts string // folder of extra .ttf/.otf files
}

// fontsCommand creates the fonts command, which lists the names accepted
// by --text-font.
func (c *CLI) fontsCommand() *cobra.Command {
	var opts fontsOpts

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the fonts available for text watermarks",
		Long: `List the fonts available for text watermarks.

Names are matched case-insensitively. The 14 PDF core fonts need no font
file. Fonts in --custom-fonts-folder are named after their file without
extension and take precedence over system fonts of the same name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			registry, err := fonts.NewRegistry(opts.customFonts, logger)
			if err != nil {
				return err
			}

			var spinner *Spinner
			if opts.system && isTerminal(c.Err) {
				spinner = newSpinner(cmd.Context(), c.Err, "Scanning system fonts...")
				spinner.Start()
			}
			entries := registry.List(opts.system)
			if spinner != nil {
				spinner.Stop()
			}

			printFonts(c.Out, entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.system, "system", false, "include fonts installed on the system")
	cmd.Flags().StringVar(&opts.customFonts, "custom-fonts-folder", "", "folder with additional .ttf/.otf fonts")
	_ = cmd.MarkFlagDirname("custom-fonts-folder")

	return cmd
}

// printFonts writes the font table and a count per source.
func printFonts(w io.Writer, entries []fonts.Entry) {
	rows := make([][]string, len(entries))
	counts := make(map[fonts.Source]int)
	for i, e := range entries {
		rows[i] = []string{e.Name, e.Source.String(), e.Path}
		counts[e.Source]++
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Source", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		})

	fmt.Fprintln(w, t.Render())
	printInfo(w, "%d core, %d custom, %d system",
		counts[fonts.SourceCore], counts[fonts.SourceCustom], counts[fonts.SourceSystem])
}
