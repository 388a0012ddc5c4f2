package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/core/row"
)

// formsCommand lists the labeled forms as a table.
func (c *CLI) formsCommand() *cobra.Command {
	var (
		display displayFlags
		family  string
	)

	cmd := &cobra.Command{
		Use:   "forms <row>...",
		Short: "List the 48 labeled forms of a row",
		Example: `  webern forms 11 10 2 3 7 6 8 4 5 0 1 9
  webern forms --family RI --pitches 0 11 3 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rowFromArgs(args)
			if err != nil {
				return err
			}
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			display.apply(cmd.Flags(), &opts)
			label, err := opts.Labeler()
			if err != nil {
				return err
			}

			m := matrix.Build(r)
			forms := m.Rows()
			if family != "" {
				f, err := matrix.ParseFamily(family)
				if err != nil {
					return err
				}
				forms = m.Family(f)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formsTable(forms, label))
			return nil
		},
	}

	display.register(cmd.Flags())
	cmd.Flags().StringVar(&family, "family", "", "only list one family: P, I, R or RI")
	return cmd
}

// formsTable renders forms one per row, with the order position as header.
func formsTable(forms []matrix.Form, label pitch.Labeler) string {
	headers := make([]string, 0, row.Size+1)
	headers = append(headers, "Form")
	for i := range row.Size {
		headers = append(headers, strconv.Itoa(i+1))
	}

	rows := make([][]string, len(forms))
	for i, f := range forms {
		cells := make([]string, 0, row.Size+1)
		cells = append(cells, f.Label.String())
		for _, pc := range f.Row.All() {
			cells = append(cells, label(int(pc)))
		}
		rows[i] = cells
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	labelStyle := StyleHighlight.Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(r, col int) lipgloss.Style {
			switch {
			case r == -1: // header
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
