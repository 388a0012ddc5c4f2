package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/core/row"
)

// Explorer styles
var (
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	exploreDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	exploreTabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(colorGray)
	exploreActiveTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorCyan).Underline(true)
)

// exploreCommand opens the interactive form browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var display displayFlags

	cmd := &cobra.Command{
		Use:   "explore <row>...",
		Short: "Browse the forms of a row interactively",
		Long: `Browse the 48 forms of a row in the terminal.

Keys: ↑/↓ select a transposition, ←/→ switch family,
p toggles pitch names, q quits.`,
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
			names, err := pitch.LookupNames(opts.Names)
			if err != nil {
				return err
			}

			model := newExploreModel(matrix.Build(r), names, opts.ShowPitches)
			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	display.register(cmd.Flags())
	return cmd
}

// =============================================================================
// exploreModel - Interactive form browser
// =============================================================================

// exploreModel is the bubbletea model behind `webern explore`.
type exploreModel struct {
	matrix    *matrix.Matrix
	names     *pitch.Names
	family    matrix.Family
	cursor    int // transposition of the selected form
	showNames bool
}

func newExploreModel(m *matrix.Matrix, names *pitch.Names, showNames bool) exploreModel {
	return exploreModel{matrix: m, names: names, showNames: showNames}
}

// Selected returns the label of the highlighted form.
func (m exploreModel) Selected() matrix.Label {
	return matrix.Label{Family: m.family, Transposition: m.cursor}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor + row.Size - 1) % row.Size
	case "down", "j":
		m.cursor = (m.cursor + 1) % row.Size
	case "left", "h":
		m.family = (m.family + matrix.NumFamilies - 1) % matrix.NumFamilies
	case "right", "l", "tab":
		m.family = (m.family + 1) % matrix.NumFamilies
	case "p":
		m.showNames = !m.showNames
	}
	return m, nil
}

func (m exploreModel) label() pitch.Labeler {
	return pitch.LabelerFor(m.showNames, m.names)
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Row " + m.matrix.Source().String()))
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("↑/↓ form  ←/→ family  p names  q quit"))
	b.WriteString("\n\n")

	tabs := make([]string, 0, matrix.NumFamilies)
	for _, f := range matrix.Families() {
		style := exploreTabStyle
		if f == m.family {
			style = exploreActiveTab
		}
		tabs = append(tabs, style.Render(f.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	label := m.label()
	for _, form := range m.matrix.Family(m.family) {
		cells := make([]string, 0, row.Size)
		for _, pc := range form.Row.Values() {
			cells = append(cells, fmt.Sprintf("%3s", label(pc)))
		}
		line := fmt.Sprintf("%-5s%s", form.Label, strings.Join(cells, ""))
		if form.Label.Transposition == m.cursor {
			b.WriteString(exploreSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(exploreNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render(fmt.Sprintf("  [%s  %d/%d]", m.Selected(), int(m.family)*row.Size+m.cursor+1, matrix.Size)))
	b.WriteString("\n")
	return b.String()
}
