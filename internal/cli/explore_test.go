package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/core/row"
)

func newTestExplorer() exploreModel {
	return newExploreModel(matrix.Build(row.MustNew(11, 10, 2, 3, 7, 6, 8, 4, 5, 0, 1, 9)), &pitch.Flats, false)
}

func press(m exploreModel, keys ...tea.KeyMsg) (exploreModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(exploreModel)
	}
	return m, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExploreNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want matrix.Label
	}{
		{"start", nil, matrix.Label{Family: matrix.Prime, Transposition: 0}},
		{"down", []tea.KeyMsg{{Type: tea.KeyDown}}, matrix.Label{Family: matrix.Prime, Transposition: 1}},
		{"up wraps", []tea.KeyMsg{{Type: tea.KeyUp}}, matrix.Label{Family: matrix.Prime, Transposition: 11}},
		{"vim keys", []tea.KeyMsg{runeKey('j'), runeKey('j'), runeKey('k')}, matrix.Label{Family: matrix.Prime, Transposition: 1}},
		{"right", []tea.KeyMsg{{Type: tea.KeyRight}, runeKey('l')}, matrix.Label{Family: matrix.Retrograde, Transposition: 0}},
		{"left wraps", []tea.KeyMsg{{Type: tea.KeyLeft}}, matrix.Label{Family: matrix.RetrogradeInversion, Transposition: 0}},
		{"keeps transposition", []tea.KeyMsg{runeKey('j'), runeKey('j'), runeKey('h')}, matrix.Label{Family: matrix.RetrogradeInversion, Transposition: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(newTestExplorer(), tt.keys...)
			if got := m.Selected(); got != tt.want {
				t.Errorf("Selected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExploreQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := press(newTestExplorer(), k)
		if cmd == nil {
			t.Fatalf("%s: no command returned", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command does not quit", k)
		}
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplorer()
	view := m.View()
	for _, want := range []string{"Row [0 11 3 4 8 7 9 5 6 1 2 10]", "RI", "▸ P0", "[P0  1/48]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Eb") {
		t.Error("integers expected before toggling names")
	}

	m, _ = press(m, runeKey('p'), tea.KeyMsg{Type: tea.KeyDown})
	view = m.View()
	if !strings.Contains(view, "Eb") {
		t.Errorf("p should toggle pitch names:\n%s", view)
	}
	if !strings.Contains(view, "▸ P1") || !strings.Contains(view, "[P1  2/48]") {
		t.Errorf("selection not moved:\n%s", view)
	}
}

func TestExploreIgnoresOtherMessages(t *testing.T) {
	m := newTestExplorer()
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil || next.(exploreModel).Selected() != m.Selected() {
		t.Error("non-key messages should not change the model")
	}
}
