package matrix

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/errors"
)

var op24 = row.MustNew(11, 10, 2, 3, 7, 6, 8, 4, 5, 0, 1, 9)

func randomRows(n int) []row.Row {
	rng := rand.New(rand.NewPCG(1, 2))
	rows := []row.Row{op24, row.MustNew()}
	for range n {
		rows = append(rows, row.MustNew(rng.Perm(row.Size)...))
	}
	return rows
}

func TestBuildShape(t *testing.T) {
	for _, r := range randomRows(50) {
		m := Build(r)
		forms := m.Rows()
		require.Len(t, forms, 48)
		assert.Equal(t, 48, m.Len())

		for i, f := range forms {
			wantFamily := Family(i / row.Size)
			wantT := i % row.Size
			assert.Equal(t, wantFamily, f.Label.Family, "form %d of %v", i, r)
			assert.Equal(t, wantT, f.Label.Transposition, "form %d of %v", i, r)
			assert.True(t, f.Row.IsValid(), "form %s of %v", f.Label, r)
			assert.Equal(t, row.PitchClass(wantT), f.Row.First(), "form %s must start on its transposition", f.Label)
		}
	}
}

func TestBuildForms(t *testing.T) {
	m := Build(op24)
	zero := []int{0, 11, 3, 4, 8, 7, 9, 5, 6, 1, 2, 10}

	tests := []struct {
		label string
		want  []int
	}{
		{"P0", zero},
		{"P2", []int{2, 1, 5, 6, 10, 9, 11, 7, 8, 3, 4, 0}},
		{"I0", []int{0, 1, 9, 8, 4, 5, 3, 7, 6, 11, 10, 2}},
		{"R0", []int{0, 4, 3, 8, 7, 11, 9, 10, 6, 5, 1, 2}},
		{"R10", []int{10, 2, 1, 6, 5, 9, 7, 8, 4, 3, 11, 0}},
		{"RI2", []int{2, 10, 11, 6, 7, 3, 5, 4, 8, 9, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			l, err := ParseLabel(tt.label)
			require.NoError(t, err)
			f, ok := m.Form(l)
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Row.Values())
		})
	}
}

func TestBuildIgnoresTransposition(t *testing.T) {
	for _, r := range randomRows(10) {
		assert.Equal(t, Build(r).Rows(), Build(r.Transpose(7)).Rows())
	}
}

func TestBuildSource(t *testing.T) {
	m := Build(op24)
	assert.Equal(t, op24.Zero(), m.Source())
}

func TestRowsReturnsCopy(t *testing.T) {
	m := Build(op24)
	forms := m.Rows()
	forms[0].Row = row.MustNew(5)
	again := m.Rows()
	assert.Equal(t, op24.Zero(), again[0].Row)
}

func TestFamily(t *testing.T) {
	m := Build(op24)
	for _, f := range Families() {
		forms := m.Family(f)
		require.Len(t, forms, 12)
		for i, form := range forms {
			assert.Equal(t, Label{Family: f, Transposition: i}, form.Label)
		}
	}
	assert.Nil(t, m.Family(Family(7)))
}

func TestFormOutOfRange(t *testing.T) {
	m := Build(op24)
	_, ok := m.Form(Label{Family: Prime, Transposition: 12})
	assert.False(t, ok)
	_, ok = m.Form(Label{Family: Family(4), Transposition: 0})
	assert.False(t, ok)
}

func TestFamilyString(t *testing.T) {
	assert.Equal(t, "P", Prime.String())
	assert.Equal(t, "I", Inversion.String())
	assert.Equal(t, "R", Retrograde.String())
	assert.Equal(t, "RI", RetrogradeInversion.String())
	assert.Equal(t, "Family(9)", Family(9).String())
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input   string
		want    Label
		wantErr bool
	}{
		{"P0", Label{Prime, 0}, false},
		{"i5", Label{Inversion, 5}, false},
		{"R11", Label{Retrograde, 11}, false},
		{"ri3", Label{RetrogradeInversion, 3}, false},
		{" RI10 ", Label{RetrogradeInversion, 10}, false},

		{"", Label{}, true},
		{"P", Label{}, true},
		{"5", Label{}, true},
		{"X3", Label{}, true},
		{"P12", Label{}, true},
		{"P-1", Label{}, true},
		{"IR2", Label{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLabel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidLabel), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Label {
	t.Helper()
	l, err := ParseLabel(s)
	require.NoError(t, err)
	return l
}

func TestSquare(t *testing.T) {
	g := Square(op24)

	assert.Equal(t, []int{0, 11, 3, 4, 8, 7, 9, 5, 6, 1, 2, 10}, g.Row(0).Values())
	assert.Equal(t, []int{0, 1, 9, 8, 4, 5, 3, 7, 6, 11, 10, 2}, g.Column(0).Values())

	for k := range row.Size {
		assert.Equal(t, row.PitchClass(0), g.Cells[k][k], "diagonal at %d", k)
	}
}

func TestSquareFromUnzeroedRow(t *testing.T) {
	// Row k of the square is the raw row transposed by the k-th pitch
	// class of its inversion.
	for _, r := range randomRows(20) {
		g := Square(r)
		inv := r.Inversion()
		for k := range row.Size {
			assert.Equal(t, r.Transpose(int(inv.At(k))), g.Row(k), "row %d of %v", k, r)
		}
	}
}

func TestSquareLabelsAgreeWithBuild(t *testing.T) {
	for _, r := range randomRows(20) {
		g := Square(r)
		m := Build(r)

		rowLabels := g.RowLabels()
		retroLabels := g.RetrogradeLabels()
		colLabels := g.ColumnLabels()
		riLabels := g.RetrogradeInversionLabels()

		for k := range row.Size {
			p, _ := m.Form(rowLabels[k])
			assert.Equal(t, p.Row, g.Row(k), "P row %d", k)

			rf, _ := m.Form(retroLabels[k])
			assert.Equal(t, rf.Row, g.Row(k).Retrograde(), "R row %d", k)

			i, _ := m.Form(colLabels[k])
			assert.Equal(t, i.Row, g.Column(k), "I column %d", k)

			ri, _ := m.Form(riLabels[k])
			assert.Equal(t, ri.Row, g.Column(k).Retrograde(), "RI column %d", k)
		}
	}
}

func TestFamilyApply(t *testing.T) {
	z := op24.Zero()
	assert.Equal(t, z, Prime.Apply(z))
	assert.Equal(t, z.Inversion(), Inversion.Apply(z))
	assert.Equal(t, z.Retrograde(), Retrograde.Apply(z))
	assert.Equal(t, z.RetrogradeInversion(), RetrogradeInversion.Apply(z))
}
