package matrix

import "github.com/matzehuels/webern/pkg/core/row"

// Grid is the classic 12×12 serial square.
//
// Row k of the grid is the zero form of the source row transposed to the
// k-th pitch class of its inversion, so the top-left cell is always 0 and
// the main diagonal is constant. Reading the grid
//   - left to right yields the P forms ([Grid.RowLabels]),
//   - top to bottom yields the I forms ([Grid.ColumnLabels]),
//   - right to left yields the R forms ([Grid.RetrogradeLabels]),
//   - bottom to top yields the RI forms ([Grid.RetrogradeInversionLabels]).
//
// Labels use the same convention as [Build]: a form is named after its
// first pitch class.
type Grid struct {
	Cells [row.Size][row.Size]row.PitchClass
}

// Square computes the serial square of r. The result does not depend on
// the transposition level of r.
func Square(r row.Row) Grid {
	z := r.Zero()
	inv := z.Inversion()

	var g Grid
	for k := range row.Size {
		g.Cells[k] = z.Transpose(int(inv.At(k))).Array()
	}
	return g
}

// Row returns grid row k as a Row. It panics if k is outside [0,11].
func (g Grid) Row(k int) row.Row {
	return rowFrom(func(i int) row.PitchClass { return g.Cells[k][i] })
}

// Column returns grid column j, read top to bottom.
func (g Grid) Column(j int) row.Row {
	return rowFrom(func(i int) row.PitchClass { return g.Cells[i][j] })
}

// RowLabels names each grid row read left to right (P forms).
func (g Grid) RowLabels() [row.Size]Label {
	var out [row.Size]Label
	for k := range row.Size {
		out[k] = Label{Family: Prime, Transposition: int(g.Cells[k][0])}
	}
	return out
}

// ColumnLabels names each grid column read top to bottom (I forms).
func (g Grid) ColumnLabels() [row.Size]Label {
	var out [row.Size]Label
	for j := range row.Size {
		out[j] = Label{Family: Inversion, Transposition: int(g.Cells[0][j])}
	}
	return out
}

// RetrogradeLabels names each grid row read right to left (R forms).
func (g Grid) RetrogradeLabels() [row.Size]Label {
	var out [row.Size]Label
	for k := range row.Size {
		out[k] = Label{Family: Retrograde, Transposition: int(g.Cells[k][row.Size-1])}
	}
	return out
}

// RetrogradeInversionLabels names each grid column read bottom to top (RI forms).
func (g Grid) RetrogradeInversionLabels() [row.Size]Label {
	var out [row.Size]Label
	for j := range row.Size {
		out[j] = Label{Family: RetrogradeInversion, Transposition: int(g.Cells[row.Size-1][j])}
	}
	return out
}

// rowFrom assembles a Row from grid cells. Grid rows and columns are
// permutations by construction, so completion never fails.
func rowFrom(at func(i int) row.PitchClass) row.Row {
	values := make([]int, row.Size)
	for i := range values {
		values[i] = int(at(i))
	}
	return row.MustNew(values...)
}
