package sink

import (
	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/row"
)

// CellSize is the edge length of one grid cell in points, matching the
// 42pt table cells of the printed matrix.
const CellSize = 42.0

// gridLayout places the serial square on a page. With labels enabled a
// one-cell margin on each side carries the form names: P on the left,
// R on the right, I on top and RI below.
type gridLayout struct {
	cell   float64
	margin float64
	labels bool
}

func newGridLayout(cell float64, labels bool) gridLayout {
	l := gridLayout{cell: cell, labels: labels}
	if labels {
		l.margin = cell
	}
	return l
}

// size returns the total width and height.
func (l gridLayout) size() (w, h float64) {
	side := 2*l.margin + row.Size*l.cell
	return side, side
}

// cellOrigin returns the top-left corner of cell (k, j).
func (l gridLayout) cellOrigin(k, j int) (x, y float64) {
	return l.margin + float64(j)*l.cell, l.margin + float64(k)*l.cell
}

// marginLabel is one form name drawn outside the grid.
type marginLabel struct {
	text   string
	cx, cy float64
}

// marginLabels returns the 48 form names around the grid, or nil when
// labels are disabled.
func (l gridLayout) marginLabels(g matrix.Grid) []marginLabel {
	if !l.labels {
		return nil
	}
	var (
		half   = l.cell / 2
		far    = l.margin + row.Size*l.cell + half
		out    = make([]marginLabel, 0, matrix.Size)
		left   = g.RowLabels()
		right  = g.RetrogradeLabels()
		top    = g.ColumnLabels()
		bottom = g.RetrogradeInversionLabels()
	)
	for i := range row.Size {
		along := l.margin + float64(i)*l.cell + half
		out = append(out,
			marginLabel{left[i].String(), half, along},
			marginLabel{right[i].String(), far, along},
			marginLabel{top[i].String(), along, half},
			marginLabel{bottom[i].String(), along, far},
		)
	}
	return out
}
