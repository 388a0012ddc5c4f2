package matrix_test

import (
	"fmt"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/row"
)

func ExampleBuild() {
	r := row.MustNew(11, 10, 2, 3, 7, 6, 8, 4, 5, 0, 1, 9)
	m := matrix.Build(r)

	for _, f := range m.Rows()[:2] {
		fmt.Println(f.Label, f.Row)
	}
	ri, _ := m.Form(matrix.Label{Family: matrix.RetrogradeInversion, Transposition: 2})
	fmt.Println(ri.Label, ri.Row)
	// Output:
	// P0 [0 11 3 4 8 7 9 5 6 1 2 10]
	// P1 [1 0 4 5 9 8 10 6 7 2 3 11]
	// RI2 [2 10 11 6 7 3 5 4 8 9 1 0]
}

func ExampleSquare() {
	g := matrix.Square(row.MustNew(11, 10, 2, 3, 7, 6, 8, 4, 5, 0, 1, 9))

	fmt.Println(g.RowLabels()[1], g.Row(1))
	fmt.Println(g.ColumnLabels()[1], g.Column(1))
	// Output:
	// P1 [1 0 4 5 9 8 10 6 7 2 3 11]
	// I11 [11 0 8 7 3 4 2 6 5 10 9 1]
}
