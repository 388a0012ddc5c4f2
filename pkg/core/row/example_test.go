package row_test

import (
	"fmt"

	"github.com/matzehuels/webern/pkg/core/row"
)

func ExampleComplete() {
	// String Quartet, Op. 28: only the first eight notes are given.
	r, err := row.Complete([]int{10, 9, 0, 11, 3, 4, 1, 2})
	if err != nil {
		panic(err)
	}
	fmt.Println(r)
	fmt.Println(r.Zero())
	// Output:
	// [10 9 0 11 3 4 1 2 5 6 7 8]
	// [0 11 2 1 5 6 3 4 7 8 9 10]
}

func ExampleRow_Inversion() {
	// Concerto for Nine Instruments, Op. 24.
	r := row.MustNew(11, 10, 2, 3, 7, 6, 8, 4, 5, 0, 1, 9).Zero()
	fmt.Println(r.Inversion())
	fmt.Println(r.Retrograde())
	fmt.Println(r.RetrogradeInversion())
	fmt.Println(r.Transpose(2))
	// Output:
	// [0 1 9 8 4 5 3 7 6 11 10 2]
	// [10 2 1 6 5 9 7 8 4 3 11 0]
	// [2 10 11 6 7 3 5 4 8 9 1 0]
	// [2 1 5 6 10 9 11 7 8 3 4 0]
}

func ExampleParse() {
	r, err := row.Parse("B Bb D Eb G F# Ab E F C C# A")
	if err != nil {
		panic(err)
	}
	fmt.Println(r)
	// Output:
	// [11 10 2 3 7 6 8 4 5 0 1 9]
}
