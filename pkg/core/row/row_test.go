package row

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/webern/pkg/errors"
)

// Concerto for Nine Instruments, Op. 24.
var op24 = []int{11, 10, 2, 3, 7, 6, 8, 4, 5, 0, 1, 9}

// String Quartet, Op. 28, first eight notes (actual ending: 6, 5, 8, 7).
var op28 = []int{10, 9, 0, 11, 3, 4, 1, 2}

// sampleRows returns a deterministic set of valid rows for property checks.
func sampleRows(t *testing.T) []Row {
	t.Helper()
	rows := []Row{MustNew(op24...), MustNew(op28...), MustNew()}
	rng := rand.New(rand.NewPCG(24, 28))
	for range 200 {
		perm := rng.Perm(Size)
		r, err := Complete(perm)
		require.NoError(t, err)
		rows = append(rows, r)
	}
	return rows
}

func TestCompleteRow(t *testing.T) {
	r, err := Complete(op24)
	require.NoError(t, err)
	assert.Equal(t, op24, r.Values())
	assert.True(t, r.IsValid())
}

func TestCompletePartialRow(t *testing.T) {
	r, err := Complete(op28)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 9, 0, 11, 3, 4, 1, 2, 5, 6, 7, 8}, r.Values())
}

func TestCompleteEmpty(t *testing.T) {
	r, err := Complete(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, r.Values())
}

func TestCompleteElevenElements(t *testing.T) {
	r, err := New(11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, r.Values())
}

func TestCompleteInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		mention string
	}{
		{"duplicate", []int{0, 0, 1}, "duplicate"},
		{"above range", []int{12}, "12"},
		{"negative", []int{3, -1}, "-1"},
		{"thirteen elements", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 0, 1}, "13"},
		{"twelve with duplicate", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Complete(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidRowInput), "got %v", err)
			assert.Contains(t, err.Error(), tt.mention)
		})
	}
}

func TestCompleteDoesNotAliasInput(t *testing.T) {
	input := []int{3, 2, 1}
	r, err := Complete(input)
	require.NoError(t, err)
	input[0] = 9
	assert.Equal(t, PitchClass(3), r.First())
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew(1, 1) })
}

func TestZero(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		assert.Equal(t, []int{0, 11, 3, 4, 8, 7, 9, 5, 6, 1, 2, 10}, MustNew(op24...).Zero().Values())
	})
	t.Run("incomplete row", func(t *testing.T) {
		assert.Equal(t, []int{0, 11, 2, 1, 5, 6, 3, 4, 7, 8, 9, 10}, MustNew(op28...).Zero().Values())
	})
}

func TestTransformationsCompleteRow(t *testing.T) {
	r := MustNew(op24...)
	Normalize(&r)

	assert.Equal(t, []int{0, 1, 9, 8, 4, 5, 3, 7, 6, 11, 10, 2}, r.Inversion().Values())
	assert.Equal(t, []int{10, 2, 1, 6, 5, 9, 7, 8, 4, 3, 11, 0}, r.Retrograde().Values())
	assert.Equal(t, []int{2, 10, 11, 6, 7, 3, 5, 4, 8, 9, 1, 0}, r.RetrogradeInversion().Values())
	assert.Equal(t, []int{2, 1, 5, 6, 10, 9, 11, 7, 8, 3, 4, 0}, r.Transpose(2).Values())
}

func TestTransformationsIncompleteRow(t *testing.T) {
	r := MustNew(op28...)
	Normalize(&r)

	assert.Equal(t, []int{0, 1, 10, 11, 7, 6, 9, 8, 5, 4, 3, 2}, r.Inversion().Values())
	assert.Equal(t, []int{10, 9, 8, 7, 4, 3, 6, 5, 1, 2, 11, 0}, r.Retrograde().Values())
	assert.Equal(t, []int{2, 3, 4, 5, 8, 9, 6, 7, 11, 10, 1, 0}, r.RetrogradeInversion().Values())
	assert.Equal(t, []int{2, 1, 4, 3, 7, 8, 5, 6, 9, 10, 11, 0}, r.Transpose(2).Values())
}

func TestNormalizeLeavesOtherCopies(t *testing.T) {
	original := MustNew(op24...)
	held := original
	Normalize(&held)

	assert.Equal(t, op24, original.Values())
	assert.Equal(t, PitchClass(0), held.First())
}

func TestLaws(t *testing.T) {
	for _, r := range sampleRows(t) {
		assert.Equal(t, r, r.Prime(), "prime %v", r)
		assert.Equal(t, r, r.Inversion().Inversion(), "double inversion %v", r)
		assert.Equal(t, r, r.Retrograde().Retrograde(), "double retrograde %v", r)
		assert.Equal(t, r, r.Transpose(0), "transpose 0 %v", r)
		assert.Equal(t, r.Zero(), r.Zero().Zero(), "zero idempotent %v", r)
		assert.Equal(t, r.Retrograde().Inversion(), r.RetrogradeInversion(), "RI %v", r)
		assert.Equal(t, PitchClass(0), r.Zero().First(), "zero starts on 0 %v", r)

		for _, op := range []Row{r.Inversion(), r.Retrograde(), r.RetrogradeInversion(), r.Transpose(5), r.Zero()} {
			assert.True(t, op.IsValid(), "transformation of %v produced %v", r, op)
		}
	}
}

func TestTransposeComposition(t *testing.T) {
	distances := []int{-25, -13, -12, -1, 0, 1, 5, 11, 12, 13, 100}
	for _, r := range sampleRows(t)[:10] {
		for _, a := range distances {
			for _, b := range distances {
				want := r.Transpose(int(Mod(a + b)))
				assert.Equal(t, want, r.Transpose(a).Transpose(b), "r=%v a=%d b=%d", r, a, b)
			}
		}
	}
}

func TestTransposeNegative(t *testing.T) {
	r := MustNew()
	assert.Equal(t, []int{11, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, r.Transpose(-1).Values())
	assert.Equal(t, r.Transpose(-1), r.Transpose(11))
	assert.Equal(t, r.Transpose(-1), r.Transpose(-13))
}

func TestMod(t *testing.T) {
	tests := []struct {
		in   int
		want PitchClass
	}{
		{0, 0}, {11, 11}, {12, 0}, {13, 1}, {-1, 11}, {-12, 0}, {-13, 11}, {144, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mod(tt.in), "Mod(%d)", tt.in)
	}
}

func TestZeroValueIsInvalid(t *testing.T) {
	var r Row
	assert.False(t, r.IsValid())
}

func TestAccessors(t *testing.T) {
	r := MustNew(op24...)

	assert.Equal(t, 12, r.Len())
	assert.Equal(t, PitchClass(11), r.First())
	assert.Equal(t, PitchClass(9), r.At(11))
	assert.Equal(t, 9, r.IndexOf(0))
	assert.Equal(t, "[11 10 2 3 7 6 8 4 5 0 1 9]", r.String())

	values := r.Values()
	values[0] = 0
	assert.Equal(t, PitchClass(11), r.First(), "Values must return a copy")

	var collected []int
	for i, pc := range r.All() {
		assert.Equal(t, r.At(i), pc)
		collected = append(collected, int(pc))
	}
	assert.Equal(t, op24, collected)

	for i := range r.All() {
		if i == 2 {
			break
		}
	}
}

func TestEqual(t *testing.T) {
	a := MustNew(op24...)
	b := MustNew(op24...)
	assert.True(t, a.Equal(b))
	assert.True(t, a == b)
	assert.False(t, a.Equal(a.Zero()))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"commas", "11,10,2,3,7,6,8,4,5,0,1,9", op24},
		{"spaces", "11 10 2 3 7 6 8 4 5 0 1 9", op24},
		{"mixed separators", " 11, 10;2\t3 7 6 8 4 5 0 1 9\n", op24},
		{"names", "B Bb D Eb G F# Ab E F C C# A", op24},
		{"lilypond spellings", "b bf d ef g fs af e f c cs a", op24},
		{"partial names", "Bb A C B Eb E C# D", []int{10, 9, 0, 11, 3, 4, 1, 2, 5, 6, 7, 8}},
		{"empty", "", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Values())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"0 0 1", "12", "H", "C x", "C C"} {
		_, err := Parse(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidRowInput), "Parse(%q) = %v", input, err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := MustNew(op28...)
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `[10,9,0,11,3,4,1,2,5,6,7,8]`, string(data))

	var decoded Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)
}

func TestUnmarshalJSONValidates(t *testing.T) {
	var r Row
	err := json.Unmarshal([]byte(`[1,1]`), &r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRowInput))

	err = json.Unmarshal([]byte(`"C D E"`), &r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRowInput))

	require.NoError(t, json.Unmarshal([]byte(`[10,9]`), &r))
	assert.Equal(t, []int{10, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 11}, r.Values())
}
