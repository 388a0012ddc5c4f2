package row

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/errors"
)

// Size is the number of pitch classes in a row.
const Size = 12

// PitchClass is one of the twelve equal-tempered pitch classes, 0 through 11.
type PitchClass int

// Valid reports whether pc is in [0,11].
func (pc PitchClass) Valid() bool {
	return pc >= 0 && pc < Size
}

// Mod reduces any integer into [0,11], negative values included.
func Mod(n int) PitchClass {
	return PitchClass(((n % Size) + Size) % Size)
}

// Row is one statement of a twelve-tone row: an ordered permutation of the
// twelve pitch classes.
//
// Row is a comparable value type. Every constructor validates its input, so
// any Row obtained from this package satisfies the permutation invariant.
// The zero value is not a valid row; see [Row.IsValid].
type Row struct {
	pcs [Size]PitchClass
}

// Complete builds a Row from an ordered prefix of distinct pitch classes.
//
// The given values are kept in order and the pitch classes missing from them
// are appended in ascending order, so
//
//	Complete([]int{10, 9, 0, 11, 3, 4, 1, 2})
//
// yields [10 9 0 11 3 4 1 2 5 6 7 8]. A nil or empty prefix yields the
// chromatic row. Complete fails with INVALID_ROW_INPUT when the prefix has
// more than twelve elements, contains a value outside [0,11], or repeats a
// value.
func Complete(partial []int) (Row, error) {
	if len(partial) > Size {
		return Row{}, errors.New(errors.ErrCodeInvalidRowInput,
			"row has %d elements, at most %d allowed", len(partial), Size)
	}

	var (
		r    Row
		seen [Size]bool
		bad  []string
	)
	for i, v := range partial {
		switch {
		case v < 0 || v >= Size:
			bad = append(bad, fmt.Sprintf("%d at position %d is out of range [0,11]", v, i))
		case seen[v]:
			bad = append(bad, fmt.Sprintf("%d at position %d is a duplicate", v, i))
		default:
			seen[v] = true
			r.pcs[i] = PitchClass(v)
		}
	}
	if len(bad) > 0 {
		return Row{}, errors.New(errors.ErrCodeInvalidRowInput, "invalid row: %s", strings.Join(bad, "; "))
	}

	n := len(partial)
	for pc := range Size {
		if !seen[pc] {
			r.pcs[n] = PitchClass(pc)
			n++
		}
	}
	return r, nil
}

// New builds a Row from its arguments; see [Complete].
func New(values ...int) (Row, error) {
	return Complete(values)
}

// MustNew is like [New] but panics on invalid input.
// It is intended for constants and tests.
func MustNew(values ...int) Row {
	r, err := Complete(values)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse reads a row from text. Tokens are separated by commas and/or
// whitespace; each token is an integer or a pitch name such as "Bb" or "F#"
// (see [pitch.ParseName]). Missing pitch classes are completed as in
// [Complete].
func Parse(s string) (Row, error) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	values := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if n, err := strconv.Atoi(tok); err == nil {
			values = append(values, n)
			continue
		}
		pc, err := pitch.ParseName(tok)
		if err != nil {
			return Row{}, errors.Wrap(errors.ErrCodeInvalidRowInput, err, "cannot parse row %q", s)
		}
		values = append(values, pc)
	}
	return Complete(values)
}

// IsValid reports whether r is a permutation of the twelve pitch classes.
func (r Row) IsValid() bool {
	var seen [Size]bool
	for _, pc := range r.pcs {
		if !pc.Valid() || seen[pc] {
			return false
		}
		seen[pc] = true
	}
	return true
}

// Prime returns the row itself, so the untransformed form can be handled
// like every other transformation.
func (r Row) Prime() Row {
	return r
}

// Inversion returns the row with every pitch class replaced by its
// complement mod 12. Pitch class 0 maps to itself.
func (r Row) Inversion() Row {
	var out Row
	for i, pc := range r.pcs {
		out.pcs[i] = Mod(Size - int(pc))
	}
	return out
}

// Retrograde returns the row in reverse order.
func (r Row) Retrograde() Row {
	var out Row
	for i, pc := range r.pcs {
		out.pcs[Size-1-i] = pc
	}
	return out
}

// RetrogradeInversion returns the inversion of the retrograde.
func (r Row) RetrogradeInversion() Row {
	return r.Retrograde().Inversion()
}

// Transpose shifts every pitch class by distance, which may be any integer.
func (r Row) Transpose(distance int) Row {
	var out Row
	for i, pc := range r.pcs {
		out.pcs[i] = Mod(int(pc) + distance)
	}
	return out
}

// Zero returns the row transposed so that it starts on pitch class 0.
func (r Row) Zero() Row {
	return r.Transpose(-int(r.pcs[0]))
}

// Normalize replaces the row held by the caller with its zero form.
// The previous Row value is not modified; other copies of it are unaffected.
func Normalize(r *Row) {
	*r = r.Zero()
}

// At returns the pitch class at position i. It panics if i is outside [0,11].
func (r Row) At(i int) PitchClass {
	return r.pcs[i]
}

// First returns the opening pitch class.
func (r Row) First() PitchClass {
	return r.pcs[0]
}

// Len always returns [Size].
func (r Row) Len() int {
	return Size
}

// Values returns the row as a fresh slice of ints owned by the caller.
func (r Row) Values() []int {
	out := make([]int, Size)
	for i, pc := range r.pcs {
		out[i] = int(pc)
	}
	return out
}

// Array returns a copy of the underlying pitch classes.
func (r Row) Array() [Size]PitchClass {
	return r.pcs
}

// All iterates over positions and pitch classes in order.
func (r Row) All() iter.Seq2[int, PitchClass] {
	return func(yield func(int, PitchClass) bool) {
		for i, pc := range r.pcs {
			if !yield(i, pc) {
				return
			}
		}
	}
}

// IndexOf returns the position of pc in the row, or -1 if pc is invalid.
func (r Row) IndexOf(pc PitchClass) int {
	return slices.Index(r.pcs[:], pc)
}

// Equal reports whether both rows hold the same sequence.
func (r Row) Equal(other Row) bool {
	return r == other
}

// String formats the row as "[0 11 3 4 ...]".
func (r Row) String() string {
	return fmt.Sprint(r.Values())
}

// MarshalJSON encodes the row as an array of twelve integers.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Values())
}

// UnmarshalJSON decodes an integer array, completing and validating it
// as [Complete] does.
func (r *Row) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRowInput, err, "row must be an array of integers")
	}
	parsed, err := Complete(values)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
