// Package matrix builds the pitch matrix of a twelve-tone row: the 48 row
// forms (prime, inversion, retrograde and retrograde-inversion, each at all
// twelve transpositions) that every renderer walks.
//
// [Build] produces the labeled forms in a fixed order, families P, I, R, RI
// and transpositions 0 through 11 within each family, so every output format
// sequences the same row identically. [Square] produces the classic 12×12
// serial square used by the grid renderers.
//
// Both are pure functions of their input row and keep no reference to it.
package matrix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/webern/pkg/core/row"
	"github.com/matzehuels/webern/pkg/errors"
)

// Family is one of the four serial transformation families.
type Family int

// The families in canonical order.
const (
	Prime Family = iota
	Inversion
	Retrograde
	RetrogradeInversion
)

// NumFamilies is the number of transformation families.
const NumFamilies = 4

var familyNames = [NumFamilies]string{"P", "I", "R", "RI"}

// Families returns the four families in canonical order.
func Families() []Family {
	return []Family{Prime, Inversion, Retrograde, RetrogradeInversion}
}

// String returns the conventional abbreviation: "P", "I", "R" or "RI".
func (f Family) String() string {
	if f < 0 || f >= NumFamilies {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// Apply returns the family's transformation of r.
func (f Family) Apply(r row.Row) row.Row {
	switch f {
	case Inversion:
		return r.Inversion()
	case Retrograde:
		return r.Retrograde()
	case RetrogradeInversion:
		return r.RetrogradeInversion()
	default:
		return r.Prime()
	}
}

// ParseFamily parses a family abbreviation, case-insensitively.
func ParseFamily(s string) (Family, error) {
	for i, name := range familyNames {
		if strings.EqualFold(s, name) {
			return Family(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidLabel, "unknown family %q (must be P, I, R or RI)", s)
}

// Label identifies a single row form, such as P0 or RI7.
type Label struct {
	Family        Family
	Transposition int
}

// String formats the label as family followed by transposition, e.g. "RI11".
func (l Label) String() string {
	return l.Family.String() + strconv.Itoa(l.Transposition)
}

// index returns the position of the label in the canonical ordering.
func (l Label) index() int {
	return int(l.Family)*row.Size + l.Transposition
}

// ParseLabel parses labels such as "P0", "i5" or "RI11".
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	split := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return Label{}, errors.New(errors.ErrCodeInvalidLabel, "invalid form label %q", s)
	}
	fam, err := ParseFamily(s[:split])
	if err != nil {
		return Label{}, err
	}
	t, err := strconv.Atoi(s[split:])
	if err != nil || t < 0 || t >= row.Size {
		return Label{}, errors.New(errors.ErrCodeInvalidLabel, "invalid transposition in label %q (must be 0-11)", s)
	}
	return Label{Family: fam, Transposition: t}, nil
}

// Form is one labeled row form of the matrix.
type Form struct {
	Label Label
	Row   row.Row
}

// Size is the number of forms in a matrix.
const Size = NumFamilies * row.Size

// Matrix holds the 48 labeled forms of a row.
type Matrix struct {
	source row.Row
	forms  [Size]Form
}

// Build computes the pitch matrix of r.
//
// For each family in P, I, R, RI order the family transformation of r is
// normalized to start on 0 and then transposed by 0 through 11, so the form
// labeled (f, t) always begins on pitch class t.
func Build(r row.Row) *Matrix {
	m := &Matrix{source: r.Zero()}
	for _, f := range Families() {
		base := f.Apply(r).Zero()
		for t := range row.Size {
			l := Label{Family: f, Transposition: t}
			m.forms[l.index()] = Form{Label: l, Row: base.Transpose(t)}
		}
	}
	return m
}

// Source returns the zero form of the row the matrix was built from.
func (m *Matrix) Source() row.Row {
	return m.source
}

// Len returns the number of forms, always [Size].
func (m *Matrix) Len() int {
	return Size
}

// Rows returns all forms in canonical order. The slice is a copy.
func (m *Matrix) Rows() []Form {
	out := make([]Form, Size)
	copy(out, m.forms[:])
	return out
}

// Family returns the twelve forms of a single family, ordered by transposition.
func (m *Matrix) Family(f Family) []Form {
	if f < 0 || f >= NumFamilies {
		return nil
	}
	out := make([]Form, row.Size)
	copy(out, m.forms[int(f)*row.Size:int(f+1)*row.Size])
	return out
}

// Form looks up a single form by label.
func (m *Matrix) Form(l Label) (Form, bool) {
	if l.Family < 0 || l.Family >= NumFamilies || l.Transposition < 0 || l.Transposition >= row.Size {
		return Form{}, false
	}
	return m.forms[l.index()], true
}
