// Package pitch holds the shared, read-only display tables for the twelve
// pitch classes.
//
// There is exactly one copy of each table in the process. Renderers never
// carry their own name arrays; they receive a [Labeler] built from one of the
// tables below, which keeps letter-name and integer output interchangeable.
//
// The package works on plain ints in [0,11] so it can sit underneath
// the row package without an import cycle.
package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

// Names is a display table indexed by pitch class.
type Names [12]string

// Flats is the default name table: sharps for C#/F#, flats elsewhere.
var Flats = Names{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// Sharps spells every black key as a sharp.
var Sharps = Names{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Integers renders pitch classes as their numbers.
var Integers = Names{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}

// LilyPond maps pitch classes to LilyPond note names (english.ly) in a
// register that keeps every form on the treble staff.
var LilyPond = Names{"c''", "cs''", "d''", "ef''", "e''", "f'", "fs'", "g'", "af'", "a'", "bf'", "b'"}

// Label returns the display name for pc. Out-of-range values are reduced mod 12.
func (n *Names) Label(pc int) string {
	return n[mod12(pc)]
}

// Labeler converts a pitch class into its display glyph.
type Labeler func(pc int) string

// LabelerFor returns a labeler that shows letter names from names when
// showPitches is set, and integers otherwise.
func LabelerFor(showPitches bool, names *Names) Labeler {
	if !showPitches || names == nil {
		return Integers.Label
	}
	return names.Label
}

// Table names accepted by [LookupNames].
const (
	TableFlats  = "flats"
	TableSharps = "sharps"
)

// LookupNames resolves a table name from configuration.
// An empty name selects [Flats].
func LookupNames(name string) (*Names, error) {
	switch strings.ToLower(name) {
	case "", TableFlats:
		return &Flats, nil
	case TableSharps:
		return &Sharps, nil
	default:
		return nil, fmt.Errorf("unknown pitch name table %q (must be %q or %q)", name, TableFlats, TableSharps)
	}
}

var letters = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// ParseName parses a pitch token into its pitch class.
//
// Accepted spellings: integers 0-11, and letter names followed by any
// number of accidentals written as #, ♯, s (sharp) or b, ♭, f (flat).
// Matching is case-insensitive, so "Bb", "bf", "A#" and "as" all yield 10.
func ParseName(token string) (int, error) {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return 0, fmt.Errorf("empty pitch token")
	}

	if n, err := strconv.Atoi(tok); err == nil {
		if n < 0 || n > 11 {
			return 0, fmt.Errorf("pitch class %d out of range [0,11]", n)
		}
		return n, nil
	}

	lower := strings.ToLower(tok)
	base, ok := letters[lower[0]]
	if !ok {
		return 0, fmt.Errorf("unknown pitch name %q", token)
	}

	pc := base
	for _, r := range lower[1:] {
		switch r {
		case '#', '♯', 's':
			pc++
		case 'b', '♭', 'f':
			pc--
		default:
			return 0, fmt.Errorf("unknown pitch name %q", token)
		}
	}
	return mod12(pc), nil
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}
