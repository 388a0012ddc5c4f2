package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
)

const lilypondHeader = `\version "2.16.2"
\include "english.ly"

#(set-global-staff-size 13)

`

const lilypondScore = `\score {
  <<
    \new Staff \rows
  >>
}
`

// RenderLilyPond writes all 48 forms as a LilyPond score.
//
// Each form is one stemless 12/4 measure headed by a rehearsal mark such as
// "p0" or "ri11"; a double bar closes each family. Pitches are spelled from
// [pitch.LilyPond] regardless of the display table in use.
func RenderLilyPond(m *matrix.Matrix) []byte {
	var buf bytes.Buffer
	buf.WriteString(lilypondHeader)
	buf.WriteString("rows = {\n")
	buf.WriteString("\\time 12/4\n")
	buf.WriteString("\\override Staff.Stem #'transparent = ##t\n")

	notes := make([]string, 0, 12)
	for _, f := range matrix.Families() {
		key := strings.ToLower(f.String())
		for _, form := range m.Family(f) {
			notes = notes[:0]
			for _, pc := range form.Row.All() {
				notes = append(notes, pitch.LilyPond.Label(int(pc)))
			}
			fmt.Fprintf(&buf, "\\mark \"%s%d\" %s\n", key, form.Label.Transposition, strings.Join(notes, " "))
		}
		buf.WriteString("\\bar \"||\"\n")
	}

	buf.WriteString("}\n")
	buf.WriteString(lilypondScore)
	return buf.Bytes()
}
