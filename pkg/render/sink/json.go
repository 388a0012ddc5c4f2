package sink

import (
	"encoding/json"

	"github.com/matzehuels/webern/pkg/core/matrix"
	"github.com/matzehuels/webern/pkg/core/pitch"
	"github.com/matzehuels/webern/pkg/core/row"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	label pitch.Labeler
}

// WithJSONLabeler sets how the "names" field spells pitch classes
// (default: the flats table).
func WithJSONLabeler(l pitch.Labeler) JSONOption {
	return func(r *jsonRenderer) {
		if l != nil {
			r.label = l
		}
	}
}

// Document is the JSON form of a matrix.
type Document struct {
	Row   row.Row        `json:"row"`
	Forms []FormDocument `json:"forms"`
}

// FormDocument is the JSON form of one labeled row form.
type FormDocument struct {
	Label         string   `json:"label"`
	Family        string   `json:"family"`
	Transposition int      `json:"transposition"`
	Pitches       row.Row  `json:"pitches"`
	Names         []string `json:"names"`
}

// NewFormDocument describes f, spelling its pitches with label.
func NewFormDocument(f matrix.Form, label pitch.Labeler) FormDocument {
	if label == nil {
		label = pitch.Flats.Label
	}
	names := make([]string, 0, row.Size)
	for _, pc := range f.Row.All() {
		names = append(names, label(int(pc)))
	}
	return FormDocument{
		Label:         f.Label.String(),
		Family:        f.Label.Family.String(),
		Transposition: f.Label.Transposition,
		Pitches:       f.Row,
		Names:         names,
	}
}

// NewDocument describes every form of m in canonical order.
func NewDocument(m *matrix.Matrix, label pitch.Labeler) Document {
	forms := m.Rows()
	doc := Document{Row: m.Source(), Forms: make([]FormDocument, len(forms))}
	for i, f := range forms {
		doc.Forms[i] = NewFormDocument(f, label)
	}
	return doc
}

// RenderJSON exports the matrix as a pretty-printed JSON document.
func RenderJSON(m *matrix.Matrix, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{label: pitch.Flats.Label}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(NewDocument(m, r.label), "", "  ")
}
