// Package label implements the begin/inside/outside label scheme exchanged
// with the sequence tagger.
package label

import (
	"fmt"
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
)

// Kind is the position of a token relative to an entity.
type Kind uint8

const (
	Outside Kind = iota
	Begin
	Inside
)

// Label is one of Outside, Begin(T) or Inside(T). The zero value is Outside.
// Values are built only through O, B and I, so a Begin or Inside label
// always carries a type.
type Label struct {
	kind Kind
	typ  entity.Type
}

// O returns the outside label.
func O() Label { return Label{} }

// B returns the begin-of-entity label for t.
func B(t entity.Type) Label { return Label{kind: Begin, typ: t} }

// I returns the inside-entity label for t.
func I(t entity.Type) Label { return Label{kind: Inside, typ: t} }

// Kind returns the label kind.
func (l Label) Kind() Kind { return l.kind }

// Type returns the entity type; ok is false for Outside.
func (l Label) Type() (t entity.Type, ok bool) {
	return l.typ, l.kind != Outside
}

// Continues reports whether l extends a run of type t.
func (l Label) Continues(t entity.Type) bool {
	return l.kind == Inside && l.typ == t
}

// String renders the label in wire form: "O", "B-PERSON", "I-PERSON".
func (l Label) String() string {
	switch l.kind {
	case Begin:
		return "B-" + l.typ.String()
	case Inside:
		return "I-" + l.typ.String()
	}
	return "O"
}

// Parse reads a wire label. "O" and "<other>" are outside labels.
func Parse(s string) (Label, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "O", "<other>", "OTHER":
		return O(), nil
	}

	var kind Kind
	switch {
	case strings.HasPrefix(s, "B-"):
		kind = Begin
	case strings.HasPrefix(s, "I-"):
		kind = Inside
	default:
		return Label{}, fmt.Errorf("%w: %q", internalerr.ErrUnknownLabel, s)
	}

	t, ok := entity.LookupType(s[2:])
	if !ok {
		return Label{}, fmt.Errorf("%w: %q", internalerr.ErrUnknownLabel, s)
	}
	return Label{kind: kind, typ: t}, nil
}

// Scored is a label with the tagger's optional probability for it.
type Scored struct {
	Label   Label
	Prob    float64
	HasProb bool
}

// Of wraps labels without probabilities.
func Of(labels ...Label) []Scored {
	out := make([]Scored, len(labels))
	for i, l := range labels {
		out[i] = Scored{Label: l}
	}
	return out
}
