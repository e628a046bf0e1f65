// Package entity defines named-entity occurrences and the closed set of
// entity classes the NER model predicts.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Type classifies an entity.
type Type int

const (
	Unknown Type = iota
	Location
	Person
	Title
	Acronym
	Animal
	Artifact
	Business
	Institution
	Measure
	Award
	Concept
	Conceptual
	Creation
	Event
	Legal
	Identifier
	Installation
	Media
	National
	Organisation
	Period
	PersonType
	Plant
	SportTeam
	Substance
	Website
)

var typeNames = [...]string{
	Unknown:      "UNKNOWN",
	Location:     "LOCATION",
	Person:       "PERSON",
	Title:        "TITLE",
	Acronym:      "ACRONYM",
	Animal:       "ANIMAL",
	Artifact:     "ARTIFACT",
	Business:     "BUSINESS",
	Institution:  "INSTITUTION",
	Measure:      "MEASURE",
	Award:        "AWARD",
	Concept:      "CONCEPT",
	Conceptual:   "CONCEPTUAL",
	Creation:     "CREATION",
	Event:        "EVENT",
	Legal:        "LEGAL",
	Identifier:   "IDENTIFIER",
	Installation: "INSTALLATION",
	Media:        "MEDIA",
	National:     "NATIONAL",
	Organisation: "ORGANISATION",
	Period:       "PERIOD",
	PersonType:   "PERSON_TYPE",
	Plant:        "PLANT",
	SportTeam:    "SPORT_TEAM",
	Substance:    "SUBSTANCE",
	Website:      "WEBSITE",
}

var typeFromName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = Type(t)
	}
	return m
}()

// Types returns every entity type in declaration order.
func Types() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// String returns the name of the entity type.
func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// LookupType maps a name (case-insensitive, "-" and " " read as "_") to a Type.
func LookupType(name string) (Type, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	t, ok := typeFromName[key]
	return t, ok
}

// ParseType maps a name to a Type. Unrecognized names resolve to Unknown,
// or fail with ErrUnknownEntityType when strict is set.
func ParseType(name string, strict bool) (Type, error) {
	if t, ok := LookupType(name); ok {
		return t, nil
	}
	if strict {
		return Unknown, fmt.Errorf("%w: %q", internalerr.ErrUnknownEntityType, name)
	}
	return Unknown, nil
}

// MarshalText encodes the entity type as its name (e.g. "PERSON"), which
// also makes Type usable as a JSON object key.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name. Unknown names are rejected.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text), true)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Origin tells who produced an entity.
type Origin int

const (
	// OriginModel marks entities reconstructed from tagger output.
	OriginModel Origin = iota
	// OriginAnnotator marks entities read from annotated corpus markup.
	OriginAnnotator
)

// String returns "model" or "annotator".
func (o Origin) String() string {
	switch o {
	case OriginModel:
		return "model"
	case OriginAnnotator:
		return "annotator"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// ParseOrigin reads an origin attribute. "user" is accepted for annotator.
func ParseOrigin(s string) (Origin, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "model", "tagger":
		return OriginModel, true
	case "annotator", "user":
		return OriginAnnotator, true
	}
	return 0, false
}

// MarshalJSON encodes the origin as its name.
func (o Origin) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an origin name.
func (o *Origin) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseOrigin(s)
	if !ok {
		return fmt.Errorf("unknown origin: %q", s)
	}
	*o = parsed
	return nil
}

// Entity is one recognized named-entity occurrence.
//
// In plain-text mode Start and End are byte offsets with
// source[Start:End] == RawText. In layout mode they are the offsets carried
// by the first and last token and Positions holds the coordinate span.
type Entity struct {
	Type       Type             `json:"type"`
	RawText    string           `json:"rawName"`
	Origin     Origin           `json:"origin"`
	Confidence float64          `json:"conf"`
	Start      int              `json:"offsetStart"`
	End        int              `json:"offsetEnd"`
	Positions  []token.Position `json:"pos,omitempty"`
}

// String returns a debug representation, e.g. PERSON("Ada")[0:3].
func (e Entity) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", e.Type, e.RawText, e.Start, e.End)
}

// Overlaps reports whether two entities share at least one byte.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}
