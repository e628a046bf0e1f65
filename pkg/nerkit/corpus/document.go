// Package corpus reads annotated training corpora (ENAMEX-style XML) into
// documents whose entity offsets are exact within each sentence.
package corpus

import (
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
)

// Sentence is one annotated sentence. Entity offsets are byte offsets into
// RawText; Entities is never nil and is sorted by offset.
type Sentence struct {
	RawText  string          `json:"text"`
	Entities []entity.Entity `json:"entities"`
}

// Paragraph groups sentences.
type Paragraph struct {
	Sentences []Sentence `json:"sentences"`
}

// TrainingDocument is one annotated document of a corpus file.
type TrainingDocument struct {
	ID         ulid.ULID   `json:"id"`
	Name       string      `json:"name,omitempty"`
	Lang       string      `json:"lang,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Sentences returns all sentences of the document in reading order.
func (d TrainingDocument) Sentences() []Sentence {
	var out []Sentence
	for _, p := range d.Paragraphs {
		out = append(out, p.Sentences...)
	}
	return out
}

// EntityCount returns the number of annotated entities in the document.
func (d TrainingDocument) EntityCount() int {
	n := 0
	for _, p := range d.Paragraphs {
		for _, s := range p.Sentences {
			n += len(s.Entities)
		}
	}
	return n
}
