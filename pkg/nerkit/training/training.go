// Package training turns annotated corpus documents into labeled feature
// lines for model training.
package training

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cognicore/nerkit/pkg/nerkit/corpus"
	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/features"
	"github.com/cognicore/nerkit/pkg/nerkit/label"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Writer writes one feature line per token and a blank line after every
// sentence.
type Writer struct {
	w          *bufio.Writer
	analyzer   token.Analyzer
	featurizer *features.Featurizer

	sentences int
	tokens    int
}

// NewWriter creates a writer. A nil analyzer uses the default tokenizer.
func NewWriter(w io.Writer, analyzer token.Analyzer, f *features.Featurizer) *Writer {
	if analyzer == nil {
		analyzer = token.NewTokenizer()
	}
	return &Writer{w: bufio.NewWriter(w), analyzer: analyzer, featurizer: f}
}

// WriteDocument writes every sentence of d.
func (tw *Writer) WriteDocument(d corpus.TrainingDocument) error {
	for i, s := range d.Sentences() {
		if err := tw.WriteSentence(s); err != nil {
			return fmt.Errorf("document %s sentence %d: %w", d.ID, i, err)
		}
	}
	return nil
}

// WriteSentence writes the labeled lines of one sentence. Sentences
// without tokens are skipped.
func (tw *Writer) WriteSentence(s corpus.Sentence) error {
	toks, err := tw.analyzer.Analyze(s.RawText)
	if err != nil {
		return err
	}
	seq := token.NewSequence(s.RawText, toks)
	content := make([]token.Token, 0, len(seq.Content()))
	for _, i := range seq.Content() {
		content = append(content, toks[i])
	}
	if len(content) == 0 {
		return nil
	}

	texts := make([]string, len(content))
	for i, t := range content {
		texts[i] = t.Text
	}
	recs, err := tw.featurizer.Records(texts, Labels(content, s.Entities))
	if err != nil {
		return err
	}

	for _, r := range recs {
		if _, err := tw.w.WriteString(r.Line() + "\n"); err != nil {
			return err
		}
	}
	if err := tw.w.WriteByte('\n'); err != nil {
		return err
	}
	tw.sentences++
	tw.tokens += len(recs)
	return nil
}

// Flush writes buffered lines to the underlying writer.
func (tw *Writer) Flush() error {
	return tw.w.Flush()
}

// Stats returns the number of sentences and tokens written.
func (tw *Writer) Stats() (sentences, tokens int) {
	return tw.sentences, tw.tokens
}

// Labels assigns wire labels to tokens from entity offsets: the first token
// touching an entity is B-T, following ones I-T, all others O. Entities and
// tokens must share the same offset space and be sorted.
func Labels(tokens []token.Token, ents []entity.Entity) []string {
	out := make([]string, len(tokens))
	k := 0
	inside := false
	for i, t := range tokens {
		for k < len(ents) && ents[k].End <= t.Start {
			k++
			inside = false
		}

		l := label.O()
		if k < len(ents) && t.End > ents[k].Start {
			if inside {
				l = label.I(ents[k].Type)
			} else {
				l = label.B(ents[k].Type)
				inside = true
			}
		}
		out[i] = l.String()
	}
	return out
}
