package features

import (
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
)

// Featurizer couples lexicon indexing with encoding, so that tagging and
// training export produce identical lines for identical tokens.
type Featurizer struct {
	indexer *lexicon.Indexer
	encoder *Encoder
}

// NewFeaturizer creates a featurizer. A nil gazetteer yields all-false
// lexicon flags.
func NewFeaturizer(g lexicon.Gazetteer, enc *Encoder) *Featurizer {
	return &Featurizer{indexer: lexicon.NewIndexer(g), encoder: enc}
}

// Records encodes a token sequence. labels may be nil.
func (f *Featurizer) Records(tokens []string, labels []string) ([]Record, error) {
	return f.encoder.EncodeAll(tokens, f.indexer.Index(tokens), labels)
}
