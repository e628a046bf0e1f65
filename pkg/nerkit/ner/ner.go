// Package ner runs the named-entity pipeline: tokens are enriched with
// lexicon flags, encoded into feature lines, labeled by an external tagger
// and decoded back into entities with exact offsets.
package ner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cognicore/nerkit/pkg/nerkit/decode"
	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/features"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/label"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
	"github.com/cognicore/nerkit/pkg/nerkit/tagger"
	"github.com/cognicore/nerkit/pkg/nerkit/temporal"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Options configures a Parser. Only Tagger is required.
type Options struct {
	Analyzer      token.Analyzer
	Gazetteer     lexicon.Gazetteer
	Temporal      *temporal.Lexicon
	Tagger        tagger.Tagger
	Reconstructor *decode.Reconstructor
	Logger        *slog.Logger
}

// Parser extracts entities from text or pre-tokenized input. All of its
// collaborators are read-only, so one Parser may serve concurrent calls as
// long as its Tagger does.
type Parser struct {
	analyzer   token.Analyzer
	featurizer *features.Featurizer
	tagger     tagger.Tagger
	decoder    *decode.Reconstructor
	log        *slog.Logger
}

// New creates a Parser. Missing optional collaborators get defaults: the
// default tokenizer, no gazetteer, the embedded temporal tables, and a
// reconstructor with DefaultConfidence.
func New(opts Options) (*Parser, error) {
	if opts.Tagger == nil {
		return nil, fmt.Errorf("%w: tagger is required", internalerr.ErrInvalidConfig)
	}

	enc, err := features.NewEncoder(opts.Temporal)
	if err != nil {
		return nil, fmt.Errorf("temporal tables: %w", err)
	}

	p := &Parser{
		analyzer:   opts.Analyzer,
		featurizer: features.NewFeaturizer(opts.Gazetteer, enc),
		tagger:     opts.Tagger,
		decoder:    opts.Reconstructor,
		log:        opts.Logger,
	}
	if p.analyzer == nil {
		p.analyzer = token.NewTokenizer()
	}
	if p.decoder == nil {
		p.decoder = decode.New()
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}
	return p, nil
}

// ExtractText tokenizes text and returns its entities in document order.
// Offsets are byte offsets into text. Empty input, input without content
// tokens and analyzer failures yield no entities and no error; analyzer
// failures are logged.
func (p *Parser) ExtractText(ctx context.Context, text string) ([]entity.Entity, error) {
	if text == "" {
		return nil, nil
	}

	toks, err := p.analyzer.Analyze(text)
	if err != nil {
		p.log.Error("tokenization failed",
			"error", errors.Join(internalerr.ErrTokenization, err),
			"length", len(text))
		return nil, nil
	}
	if len(toks) == 0 {
		p.log.Debug("no tokens", "length", len(text))
		return nil, nil
	}

	return p.extract(ctx, token.NewSequence(text, toks))
}

// ExtractTokens runs the pipeline over tokens produced by a layout
// analyzer. Whitespace tokens are kept for raw text reconstruction but are
// never tagged.
func (p *Parser) ExtractTokens(ctx context.Context, tokens []token.Token) ([]entity.Entity, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	return p.extract(ctx, token.NewSequence("", tokens))
}

// Features returns the feature lines of the content tokens of seq, without
// labels.
func (p *Parser) Features(seq token.Sequence) ([]string, error) {
	recs, err := p.featurizer.Records(contentTexts(seq), nil)
	if err != nil {
		return nil, err
	}
	return features.Lines(recs), nil
}

// Featurizer exposes the encoder used by the parser.
func (p *Parser) Featurizer() *features.Featurizer {
	return p.featurizer
}

func (p *Parser) extract(ctx context.Context, seq token.Sequence) ([]entity.Entity, error) {
	texts := contentTexts(seq)
	if len(texts) == 0 {
		return nil, nil
	}

	recs, err := p.featurizer.Records(texts, nil)
	if err != nil {
		return nil, err
	}

	results, err := p.tagger.Tag(ctx, features.Lines(recs))
	if err != nil {
		return nil, fmt.Errorf("tagger: %w", err)
	}

	labels, err := align(texts, results)
	if err != nil {
		return nil, err
	}

	ents, err := p.decoder.Reconstruct(seq, labels)
	if err != nil {
		return nil, err
	}
	p.log.Debug("extracted entities", "tokens", len(texts), "entities", len(ents))
	return ents, nil
}

// align checks that the tagger answered once per token, in order, and
// parses its labels.
func align(texts []string, results []tagger.Result) ([]label.Scored, error) {
	if len(results) != len(texts) {
		return nil, fmt.Errorf("%w: %d results for %d tokens", internalerr.ErrTaggerContract, len(results), len(texts))
	}

	labels := make([]label.Scored, len(results))
	for i, r := range results {
		if r.Token != texts[i] {
			return nil, fmt.Errorf("%w: token %d is %q, tagger returned %q", internalerr.ErrTaggerContract, i, texts[i], r.Token)
		}
		l, err := label.Parse(r.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %w", internalerr.ErrTaggerContract, i, err)
		}
		labels[i] = label.Scored{Label: l, Prob: r.Prob, HasProb: r.HasProb}
	}
	return labels, nil
}

func contentTexts(seq token.Sequence) []string {
	idx := seq.Content()
	out := make([]string, len(idx))
	for i, k := range idx {
		out[i] = seq.Tokens[k].Text
	}
	return out
}
