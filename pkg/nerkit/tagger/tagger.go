// Package tagger adapts external sequence labelers to the NER pipeline.
// A tagger receives one feature line per token and must answer with one
// (token, label) pair per line, in the same order.
package tagger

import "context"

// Result is the tagger's answer for one input line.
type Result struct {
	Token   string
	Label   string
	Prob    float64
	HasProb bool
}

// Tagger labels a batch of feature lines for one token sequence.
type Tagger interface {
	Tag(ctx context.Context, lines []string) ([]Result, error)
}

// Func adapts a function to the Tagger interface.
type Func func(ctx context.Context, lines []string) ([]Result, error)

// Tag implements Tagger.
func (f Func) Tag(ctx context.Context, lines []string) ([]Result, error) {
	return f(ctx, lines)
}
