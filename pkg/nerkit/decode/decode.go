// Package decode rebuilds entity occurrences from per-token tagger labels.
package decode

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/label"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// DefaultConfidence is assigned to entities whose tokens carry no
// probabilities.
const DefaultConfidence = 1.0

// Reconstructor turns label runs into entities.
//
// Confidence policy: when every token of a run carries a probability, the
// entity confidence is the minimum of them; otherwise it is Default.
type Reconstructor struct {
	Default float64
}

// New creates a reconstructor using DefaultConfidence.
func New() *Reconstructor {
	return &Reconstructor{Default: DefaultConfidence}
}

type run struct {
	typ        entity.Type
	start, end int // positions in the content index
}

// Reconstruct scans labels (one per content token of seq) and returns the
// entities in document order.
//
// A run opens on Begin(T), or on Inside(T) that does not continue a T run,
// and extends over following Inside(T) labels.
func (r *Reconstructor) Reconstruct(seq token.Sequence, labels []label.Scored) ([]entity.Entity, error) {
	content := seq.Content()
	if len(labels) != len(content) {
		return nil, fmt.Errorf("%w: %d labels for %d tokens", internalerr.ErrTaggerContract, len(labels), len(content))
	}

	var out []entity.Entity
	var cur *run

	flush := func() error {
		if cur == nil {
			return nil
		}
		e, ok := r.build(seq, content, labels, *cur)
		cur = nil
		if !ok {
			return nil
		}
		if n := len(out); n > 0 && overlaps(out[n-1], e) {
			return fmt.Errorf("%w: %s and %s", internalerr.ErrOverlap, out[n-1], e)
		}
		out = append(out, e)
		return nil
	}

	for i, s := range labels {
		t, typed := s.Label.Type()
		switch {
		case !typed:
			if err := flush(); err != nil {
				return nil, err
			}
		case cur != nil && s.Label.Continues(cur.typ):
			cur.end = i
		default:
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &run{typ: t, start: i, end: i}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Reconstructor) build(seq token.Sequence, content []int, labels []label.Scored, rn run) (entity.Entity, bool) {
	first, last := content[rn.start], content[rn.end]
	raw := seq.Span(first, last)
	if strings.TrimSpace(raw) == "" {
		return entity.Entity{}, false
	}

	return entity.Entity{
		Type:       rn.typ,
		RawText:    raw,
		Origin:     entity.OriginModel,
		Confidence: r.confidence(labels[rn.start : rn.end+1]),
		Start:      seq.Tokens[first].Start,
		End:        seq.Tokens[last].End,
		Positions:  seq.Positions(first, last),
	}, true
}

func (r *Reconstructor) confidence(labels []label.Scored) float64 {
	conf := math.Inf(1)
	for _, s := range labels {
		if !s.HasProb {
			return clamp(r.Default)
		}
		conf = math.Min(conf, s.Prob)
	}
	return clamp(conf)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// overlaps is Entity.Overlaps, except that entities without a byte span
// (layout tokens carrying only positions) never overlap.
func overlaps(prev, next entity.Entity) bool {
	if prev.End <= prev.Start || next.End <= next.Start {
		return false
	}
	return prev.Overlaps(next)
}
