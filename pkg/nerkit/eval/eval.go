// Package eval scores predicted entities against gold annotations by exact
// (start, end, type) match.
package eval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cognicore/nerkit/pkg/nerkit/corpus"
	"github.com/cognicore/nerkit/pkg/nerkit/entity"
)

// Counts holds match counts.
type Counts struct {
	TruePositives  int `json:"tp"`
	FalsePositives int `json:"fp"`
	FalseNegatives int `json:"fn"`
}

// Precision is TP / (TP + FP), 0 when nothing was predicted.
func (c Counts) Precision() float64 {
	return ratio(c.TruePositives, c.TruePositives+c.FalsePositives)
}

// Recall is TP / (TP + FN), 0 when there was nothing to find.
func (c Counts) Recall() float64 {
	return ratio(c.TruePositives, c.TruePositives+c.FalseNegatives)
}

// F1 is the harmonic mean of precision and recall.
func (c Counts) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Report accumulates per-type and micro-averaged counts.
type Report struct {
	PerType   map[entity.Type]*Counts `json:"perType"`
	Micro     Counts                  `json:"micro"`
	Sentences int                     `json:"sentences"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{PerType: make(map[entity.Type]*Counts)}
}

type key struct {
	start, end int
	typ        entity.Type
}

// Add scores the predictions for one sentence. Duplicates count once.
func (r *Report) Add(gold, pred []entity.Entity) {
	r.Sentences++

	goldSet := make(map[key]bool, len(gold))
	for _, e := range gold {
		goldSet[key{e.Start, e.End, e.Type}] = true
	}
	predSet := make(map[key]bool, len(pred))
	for _, e := range pred {
		predSet[key{e.Start, e.End, e.Type}] = true
	}

	for k := range predSet {
		c := r.counts(k.typ)
		if goldSet[k] {
			c.TruePositives++
			r.Micro.TruePositives++
		} else {
			c.FalsePositives++
			r.Micro.FalsePositives++
		}
	}
	for k := range goldSet {
		if !predSet[k] {
			r.counts(k.typ).FalseNegatives++
			r.Micro.FalseNegatives++
		}
	}
}

func (r *Report) counts(t entity.Type) *Counts {
	c, ok := r.PerType[t]
	if !ok {
		c = &Counts{}
		r.PerType[t] = c
	}
	return c
}

// String renders a per-type table followed by the micro average.
func (r *Report) String() string {
	types := make([]entity.Type, 0, len(r.PerType))
	for t := range r.PerType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "type\tprecision\trecall\tf1\tsupport\t")
	row := func(name string, c Counts) {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%d\t\n", name, c.Precision(), c.Recall(), c.F1(), c.TruePositives+c.FalseNegatives)
	}
	for _, t := range types {
		row(t.String(), *r.PerType[t])
	}
	row("micro", r.Micro)
	tw.Flush()
	return b.String()
}

// Extractor is the part of the NER pipeline exercised by Run.
type Extractor interface {
	ExtractText(ctx context.Context, text string) ([]entity.Entity, error)
}

// Run extracts entities from every sentence of docs and scores them
// against the annotations.
func Run(ctx context.Context, x Extractor, docs []corpus.TrainingDocument) (*Report, error) {
	r := NewReport()
	for _, d := range docs {
		for i, s := range d.Sentences() {
			pred, err := x.ExtractText(ctx, s.RawText)
			if err != nil {
				return nil, fmt.Errorf("document %s sentence %d: %w", d.ID, i, err)
			}
			r.Add(s.Entities, pred)
		}
	}
	return r, nil
}
