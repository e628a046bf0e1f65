package tagger

import (
	"context"
	"fmt"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/features"
	"github.com/cognicore/nerkit/pkg/nerkit/label"
)

// Baseline labels tokens from the lexicon flags already present in their
// feature lines. It needs no model and serves as a smoke-test tagger:
// person titles become TITLE, first and last names PERSON, organisations
// and organisation forms ORGANISATION, and cities, countries and locations
// LOCATION. Common names never start an entity on their own. Adjacent
// tokens of the same class form one entity.
type Baseline struct{}

// Tag implements Tagger.
func (Baseline) Tag(_ context.Context, lines []string) ([]Result, error) {
	results := make([]Result, len(lines))
	prev := entity.Unknown
	inRun := false
	for i, line := range lines {
		rec, err := features.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}

		lbl := label.O()
		t, ok := classify(rec)
		switch {
		case ok && inRun && t == prev:
			lbl = label.I(t)
		case ok:
			lbl = label.B(t)
		}
		prev, inRun = t, ok

		results[i] = Result{Token: rec.Token(), Label: lbl.String()}
	}
	return results, nil
}

func classify(r features.Record) (entity.Type, bool) {
	switch {
	case r.Flag(features.FieldPersonTitle):
		return entity.Title, true
	case r.Flag(features.FieldFirstName), r.Flag(features.FieldLastName):
		return entity.Person, true
	case r.Flag(features.FieldOrganisation), r.Flag(features.FieldOrgForm):
		return entity.Organisation, true
	case r.Flag(features.FieldCity), r.Flag(features.FieldCountry), r.Flag(features.FieldLocation):
		return entity.Location, true
	}
	return entity.Unknown, false
}
