package features

import (
	"fmt"
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
)

// Version names the field layout below. Any change to field order or count
// needs a new version: models trained on one layout cannot read another.
const Version = "ner-v2"

// Field positions in a record.
const (
	FieldToken = iota
	FieldLower
	FieldPrefix1
	FieldPrefix2
	FieldPrefix3
	FieldPrefix4
	FieldPrefix5
	FieldSuffix1
	FieldSuffix2
	FieldSuffix3
	FieldSuffix4
	FieldSuffix5
	FieldCapitalisation
	FieldDigit
	FieldLastName
	FieldCommonName
	FieldFirstName
	FieldSingleChar
	FieldPunct
	FieldCity
	FieldCountry
	FieldYear
	FieldMonthName
	FieldMonthDigits
	FieldDayName
	FieldDayDigits
	FieldLocation
	FieldPersonTitle
	FieldOrganisation
	FieldOrgForm
	FieldWordShape
	FieldWordShapeTrimmed
	FieldLabel

	// FieldCount is the arity of every record.
	FieldCount
)

// NoLabel is written in the label field when no label is known.
const NoLabel = "0"

// Record is one token's feature vector. It is immutable; build it with
// NewRecord or Encoder.Encode.
type Record struct {
	fields [FieldCount]string
}

// NewRecord validates and wraps a field list.
func NewRecord(fields []string) (Record, error) {
	var r Record
	if len(fields) != FieldCount {
		return r, fmt.Errorf("%w: record has %d fields, want %d", internalerr.ErrInvalidFeatureInput, len(fields), FieldCount)
	}
	for i, f := range fields {
		if f == "" || strings.ContainsAny(f, " \t\r\n") {
			return r, fmt.Errorf("%w: field %d is %q", internalerr.ErrInvalidFeatureInput, i, f)
		}
		r.fields[i] = f
	}
	return r, nil
}

// ParseLine reads a record back from its line form.
func ParseLine(line string) (Record, error) {
	return NewRecord(strings.Fields(line))
}

// Field returns the value at position i.
func (r Record) Field(i int) string {
	return r.fields[i]
}

// Fields returns a copy of all fields.
func (r Record) Fields() []string {
	out := make([]string, FieldCount)
	copy(out, r.fields[:])
	return out
}

// Token returns the token the record was built from.
func (r Record) Token() string {
	return r.fields[FieldToken]
}

// Label returns the training label, or NoLabel.
func (r Record) Label() string {
	return r.fields[FieldLabel]
}

// Flag reads a boolean field.
func (r Record) Flag(i int) bool {
	return r.fields[i] == "1"
}

// WithLabel returns a copy of the record carrying another label.
func (r Record) WithLabel(label string) (Record, error) {
	if label == "" {
		label = NoLabel
	}
	if strings.ContainsAny(label, " \t\r\n") {
		return r, fmt.Errorf("%w: label %q", internalerr.ErrInvalidFeatureInput, label)
	}
	r.fields[FieldLabel] = label
	return r, nil
}

// Line renders the record as a space separated model input line.
func (r Record) Line() string {
	return strings.Join(r.fields[:], " ")
}

// Lines renders a batch of records, one line each.
func Lines(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Line()
	}
	return out
}
