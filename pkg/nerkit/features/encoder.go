// Package features turns tokens into the fixed-layout feature records read
// by the NER sequence tagger.
package features

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
	"github.com/cognicore/nerkit/pkg/nerkit/temporal"
)

// Capitalisation classes
const (
	AllCaps = "ALLCAPS"
	InitCap = "INITCAP"
	NoCaps  = "NOCAPS"
)

// Digit classes
const (
	AllDigit     = "ALLDIGIT"
	ContainDigit = "CONTAINDIGIT"
	NoDigit      = "NODIGIT"
)

// Punctuation classes
const (
	OpenBracket = "OPENBRACKET"
	EndBracket  = "ENDBRACKET"
	Dot         = "DOT"
	Comma       = "COMMA"
	Hyphen      = "HYPHEN"
	Quote       = "QUOTE"
	Punct       = "PUNCT"
	NoPunct     = "NOPUNCT"
)

// Encoder builds feature records. It only reads its temporal lexicon and is
// safe for concurrent use.
type Encoder struct {
	temporal *temporal.Lexicon
}

// NewEncoder creates an encoder. A nil lexicon falls back to the embedded
// default tables.
func NewEncoder(t *temporal.Lexicon) (*Encoder, error) {
	if t == nil {
		var err error
		if t, err = temporal.Default(); err != nil {
			return nil, err
		}
	}
	return &Encoder{temporal: t}, nil
}

// Encode builds the record of one token. label may be empty outside of
// training, in which case NoLabel is written.
func (e *Encoder) Encode(tok string, flags lexicon.Flags, label string) (Record, error) {
	if tok == "" {
		return Record{}, fmt.Errorf("%w: empty token", internalerr.ErrInvalidFeatureInput)
	}
	if strings.IndexFunc(tok, unicode.IsSpace) >= 0 {
		return Record{}, fmt.Errorf("%w: token %q contains whitespace", internalerr.ErrInvalidFeatureInput, tok)
	}
	if !utf8.ValidString(tok) {
		return Record{}, fmt.Errorf("%w: token %q is not valid UTF-8", internalerr.ErrInvalidFeatureInput, tok)
	}
	if label == "" {
		label = NoLabel
	}

	digit := DigitClass(tok)
	capitalisation := CapitalisationClass(tok)
	if digit == AllDigit {
		capitalisation = NoCaps
	}

	var r Record
	f := &r.fields
	f[FieldToken] = tok
	f[FieldLower] = strings.ToLower(tok)
	for n := 1; n <= 5; n++ {
		f[FieldPrefix1+n-1] = Prefix(tok, n)
		f[FieldSuffix1+n-1] = Suffix(tok, n)
	}
	f[FieldCapitalisation] = capitalisation
	f[FieldDigit] = digit
	f[FieldLastName] = bit(flags.LastName)
	f[FieldCommonName] = bit(flags.CommonName)
	f[FieldFirstName] = bit(flags.FirstName)
	f[FieldSingleChar] = bit(utf8.RuneCountInString(tok) == 1)
	f[FieldPunct] = PunctClass(tok)
	f[FieldCity] = bit(flags.City)
	f[FieldCountry] = bit(flags.Country)
	f[FieldYear] = bit(e.temporal.IsYear(tok))
	f[FieldMonthName] = bit(e.temporal.IsMonthName(tok))
	f[FieldMonthDigits] = bit(e.temporal.IsMonthDigits(tok))
	f[FieldDayName] = bit(e.temporal.IsDayName(tok))
	f[FieldDayDigits] = bit(e.temporal.IsDayDigits(tok))
	f[FieldLocation] = bit(flags.Location)
	f[FieldPersonTitle] = bit(flags.PersonTitle)
	f[FieldOrganisation] = bit(flags.Organisation)
	f[FieldOrgForm] = bit(flags.OrgForm)
	f[FieldWordShape] = WordShape(tok)
	f[FieldWordShapeTrimmed] = WordShapeTrimmed(tok)

	return r.WithLabel(label)
}

// EncodeAll encodes a token sequence with its flags. labels may be nil.
// The first invalid token aborts the whole sequence.
func (e *Encoder) EncodeAll(tokens []string, flags []lexicon.Flags, labels []string) ([]Record, error) {
	if len(flags) != len(tokens) || (labels != nil && len(labels) != len(tokens)) {
		return nil, fmt.Errorf("%w: %d tokens, %d flags, %d labels", internalerr.ErrInvalidFeatureInput, len(tokens), len(flags), len(labels))
	}

	records := make([]Record, len(tokens))
	for i, tok := range tokens {
		var lbl string
		if labels != nil {
			lbl = labels[i]
		}
		r, err := e.Encode(tok, flags[i], lbl)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		records[i] = r
	}
	return records, nil
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// CapitalisationClass returns ALLCAPS when the token has letters and all of
// them are uppercase, INITCAP when its first letter is uppercase, NOCAPS
// otherwise.
func CapitalisationClass(tok string) string {
	letters := 0
	allUpper := true
	firstUpper := false
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			continue
		}
		upper := unicode.IsUpper(r)
		if letters == 0 {
			firstUpper = upper
		}
		letters++
		allUpper = allUpper && upper
	}

	switch {
	case letters > 0 && allUpper:
		return AllCaps
	case firstUpper:
		return InitCap
	}
	return NoCaps
}

// DigitClass returns ALLDIGIT, CONTAINDIGIT or NODIGIT.
func DigitClass(tok string) string {
	digits, total := 0, 0
	for _, r := range tok {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	switch {
	case total > 0 && digits == total:
		return AllDigit
	case digits > 0:
		return ContainDigit
	}
	return NoDigit
}

// PunctClass classifies punctuation tokens by a fixed priority table. Any
// other token holding a punctuation or symbol rune is PUNCT.
func PunctClass(tok string) string {
	switch tok {
	case "(", "[":
		return OpenBracket
	case ")", "]":
		return EndBracket
	case ".":
		return Dot
	case ",":
		return Comma
	case "-":
		return Hyphen
	case `"`, "'", "`":
		return Quote
	}

	if strings.IndexFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0 {
		return Punct
	}
	return NoPunct
}

// Prefix returns the first n runes of tok, or tok itself when shorter.
func Prefix(tok string, n int) string {
	i := 0
	for pos := range tok {
		if i == n {
			return tok[:pos]
		}
		i++
	}
	return tok
}

// Suffix returns the last n runes of tok, or tok itself when shorter.
func Suffix(tok string, n int) string {
	end := len(tok)
	for i := 0; i < n; i++ {
		if end == 0 {
			return tok
		}
		_, size := utf8.DecodeLastRuneInString(tok[:end])
		end -= size
	}
	return tok[end:]
}

// WordShape maps uppercase letters to X, lowercase to x, digits to d and
// everything else to c.
func WordShape(tok string) string {
	var b strings.Builder
	b.Grow(len(tok))
	for _, r := range tok {
		b.WriteByte(shapeOf(r))
	}
	return b.String()
}

// WordShapeTrimmed is WordShape with runs of the same symbol collapsed.
func WordShapeTrimmed(tok string) string {
	var b strings.Builder
	var last byte
	for _, r := range tok {
		s := shapeOf(r)
		if s == last {
			continue
		}
		b.WriteByte(s)
		last = s
	}
	return b.String()
}

func shapeOf(r rune) byte {
	switch {
	case unicode.IsUpper(r):
		return 'X'
	case unicode.IsLower(r):
		return 'x'
	case unicode.IsDigit(r):
		return 'd'
	}
	return 'c'
}
