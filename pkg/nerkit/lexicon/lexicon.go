package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Category identifies one gazetteer.
type Category int

const (
	Location Category = iota
	PersonTitle
	Organisation
	OrgForm
	City
	Country
	LastName
	CommonName
	FirstName
)

// Categories lists every known category.
var Categories = []Category{Location, PersonTitle, Organisation, OrgForm, City, Country, LastName, CommonName, FirstName}

var categoryNames = [...]string{
	Location:     "location",
	PersonTitle:  "person_title",
	Organisation: "organisation",
	OrgForm:      "org_form",
	City:         "city",
	Country:      "country",
	LastName:     "last_name",
	CommonName:   "common_name",
	FirstName:    "first_name",
}

// String returns the configuration name of the category.
func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a configuration name back to a Category.
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return Category(c), true
		}
	}
	return 0, false
}

// Gazetteer is a read-only membership store. Phrases are single-space joined
// token sequences; implementations compare them case-insensitively.
type Gazetteer interface {
	Contains(c Category, phrase string) bool
	// MaxTokens is the token length of the longest phrase in the category,
	// 0 when the category is empty or unknown.
	MaxTokens(c Category) int
}

// Key normalizes a phrase for lookup. The phrase is split the way the default
// tokenizer splits text, joined with single spaces and case-folded, so that
// "St. Louis" and the token run [St . Louis] share a key.
func Key(phrase string) string {
	words := token.Texts(token.NewTokenizer().Tokenize(phrase))
	return cases.Fold().String(strings.Join(words, " "))
}

// Lexicon is the in-memory Gazetteer. Build it with Add before handing it to
// an Indexer; it is only read afterwards.
type Lexicon struct {
	phrases map[Category]map[string]struct{}
	maxLen  map[Category]int
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		phrases: make(map[Category]map[string]struct{}),
		maxLen:  make(map[Category]int),
	}
}

// LoadFromYAML loads gazetteer entries from a YAML file.
//
// Expected format:
//
//	city: [Paris, New York, Rio de Janeiro]
//	country: [France, United States]
//	person_title: [Mr, Dr, President]
//	first_name: [Ada, Jean]
//
// Unknown category keys are rejected.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	lex := New()
	for name, phrases := range raw {
		c, ok := ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("lexicon %s: unknown category %q", path, name)
		}
		lex.Add(c, phrases...)
	}
	return lex, nil
}

// Add registers phrases under a category. Blank phrases are ignored.
func (l *Lexicon) Add(c Category, phrases ...string) {
	set := l.phrases[c]
	if set == nil {
		set = make(map[string]struct{})
		l.phrases[c] = set
	}
	for _, p := range phrases {
		key := Key(p)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
		if n := phraseLen(key); n > l.maxLen[c] {
			l.maxLen[c] = n
		}
	}
}

// Contains implements Gazetteer.
func (l *Lexicon) Contains(c Category, phrase string) bool {
	_, ok := l.phrases[c][Key(phrase)]
	return ok
}

// MaxTokens implements Gazetteer.
func (l *Lexicon) MaxTokens(c Category) int {
	return l.maxLen[c]
}

// Phrases returns the normalized phrases of a category in sorted order.
func (l *Lexicon) Phrases(c Category) []string {
	out := make([]string, 0, len(l.phrases[c]))
	for p := range l.phrases[c] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Stats returns the number of phrases per category.
func (l *Lexicon) Stats() map[Category]int {
	out := make(map[Category]int, len(l.phrases))
	for c, set := range l.phrases {
		out[c] = len(set)
	}
	return out
}

func phraseLen(phrase string) int {
	return len(strings.Fields(phrase))
}
