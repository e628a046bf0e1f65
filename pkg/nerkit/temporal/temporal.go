// Package temporal holds the read-only month/day tables and digit patterns
// behind the temporal NER features.
package temporal

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// Tables is the on-disk form of a temporal lexicon.
type Tables struct {
	Patterns struct {
		Year  string `yaml:"year"`
		Month string `yaml:"month"`
		Day   string `yaml:"day"`
	} `yaml:"patterns"`
	Months map[string][]string `yaml:"months"`
	Days   map[string][]string `yaml:"days"`
}

// Lexicon answers temporal membership questions. It is immutable once built
// and safe for concurrent use.
type Lexicon struct {
	year, month, day *regexp.Regexp
	monthNames       map[string]struct{}
	dayNames         map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the lexicon built from the embedded tables. It is parsed
// once per process.
func Default() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Parse(defaultTables)
	})
	return defaultLex, defaultErr
}

// LoadFromYAML builds a lexicon from a tables file. Missing patterns fall
// back to the embedded ones.
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a lexicon from YAML table data.
func Parse(data []byte) (*Lexicon, error) {
	var base Tables
	if err := yaml.Unmarshal(defaultTables, &base); err != nil {
		return nil, fmt.Errorf("parse embedded temporal tables: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse temporal tables: %w", err)
	}
	if t.Patterns.Year == "" {
		t.Patterns.Year = base.Patterns.Year
	}
	if t.Patterns.Month == "" {
		t.Patterns.Month = base.Patterns.Month
	}
	if t.Patterns.Day == "" {
		t.Patterns.Day = base.Patterns.Day
	}
	return New(t)
}

// New compiles a lexicon from tables.
func New(t Tables) (*Lexicon, error) {
	year, err := regexp.Compile(t.Patterns.Year)
	if err != nil {
		return nil, fmt.Errorf("year pattern: %w", err)
	}
	month, err := regexp.Compile(t.Patterns.Month)
	if err != nil {
		return nil, fmt.Errorf("month pattern: %w", err)
	}
	day, err := regexp.Compile(t.Patterns.Day)
	if err != nil {
		return nil, fmt.Errorf("day pattern: %w", err)
	}

	return &Lexicon{
		year:       year,
		month:      month,
		day:        day,
		monthNames: nameSet(t.Months),
		dayNames:   nameSet(t.Days),
	}, nil
}

func nameSet(byLang map[string][]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, names := range byLang {
		for _, n := range names {
			if k := normalize(n); k != "" {
				set[k] = struct{}{}
			}
		}
	}
	return set
}

func normalize(s string) string {
	return cases.Fold().String(strings.TrimSuffix(strings.TrimSpace(s), "."))
}

// IsYear reports whether the token looks like a year.
func (l *Lexicon) IsYear(tok string) bool {
	return l.year.MatchString(tok)
}

// IsMonthDigits reports whether the token is a month number.
func (l *Lexicon) IsMonthDigits(tok string) bool {
	return l.month.MatchString(tok)
}

// IsDayDigits reports whether the token is a day-of-month number.
func (l *Lexicon) IsDayDigits(tok string) bool {
	return l.day.MatchString(tok)
}

// IsMonthName reports whether the token names a month in a known language.
func (l *Lexicon) IsMonthName(tok string) bool {
	_, ok := l.monthNames[normalize(tok)]
	return ok
}

// IsDayName reports whether the token names a weekday in a known language.
func (l *Lexicon) IsDayName(tok string) bool {
	_, ok := l.dayNames[normalize(tok)]
	return ok
}
