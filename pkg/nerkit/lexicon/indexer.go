package lexicon

import "strings"

// Flags records the gazetteers a token takes part in.
type Flags struct {
	Location     bool
	PersonTitle  bool
	Organisation bool
	OrgForm      bool
	City         bool
	Country      bool
	LastName     bool
	CommonName   bool
	FirstName    bool
}

// Get returns the flag for a category.
func (f Flags) Get(c Category) bool {
	switch c {
	case Location:
		return f.Location
	case PersonTitle:
		return f.PersonTitle
	case Organisation:
		return f.Organisation
	case OrgForm:
		return f.OrgForm
	case City:
		return f.City
	case Country:
		return f.Country
	case LastName:
		return f.LastName
	case CommonName:
		return f.CommonName
	case FirstName:
		return f.FirstName
	}
	return false
}

func (f *Flags) set(c Category) {
	switch c {
	case Location:
		f.Location = true
	case PersonTitle:
		f.PersonTitle = true
	case Organisation:
		f.Organisation = true
	case OrgForm:
		f.OrgForm = true
	case City:
		f.City = true
	case Country:
		f.Country = true
	case LastName:
		f.LastName = true
	case CommonName:
		f.CommonName = true
	case FirstName:
		f.FirstName = true
	}
}

// Indexer computes per-token lexicon flags for a token sequence, including
// matches of multi-token gazetteer entries.
type Indexer struct {
	gaz Gazetteer
}

// NewIndexer creates an indexer over the given gazetteer. A nil gazetteer
// yields all-false flags.
func NewIndexer(g Gazetteer) *Indexer {
	return &Indexer{gaz: g}
}

// Index returns one Flags value per token.
//
// For every category it tries every start position and keeps the longest
// phrase (bounded by the category's MaxTokens) starting there. A match over
// k tokens flags all k of them; matches starting inside it are still tried,
// so overlapping entries each contribute their tokens.
func (x *Indexer) Index(tokens []string) []Flags {
	flags := make([]Flags, len(tokens))
	if x.gaz == nil {
		return flags
	}

	for _, c := range Categories {
		maxLen := x.gaz.MaxTokens(c)
		if maxLen <= 0 {
			continue
		}

		for i := range tokens {
			n := x.longestMatch(c, tokens, i, maxLen)
			for k := i; k < i+n; k++ {
				flags[k].set(c)
			}
		}
	}

	return flags
}

// longestMatch returns the token length of the longest phrase of category c
// starting at tokens[i], or 0.
func (x *Indexer) longestMatch(c Category, tokens []string, i, maxLen int) int {
	if remaining := len(tokens) - i; maxLen > remaining {
		maxLen = remaining
	}
	for n := maxLen; n >= 1; n-- {
		phrase := strings.Join(tokens[i:i+n], " ")
		if x.gaz.Contains(c, phrase) {
			return n
		}
	}
	return 0
}
