package token

import "strings"

// Sequence is the full token list of one pipeline invocation together with
// the source string it was cut from (empty in layout mode).
type Sequence struct {
	Source string
	Tokens []Token

	content []int
}

// NewSequence builds a sequence and precomputes the indices of its content
// (non-whitespace) tokens.
func NewSequence(source string, tokens []Token) Sequence {
	content := make([]int, 0, len(tokens))
	for i, t := range tokens {
		if t.Text == "" || t.IsSpace() {
			continue
		}
		content = append(content, i)
	}
	return Sequence{Source: source, Tokens: tokens, content: content}
}

// Content returns the indices into Tokens of the tokens that are encoded
// and tagged.
func (s Sequence) Content() []int {
	return s.content
}

// Layout reports whether the sequence carries positioned tokens.
func (s Sequence) Layout() bool {
	for _, t := range s.Tokens {
		if t.Layout != nil {
			return true
		}
	}
	return false
}

// Span returns the text covering tokens i..j (inclusive) exactly as it
// appears in the source. In plain mode this is a slice of Source; in layout
// mode the tokens in between, whitespace tokens included, are concatenated.
func (s Sequence) Span(i, j int) string {
	first, last := s.Tokens[i], s.Tokens[j]
	if s.Source != "" && first.Start >= 0 && last.End <= len(s.Source) && first.Start <= last.End {
		return s.Source[first.Start:last.End]
	}

	var b strings.Builder
	for k := i; k <= j; k++ {
		b.WriteString(s.Tokens[k].Text)
	}
	return b.String()
}

// Positions merges the layout boxes of tokens i..j into one box per page
// and baseline. It returns nil for plain tokens.
func (s Sequence) Positions(i, j int) []Position {
	var out []Position
	var baseline float64
	for k := i; k <= j; k++ {
		l := s.Tokens[k].Layout
		if l == nil || s.Tokens[k].IsSpace() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Page == l.Page && baseline == l.Baseline {
			out[n-1].Box = out[n-1].Box.Union(l.Box)
			continue
		}
		out = append(out, Position{Page: l.Page, Box: l.Box})
		baseline = l.Baseline
	}
	return out
}
