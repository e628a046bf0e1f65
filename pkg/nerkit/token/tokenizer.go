package token

import (
	"unicode"
	"unicode/utf8"
)

// Tokenizer is the default Analyzer. Letters and digits form words; every
// punctuation or symbol rune becomes a token of its own; whitespace separates
// tokens and is dropped unless KeepSpace is set.
type Tokenizer struct {
	// KeepSpace emits whitespace runs as tokens, the way layout analyzers do.
	KeepSpace bool
}

// NewTokenizer creates a tokenizer that drops whitespace.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Analyze implements Analyzer. It never fails on valid UTF-8.
func (t *Tokenizer) Analyze(text string) ([]Token, error) {
	return t.Tokenize(text), nil
}

// Tokenize splits text into tokens carrying byte offsets into text.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	space := -1

	flushWord := func(end int) {
		if start >= 0 {
			tokens = append(tokens, Token{Text: text[start:end], Start: start, End: end})
			start = -1
		}
	}
	flushSpace := func(end int) {
		if space >= 0 {
			if t.KeepSpace {
				tokens = append(tokens, Token{Text: text[space:end], Start: space, End: end})
			}
			space = -1
		}
	}

	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			flushSpace(i)
			if start < 0 {
				start = i
			}
		case unicode.IsSpace(r):
			flushWord(i)
			if space < 0 {
				space = i
			}
		default:
			flushWord(i)
			flushSpace(i)
			_, size := utf8.DecodeRuneInString(text[i:])
			tokens = append(tokens, Token{Text: text[i : i+size], Start: i, End: i + size})
		}
	}

	// Don't forget the last token
	flushWord(len(text))
	flushSpace(len(text))

	return tokens
}

// Texts returns the token strings of the given tokens.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
