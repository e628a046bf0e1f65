package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizerBasic(t *testing.T) {
	text := "Paris is in France."
	tokens := NewTokenizer().Tokenize(text)

	require.Equal(t, []string{"Paris", "is", "in", "France", "."}, Texts(tokens))
	for _, tok := range tokens {
		assert.Equal(t, tok.Text, text[tok.Start:tok.End])
	}
}

func TestTokenizerPunctuationIsolated(t *testing.T) {
	tokens := NewTokenizer().Tokenize("(Jean-Paul, 1831)")
	assert.Equal(t, []string{"(", "Jean", "-", "Paul", ",", "1831", ")"}, Texts(tokens))
}

func TestTokenizerUnicodeOffsets(t *testing.T) {
	text := "Café résumé à Zürich"
	tokens := NewTokenizer().Tokenize(text)

	require.Len(t, tokens, 4)
	for _, tok := range tokens {
		assert.Equal(t, tok.Text, text[tok.Start:tok.End])
	}
	assert.Equal(t, "Zürich", tokens[3].Text)
}

func TestTokenizerKeepSpace(t *testing.T) {
	tz := &Tokenizer{KeepSpace: true}
	tokens := tz.Tokenize("New  York\n")

	assert.Equal(t, []string{"New", "  ", "York", "\n"}, Texts(tokens))
}

func TestTokenizerEmpty(t *testing.T) {
	tokens, err := NewTokenizer().Analyze("")
	require.NoError(t, err)
	assert.Empty(t, tokens)

	assert.Empty(t, NewTokenizer().Tokenize("   \t\n"))
}
