package training

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/corpus"
	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/features"
	"github.com/cognicore/nerkit/pkg/nerkit/lexicon"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

func TestLabels(t *testing.T) {
	text := "The National Archives of Belgium in Brussels"
	toks := token.NewTokenizer().Tokenize(text)
	ents := []entity.Entity{
		{Type: entity.Institution, Start: 4, End: 32},
		{Type: entity.Location, Start: 36, End: 44},
	}

	assert.Equal(t,
		[]string{"O", "B-INSTITUTION", "I-INSTITUTION", "I-INSTITUTION", "I-INSTITUTION", "O", "B-LOCATION"},
		Labels(toks, ents))
}

func TestLabelsAdjacentEntities(t *testing.T) {
	toks := token.NewTokenizer().Tokenize("Ada Grace")
	ents := []entity.Entity{
		{Type: entity.Person, Start: 0, End: 3},
		{Type: entity.Person, Start: 4, End: 9},
	}

	assert.Equal(t, []string{"B-PERSON", "B-PERSON"}, Labels(toks, ents))
}

func newWriter(buf *bytes.Buffer) *Writer {
	lex := lexicon.New()
	lex.Add(lexicon.City, "Brussels")
	enc, err := features.NewEncoder(nil)
	if err != nil {
		panic(err)
	}
	return NewWriter(buf, nil, features.NewFeaturizer(lex, enc))
}

func TestWriterSentenceBlocks(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf)

	doc := corpus.TrainingDocument{Paragraphs: []corpus.Paragraph{{Sentences: []corpus.Sentence{
		{RawText: "Visit Brussels.", Entities: []entity.Entity{{Type: entity.Location, Start: 6, End: 14}}},
		{RawText: "   ", Entities: []entity.Entity{}},
		{RawText: "Bye", Entities: []entity.Entity{}},
	}}}}
	require.NoError(t, w.WriteDocument(doc))
	require.NoError(t, w.Flush())

	blocks := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	require.Len(t, blocks, 2)

	lines := strings.Split(blocks[0], "\n")
	require.Len(t, lines, 3)
	brussels, err := features.ParseLine(lines[1])
	require.NoError(t, err)
	assert.Equal(t, "Brussels", brussels.Token())
	assert.Equal(t, "B-LOCATION", brussels.Label())
	assert.True(t, brussels.Flag(features.FieldCity))

	dot, err := features.ParseLine(lines[2])
	require.NoError(t, err)
	assert.Equal(t, "O", dot.Label())

	sentences, tokens := w.Stats()
	assert.Equal(t, 2, sentences)
	assert.Equal(t, 4, tokens)
}
