package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
)

func feed(t *testing.T, m *Machine, events ...Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, m.Handle(ev))
	}
}

func TestMachineStates(t *testing.T) {
	m := NewMachine(false)
	assert.Equal(t, OutsideDocument, m.State())

	feed(t, m, StartElement{Name: "document"})
	assert.Equal(t, InDocument, m.State())
	feed(t, m, StartElement{Name: "p"})
	assert.Equal(t, InParagraph, m.State())
	feed(t, m, StartElement{Name: "sentence"}, Text{Data: "Hi "})
	assert.Equal(t, InSentence, m.State())
	feed(t, m, StartElement{Name: "ENAMEX", Attrs: []Attr{{Name: "type", Value: "person"}}}, Text{Data: "Ada"})
	assert.Equal(t, InEntity, m.State())
	feed(t, m, EndElement{Name: "ENAMEX"}, EndElement{Name: "sentence"}, EndElement{Name: "p"}, EndElement{Name: "document"})
	assert.Equal(t, OutsideDocument, m.State())
	require.NoError(t, m.Finish())

	docs := m.Documents()
	require.Len(t, docs, 1)
	s := docs[0].Sentences()[0]
	assert.Equal(t, "Hi Ada", s.RawText)
	require.Len(t, s.Entities, 1)
	assert.Equal(t, 3, s.Entities[0].Start)
	assert.Equal(t, 6, s.Entities[0].End)
}

func TestMachineIgnoresWhitespaceBetweenElements(t *testing.T) {
	m := NewMachine(false)
	feed(t, m,
		Text{Data: "preamble"},
		StartElement{Name: "document"}, Text{Data: "\n  "},
		StartElement{Name: "p"}, Text{Data: "\t"},
		StartElement{Name: "s"}, Text{Data: "kept"}, EndElement{Name: "s"},
		EndElement{Name: "p"}, EndElement{Name: "document"},
	)
	assert.Equal(t, "kept", m.Documents()[0].Sentences()[0].RawText)
}

func TestMachineRejectsTextOutsideSentence(t *testing.T) {
	m := NewMachine(false)
	feed(t, m, StartElement{Name: "document"}, StartElement{Name: "p"})

	err := m.Handle(Text{Data: "stray words"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrMalformedMarkup))
}

func TestMachineDropsEmptyEntity(t *testing.T) {
	m := NewMachine(false)
	feed(t, m,
		StartElement{Name: "document"}, StartElement{Name: "p"}, StartElement{Name: "s"},
		StartElement{Name: "entity", Attrs: []Attr{{Name: "type", Value: "person"}}}, EndElement{Name: "entity"},
		Text{Data: "x"}, EndElement{Name: "s"}, EndElement{Name: "p"}, EndElement{Name: "document"},
	)
	assert.Empty(t, m.Documents()[0].Sentences()[0].Entities)
}

func TestMachineDropsWhitespaceOnlyEntity(t *testing.T) {
	m := NewMachine(false)
	feed(t, m,
		StartElement{Name: "document"}, StartElement{Name: "p"}, StartElement{Name: "s"},
		Text{Data: "in"},
		StartElement{Name: "ENAMEX", Attrs: []Attr{{Name: "type", Value: "location"}}}, Text{Data: " \t"}, EndElement{Name: "ENAMEX"},
		Text{Data: "Ghent"}, EndElement{Name: "s"}, EndElement{Name: "p"}, EndElement{Name: "document"},
	)
	sent := m.Documents()[0].Sentences()[0]
	assert.Equal(t, "in \tGhent", sent.RawText)
	assert.Empty(t, sent.Entities)
}

func TestMachineRejectsOutOfPlaceElements(t *testing.T) {
	m := NewMachine(false)
	err := m.Handle(StartElement{Name: "sentence"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrMalformedMarkup))

	var me *MarkupError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, OutsideDocument, me.State)
	assert.Equal(t, "sentence", me.Element)
}

func TestMachineFinishInsideDocument(t *testing.T) {
	m := NewMachine(false)
	feed(t, m, StartElement{Name: "document"})
	assert.Error(t, m.Finish())
}

func TestMachineStrictConf(t *testing.T) {
	open := StartElement{Name: "ENAMEX", Attrs: []Attr{{Name: "type", Value: "person"}, {Name: "conf", Value: "high"}}}
	prefix := []Event{StartElement{Name: "document"}, StartElement{Name: "p"}, StartElement{Name: "s"}}

	lenient := NewMachine(false)
	feed(t, lenient, prefix...)
	require.NoError(t, lenient.Handle(open))

	strict := NewMachine(true)
	feed(t, strict, prefix...)
	assert.Error(t, strict.Handle(open))
}
