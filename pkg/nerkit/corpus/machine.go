package corpus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/nerkit/pkg/nerkit/entity"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
)

// State is the position of the ingestion machine in the markup structure.
type State int

const (
	OutsideDocument State = iota
	InDocument
	InParagraph
	InSentence
	InEntity
)

var stateNames = [...]string{
	OutsideDocument: "outside-document",
	InDocument:      "in-document",
	InParagraph:     "in-paragraph",
	InSentence:      "in-sentence",
	InEntity:        "in-entity",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event is a markup event fed to the machine.
type Event interface {
	event()
}

// Attr is an element attribute.
type Attr struct {
	Name  string
	Value string
}

// StartElement opens an element.
type StartElement struct {
	Name  string
	Attrs []Attr
}

// EndElement closes an element.
type EndElement struct {
	Name string
}

// Text is character data.
type Text struct {
	Data string
}

func (StartElement) event() {}
func (EndElement) event()   {}
func (Text) event()         {}

type element int

const (
	elOther element = iota
	elDocument
	elParagraph
	elSentence
	elEntity
)

func classify(name string) element {
	switch strings.ToLower(name) {
	case "document":
		return elDocument
	case "p", "paragraph":
		return elParagraph
	case "sentence", "s":
		return elSentence
	case "enamex", "entity":
		return elEntity
	}
	return elOther
}

// Machine is the ingestion state machine. Each input stream needs its own
// Machine; it is not safe for concurrent use.
type Machine struct {
	// Strict rejects unknown entity types and unreadable conf/origin
	// attributes instead of falling back to defaults.
	Strict bool
	// NewID assigns document IDs. Defaults to ulid.Make.
	NewID func() ulid.ULID

	state State
	docs  []TrainingDocument
	doc   TrainingDocument
	para  Paragraph
	text  strings.Builder
	ents  []entity.Entity
	open  entity.Entity
}

// NewMachine creates a machine in the OutsideDocument state.
func NewMachine(strict bool) *Machine {
	return &Machine{Strict: strict, NewID: ulid.Make}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Documents returns the documents completed so far.
func (m *Machine) Documents() []TrainingDocument {
	return m.docs
}

// Handle applies one event.
func (m *Machine) Handle(ev Event) error {
	switch ev := ev.(type) {
	case StartElement:
		return m.start(ev)
	case EndElement:
		return m.end(ev)
	case Text:
		switch m.state {
		case InSentence, InEntity:
			m.text.WriteString(ev.Data)
		case InDocument, InParagraph:
			if strings.TrimSpace(ev.Data) != "" {
				return m.fail("", fmt.Errorf("text %q outside of a sentence", abbreviate(ev.Data)))
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported event %T", ev)
}

// Finish checks that the input ended outside of any document.
func (m *Machine) Finish() error {
	if m.state != OutsideDocument {
		return m.fail("", errors.New("unexpected end of input"))
	}
	return nil
}

func (m *Machine) start(ev StartElement) error {
	switch classify(ev.Name) {
	case elDocument:
		if m.state != OutsideDocument {
			return m.unexpected(ev.Name)
		}
		newID := m.NewID
		if newID == nil {
			newID = ulid.Make
		}
		m.doc = TrainingDocument{
			ID:   newID(),
			Name: attr(ev.Attrs, "name"),
			Lang: attr(ev.Attrs, "lang"),
		}
		m.state = InDocument

	case elParagraph:
		if m.state != InDocument {
			return m.unexpected(ev.Name)
		}
		m.para = Paragraph{}
		m.state = InParagraph

	case elSentence:
		if m.state != InParagraph {
			return m.unexpected(ev.Name)
		}
		m.text.Reset()
		m.ents = []entity.Entity{}
		m.state = InSentence

	case elEntity:
		if m.state != InSentence {
			return m.unexpected(ev.Name)
		}
		e, err := m.openEntity(ev.Attrs)
		if err != nil {
			return m.fail(ev.Name, err)
		}
		m.open = e
		m.state = InEntity

	default:
		// Wrappers such as <corpus> and inline markup inside sentences
		// carry no structure.
	}
	return nil
}

func (m *Machine) end(ev EndElement) error {
	switch classify(ev.Name) {
	case elDocument:
		if m.state != InDocument {
			return m.unexpected(ev.Name)
		}
		if m.doc.Paragraphs == nil {
			m.doc.Paragraphs = []Paragraph{}
		}
		m.docs = append(m.docs, m.doc)
		m.doc = TrainingDocument{}
		m.state = OutsideDocument

	case elParagraph:
		if m.state != InParagraph {
			return m.unexpected(ev.Name)
		}
		m.doc.Paragraphs = append(m.doc.Paragraphs, m.para)
		m.para = Paragraph{}
		m.state = InDocument

	case elSentence:
		if m.state != InSentence {
			return m.unexpected(ev.Name)
		}
		m.para.Sentences = append(m.para.Sentences, Sentence{RawText: m.text.String(), Entities: m.ents})
		m.ents = nil
		m.state = InParagraph

	case elEntity:
		if m.state != InEntity {
			return m.unexpected(ev.Name)
		}
		e := m.open
		e.End = m.text.Len()
		e.RawText = m.text.String()[e.Start:e.End]
		if strings.TrimSpace(e.RawText) != "" {
			m.ents = append(m.ents, e)
		}
		m.state = InSentence
	}
	return nil
}

func (m *Machine) openEntity(attrs []Attr) (entity.Entity, error) {
	e := entity.Entity{
		Origin:     entity.OriginAnnotator,
		Confidence: 1.0,
		Start:      m.text.Len(),
	}

	t, err := entity.ParseType(attr(attrs, "type"), m.Strict)
	if err != nil {
		return e, err
	}
	e.Type = t

	if s := attr(attrs, "conf"); s != "" {
		conf, err := strconv.ParseFloat(s, 64)
		switch {
		case err == nil && conf >= 0 && conf <= 1:
			e.Confidence = conf
		case m.Strict:
			return e, fmt.Errorf("invalid conf %q", s)
		}
	}

	if s := attr(attrs, "origin"); s != "" {
		o, ok := entity.ParseOrigin(s)
		switch {
		case ok:
			e.Origin = o
		case m.Strict:
			return e, fmt.Errorf("invalid origin %q", s)
		}
	}
	return e, nil
}

func (m *Machine) unexpected(name string) error {
	return m.fail(name, fmt.Errorf("unexpected element <%s>", name))
}

func (m *Machine) fail(name string, err error) error {
	return &MarkupError{State: m.state, Element: name, Err: err}
}

func abbreviate(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 20 {
		return string(r[:20]) + "..."
	}
	return s
}

func attr(attrs []Attr, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value
		}
	}
	return ""
}

// MarkupError reports a structural problem in a corpus file. It matches
// internalerr.ErrMalformedMarkup as well as its underlying cause.
type MarkupError struct {
	File    string
	Line    int
	Column  int
	State   State
	Element string
	Err     error
}

func (e *MarkupError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteByte(':')
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d:", e.Line, e.Column)
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s (state %s): %v", internalerr.ErrMalformedMarkup, e.State, e.Err)
	return b.String()
}

func (e *MarkupError) Unwrap() []error {
	return []error{internalerr.ErrMalformedMarkup, e.Err}
}
