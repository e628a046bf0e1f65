// Package token defines the tokens handed to the NER pipeline by an external
// analyzer, in plain-text mode (byte offsets into a source string) or layout
// mode (tokens positioned on a page).
package token

import (
	"math"
	"strings"
	"unicode"
)

// Token is a single unit of text produced by an analyzer.
// Start and End are byte offsets into the source text (or into the document
// text stream for layout tokens). A Token is never modified after creation.
type Token struct {
	Text   string  `json:"text"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Layout *Layout `json:"layout,omitempty"`
}

// IsSpace reports whether the token only carries whitespace.
// Layout analyzers emit such tokens between words; they are never tagged.
func (t Token) IsSpace() bool {
	return strings.TrimFunc(t.Text, unicode.IsSpace) == ""
}

// Layout carries the physical position of a token on a page.
type Layout struct {
	Page     int     `json:"page"`
	Box      BBox    `json:"box"`
	Baseline float64 `json:"baseline"`
	FontSize float64 `json:"fontSize,omitempty"`
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.X, other.X)
	y := math.Min(b.Y, other.Y)
	return BBox{
		X:      x,
		Y:      y,
		Width:  math.Max(b.Right(), other.Right()) - x,
		Height: math.Max(b.Top(), other.Top()) - y,
	}
}

// Position is a coordinate span on one page.
type Position struct {
	Page int  `json:"page"`
	Box  BBox `json:"box"`
}

// Analyzer splits raw text into tokens. Implementations are external to the
// pipeline; Tokenizer is the default one.
type Analyzer interface {
	Analyze(text string) ([]Token, error)
}
