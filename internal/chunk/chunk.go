package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/gobudou/pkg/types"
)

// Kind represents what a chunk stands for in the output
type Kind int

const (
	KindWord Kind = iota
	KindSpace
	KindBreakline
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindSpace:
		return "space"
	case KindBreakline:
		return "breakline"
	default:
		return "word"
	}
}

const (
	// SpacePOS is the part of speech reported for space chunks
	SpacePOS = "SPACE"
	// BreakPOS is the part of speech reported for breakline chunks
	BreakPOS = "BREAK"
)

// cjkTable holds the code point ranges treated as CJK script
var cjkTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 4352, Hi: 4607, Stride: 1},   // Hangul Jamo
		{Lo: 11904, Hi: 42191, Stride: 1}, // CJK radicals through Yi
		{Lo: 43072, Hi: 43135, Stride: 1}, // Phags-pa
		{Lo: 44032, Hi: 55215, Stride: 1}, // Hangul syllables
		{Lo: 63744, Hi: 64255, Stride: 1}, // CJK compatibility ideographs
		{Lo: 65072, Hi: 65103, Stride: 1}, // CJK compatibility forms
		{Lo: 65381, Hi: 65500, Stride: 1}, // Halfwidth katakana and hangul
	},
	R32: []unicode.Range32{
		{Lo: 131072, Hi: 196607, Stride: 1}, // Supplementary ideographic plane
	},
}

// Inline is an HTML element carried inside a chunk, positioned by the
// code-point offset of its text within the chunk word
type Inline struct {
	Offset  int
	Element types.Element
}

// Chunk is the unit of word segmentation
type Chunk struct {
	Word       string
	Pos        string
	Label      string
	Dependency types.Direction
	Kind       Kind

	// Inlines are elements preserved from the source markup. Word always
	// keeps the plain text.
	Inlines []Inline
}

// NewSpace creates a space chunk
func NewSpace() Chunk {
	return Chunk{Word: " ", Pos: SpacePOS, Kind: KindSpace}
}

// NewBreakline creates a breakline chunk
func NewBreakline() Chunk {
	return Chunk{Word: "\n", Pos: BreakPOS, Kind: KindBreakline}
}

// NewWord creates an ordinary word chunk. pos and label may be empty.
func NewWord(word, pos, label string) Chunk {
	return Chunk{Word: word, Pos: pos, Label: label, Kind: KindWord}
}

// IsSpace reports whether this is a space chunk
func (c *Chunk) IsSpace() bool {
	return c.Kind == KindSpace
}

// IsBreakline reports whether this is a breakline chunk
func (c *Chunk) IsBreakline() bool {
	return c.Kind == KindBreakline
}

// Len returns the word length in code points
func (c *Chunk) Len() int {
	return utf8.RuneCountInString(c.Word)
}

// singleRune returns the only code point of the word, if it has exactly one
func (c *Chunk) singleRune() (rune, bool) {
	r, size := utf8.DecodeRuneInString(c.Word)
	if size == 0 || size != len(c.Word) {
		return 0, false
	}
	return r, true
}

// IsPunct reports whether the word is a single punctuation code point
func (c *Chunk) IsPunct() bool {
	r, ok := c.singleRune()
	return ok && unicode.IsPunct(r)
}

// IsOpenPunct reports whether the word is a single opening bracket or
// initial quote (categories Ps and Pi)
func (c *Chunk) IsOpenPunct() bool {
	r, ok := c.singleRune()
	return ok && unicode.In(r, unicode.Ps, unicode.Pi)
}

// HasCJK reports whether the word contains any CJK code point
func (c *Chunk) HasCJK() bool {
	return HasCJK(c.Word)
}

// HasCJK reports whether s contains any CJK code point
func HasCJK(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.Is(cjkTable, r)
	}) >= 0
}

// SetDependency sets the merge direction. Space and breakline chunks never
// carry a direction.
func (c *Chunk) SetDependency(d types.Direction) {
	if c.Kind != KindWord {
		return
	}
	c.Dependency = d
}

// punctDirection returns the direction a punctuation chunk attaches to
func (c *Chunk) punctDirection() types.Direction {
	if c.IsOpenPunct() {
		return types.Forward
	}
	return types.Backward
}

// View is the serialized form of a chunk
type View struct {
	Word       string          `json:"word"`
	Pos        string          `json:"pos,omitempty"`
	Label      string          `json:"label,omitempty"`
	Dependency types.Direction `json:"dependency"`
	Kind       string          `json:"kind"`
	HasCJK     bool            `json:"has_cjk"`
}

// View returns the serialized chunk data
func (c *Chunk) View() View {
	return View{
		Word:       c.Word,
		Pos:        c.Pos,
		Label:      c.Label,
		Dependency: c.Dependency,
		Kind:       c.Kind.String(),
		HasCJK:     c.HasCJK(),
	}
}
