package types

import (
	"fmt"
	"unicode/utf8"
)

// Entity is an externally supplied text range, typically a named entity,
// that forces a coarser merge than syntactic dependency alone.
type Entity struct {
	Content     string `json:"content"`
	BeginOffset int    `json:"begin_offset"`
}

// Length returns the entity length in code points
func (e Entity) Length() int {
	return utf8.RuneCountInString(e.Content)
}

// Element is an inline HTML element found in the source markup
type Element struct {
	Text   string // Text content of the element
	Tag    string // Lowercase tag name
	Source string // Serialized markup of the element
	Index  int    // Code-point offset of Text within the plain text
}

// Length returns the length of the element text in code points
func (e Element) Length() int {
	return utf8.RuneCountInString(e.Text)
}

// Validate checks if the element can be used for grouping
func (e Element) Validate() error {
	if e.Text == "" {
		return fmt.Errorf("%w: element <%s>: %w", ErrInvalidElement, e.Tag, ErrEmptyContent)
	}
	if e.Index < 0 {
		return fmt.Errorf("%w: element <%s> has negative index", ErrInvalidElement, e.Tag)
	}
	return nil
}
