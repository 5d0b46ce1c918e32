package chunk

import (
	"fmt"
	"strings"

	"github.com/dshills/gobudou/pkg/types"
)

// GroupByEntities merges the chunks covered by each entity into one plain
// word chunk. Entities are processed in the given order; an entity that
// covers no chunk is skipped.
func (l *List) GroupByEntities(entities []types.Entity) error {
	for _, e := range entities {
		refs := l.GetOverlaps(e.BeginOffset, e.Length())
		if len(refs) == 0 {
			continue
		}
		merged := NewWord(l.joinWords(refs), "", "")
		if _, err := l.Swap(refs, merged); err != nil {
			return fmt.Errorf("group entity %q at %d: %w", e.Content, e.BeginOffset, err)
		}
	}
	return nil
}

// GroupByElements attaches each inline element to the chunks it covers so
// it can be rendered as markup. An element inside a single chunk is attached
// in place. An element spanning several chunks merges them the way
// GroupByEntities does, except that the merged chunk keeps the backward
// dependency of its first chunk or the forward dependency of its last one.
func (l *List) GroupByElements(elements []types.Element) error {
	for _, el := range elements {
		if err := el.Validate(); err != nil {
			continue
		}
		refs, start := l.overlaps(el.Index, el.Length())
		if len(refs) == 0 {
			continue
		}

		rel := el.Index - start
		if len(refs) == 1 {
			c := l.Get(refs[0])
			if rel >= 0 && substring(c.Word, rel, el.Length()) == el.Text {
				c.Inlines = append(c.Inlines, Inline{Offset: rel, Element: el})
			}
			continue
		}

		merged := NewWord(l.joinWords(refs), "", "")
		offset := 0
		for _, r := range refs {
			c := l.Get(r)
			for _, in := range c.Inlines {
				merged.Inlines = append(merged.Inlines, Inline{Offset: offset + in.Offset, Element: in.Element})
			}
			offset += c.Len()
		}
		if rel >= 0 && substring(merged.Word, rel, el.Length()) == el.Text {
			merged.Inlines = append(merged.Inlines, Inline{Offset: rel, Element: el})
		}
		first, last := l.Get(refs[0]), l.Get(refs[len(refs)-1])
		switch {
		case first.Dependency == types.Backward:
			merged.SetDependency(types.Backward)
		case last.Dependency == types.Forward:
			merged.SetDependency(types.Forward)
		}

		if _, err := l.Swap(refs, merged); err != nil {
			return fmt.Errorf("group element <%s> at %d: %w", el.Tag, el.Index, err)
		}
	}
	return nil
}

// joinWords concatenates the words of refs in order
func (l *List) joinWords(refs []Ref) string {
	var sb strings.Builder
	for _, r := range refs {
		sb.WriteString(l.Get(r).Word)
	}
	return sb.String()
}

// substring returns the code points [offset, offset+length) of s, or "" if
// the range does not fit
func substring(s string, offset, length int) string {
	runes := []rune(s)
	if offset < 0 || length < 0 || offset+length > len(runes) {
		return ""
	}
	return string(runes[offset : offset+length])
}
