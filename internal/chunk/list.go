package chunk

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/gobudou/pkg/types"
)

// Errors returned by list mutations
var (
	ErrEmptySwap     = errors.New("swap requires at least one chunk")
	ErrUnknownChunk  = errors.New("chunk is not in the list")
	ErrNonContiguous = errors.New("chunks to swap are not contiguous")
	ErrIndexRange    = errors.New("index out of range")
)

// Ref identifies a specific chunk instance stored in a List. Two chunks with
// equal fields still have distinct refs.
type Ref int

// List is an ordered sequence of chunks.
//
// Chunks live in an arena and the order is kept as a separate slice of
// refs, so a ref keeps pointing at the same chunk while the order changes.
// Pointers returned by At and Get are valid until the next Append, Insert,
// Swap or ResolveDependencies call.
type List struct {
	arena []Chunk
	order []Ref
}

// NewList creates a list holding the given chunks in order
func NewList(chunks ...Chunk) *List {
	l := &List{
		arena: make([]Chunk, 0, len(chunks)),
		order: make([]Ref, 0, len(chunks)),
	}
	for _, c := range chunks {
		l.Append(c)
	}
	return l
}

// store adds c to the arena without placing it in the order
func (l *List) store(c Chunk) Ref {
	l.arena = append(l.arena, c)
	return Ref(len(l.arena) - 1)
}

// Append adds a chunk at the end of the list
func (l *List) Append(c Chunk) Ref {
	r := l.store(c)
	l.order = append(l.order, r)
	return r
}

// Insert places a chunk at position i, shifting later chunks right
func (l *List) Insert(i int, c Chunk) (Ref, error) {
	if i < 0 || i > len(l.order) {
		return 0, fmt.Errorf("%w: insert at %d of %d", ErrIndexRange, i, len(l.order))
	}
	r := l.store(c)
	l.order = slices.Insert(l.order, i, r)
	return r, nil
}

// Delete removes the chunks at positions [i, j)
func (l *List) Delete(i, j int) error {
	if i < 0 || j > len(l.order) || i > j {
		return fmt.Errorf("%w: delete [%d, %d) of %d", ErrIndexRange, i, j, len(l.order))
	}
	l.order = slices.Delete(l.order, i, j)
	return nil
}

// Len returns the number of chunks in the list
func (l *List) Len() int {
	return len(l.order)
}

// At returns the chunk at position i
func (l *List) At(i int) *Chunk {
	return &l.arena[l.order[i]]
}

// Ref returns the ref of the chunk at position i
func (l *List) Ref(i int) Ref {
	return l.order[i]
}

// Get returns the chunk identified by r
func (l *List) Get(r Ref) *Chunk {
	return &l.arena[r]
}

// Slice returns the refs at positions [i, j)
func (l *List) Slice(i, j int) []Ref {
	return slices.Clone(l.order[i:j])
}

// Index returns the position of r, or -1 if r is not in the list
func (l *List) Index(r Ref) int {
	return slices.Index(l.order, r)
}

// Chunks returns a copy of the chunks in order
func (l *List) Chunks() []Chunk {
	out := make([]Chunk, len(l.order))
	for i, r := range l.order {
		out[i] = l.arena[r]
	}
	return out
}

// Words returns the chunk words in order
func (l *List) Words() []string {
	out := make([]string, len(l.order))
	for i, r := range l.order {
		out[i] = l.arena[r].Word
	}
	return out
}

// Text returns the concatenation of all chunk words
func (l *List) Text() string {
	var sb strings.Builder
	for _, r := range l.order {
		sb.WriteString(l.arena[r].Word)
	}
	return sb.String()
}

// Views returns the serialized form of every chunk in order
func (l *List) Views() []View {
	out := make([]View, len(l.order))
	for i, r := range l.order {
		out[i] = l.arena[r].View()
	}
	return out
}

// GetOverlaps returns the chunks whose span intersects the code-point range
// [offset, offset+length) of the concatenated text, in list order.
//
// If the text has a space at offset, the range is shifted right by one, since
// annotation offsets sometimes point at the space before a word.
func (l *List) GetOverlaps(offset, length int) []Ref {
	refs, _ := l.overlaps(offset, length)
	return refs
}

// overlaps is GetOverlaps that also reports the code-point offset where the
// first returned chunk starts
func (l *List) overlaps(offset, length int) ([]Ref, int) {
	if offset >= 0 && l.runeAt(offset) == ' ' {
		offset++
	}

	var result []Ref
	start := -1
	index := 0
	for _, r := range l.order {
		n := l.arena[r].Len()
		if offset < index+n && index < offset+length {
			if start < 0 {
				start = index
			}
			result = append(result, r)
		}
		index += n
	}
	return result, start
}

// runeAt returns the code point at offset in the concatenated text, or -1
func (l *List) runeAt(offset int) rune {
	index := 0
	for _, r := range l.order {
		word := l.arena[r].Word
		n := utf8.RuneCountInString(word)
		if offset < index+n {
			for _, c := range word {
				if index == offset {
					return c
				}
				index++
			}
		}
		index += n
	}
	return -1
}

// Swap replaces the contiguous run of chunks identified by old with c.
// The list is left unchanged if old is empty, names a chunk that is not in
// the list, or does not cover one contiguous run.
func (l *List) Swap(old []Ref, c Chunk) (Ref, error) {
	if len(old) == 0 {
		return 0, ErrEmptySwap
	}

	positions := make([]int, 0, len(old))
	for _, r := range old {
		i := l.Index(r)
		if i < 0 {
			return 0, fmt.Errorf("%w: ref %d", ErrUnknownChunk, r)
		}
		positions = append(positions, i)
	}
	slices.Sort(positions)
	positions = slices.Compact(positions)

	first, last := positions[0], positions[len(positions)-1]
	if last-first+1 != len(positions) {
		return 0, fmt.Errorf("%w: positions %v", ErrNonContiguous, positions)
	}

	r := l.store(c)
	l.order = slices.Replace(l.order, first, last+1, r)
	return r, nil
}

// ResolveDependencies merges chunks with their dependency targets, first
// forward and then backward, and inserts breaklines after CJK chunks that end
// with a space.
//
// Calling it twice on the same list does not panic, but the result of the
// second call is not specified.
func (l *List) ResolveDependencies() {
	l.concatenate(types.Forward)
	l.concatenate(types.Backward)
	l.insertBreaklines()
}

// concatenate runs one merge pass in the given direction. A chunk whose
// dependency matches the direction is held in a bucket until the next chunk
// that does not; the bucket is then merged into one chunk carrying the
// metadata of that terminating chunk. Spaces are always held when scanning
// backward.
func (l *List) concatenate(direction types.Direction) {
	source := slices.Clone(l.order)
	if direction == types.Backward {
		slices.Reverse(source)
	}

	target := make([]Ref, 0, len(source))
	var bucket []Ref
	for _, r := range source {
		c := &l.arena[r]
		bucket = append(bucket, r)
		if c.Dependency == direction || (direction == types.Backward && c.IsSpace()) {
			continue
		}
		if direction == types.Backward {
			slices.Reverse(bucket)
		}
		target = append(target, l.merge(bucket, r))
		bucket = nil
	}
	// Trailing dependents with nothing to attach to stay as they are.
	target = append(target, bucket...)

	if direction == types.Backward {
		slices.Reverse(target)
	}
	l.order = target
}

// merge stores a new chunk made of the bucket words, taking its metadata from
// the chunk identified by head
func (l *List) merge(bucket []Ref, head Ref) Ref {
	if len(bucket) == 1 {
		return bucket[0]
	}

	h := l.arena[head]
	merged := Chunk{
		Pos:        h.Pos,
		Label:      h.Label,
		Dependency: h.Dependency,
		Kind:       KindWord,
	}

	var sb strings.Builder
	offset := 0
	for _, r := range bucket {
		c := &l.arena[r]
		for _, in := range c.Inlines {
			merged.Inlines = append(merged.Inlines, Inline{Offset: offset + in.Offset, Element: in.Element})
		}
		sb.WriteString(c.Word)
		offset += c.Len()
	}
	merged.Word = sb.String()
	return l.store(merged)
}

// insertBreaklines replaces the trailing space of every CJK chunk with a
// breakline chunk that follows it
func (l *List) insertBreaklines() {
	target := make([]Ref, 0, len(l.order))
	for _, r := range l.order {
		c := &l.arena[r]
		target = append(target, r)
		if c.Kind == KindWord && strings.HasSuffix(c.Word, " ") && c.HasCJK() {
			c.Word = strings.TrimSuffix(c.Word, " ")
			c.Inlines = clipInlines(c.Inlines, c.Len())
			target = append(target, l.store(NewBreakline()))
		}
	}
	l.order = target
}
