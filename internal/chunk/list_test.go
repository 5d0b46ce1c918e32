package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobudou/pkg/types"
)

func withDependency(word string, d types.Direction) Chunk {
	c := NewWord(word, "", "")
	c.SetDependency(d)
	return c
}

// abCdeFgh builds the list: ab(unset) cde(forward) fgh(backward)
func abCdeFgh() *List {
	return NewList(
		withDependency("ab", types.Unset),
		withDependency("cde", types.Forward),
		withDependency("fgh", types.Backward),
	)
}

func wordsOf(l *List, refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = l.Get(r).Word
	}
	return out
}

func TestListSequenceOperations(t *testing.T) {
	l := NewList()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, "", l.Text())

	l.Append(NewWord("a", "", ""))
	l.Append(NewWord("c", "", ""))
	_, err := l.Insert(1, NewWord("b", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, l.Words())

	require.NoError(t, l.Delete(0, 2))
	assert.Equal(t, []string{"c"}, l.Words())

	_, err = l.Insert(5, NewWord("x", "", ""))
	assert.ErrorIs(t, err, ErrIndexRange)
	assert.ErrorIs(t, l.Delete(0, 3), ErrIndexRange)
}

func TestGetOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		length   int
		expected []string
	}{
		// chunks: ab cde fgh
		{"inside one chunk", 3, 1, []string{"cde"}},
		{"start of one chunk", 2, 2, []string{"cde"}},
		{"across two chunks", 1, 3, []string{"ab", "cde"}},
		{"end of second chunk", 1, 4, []string{"ab", "cde"}},
		{"across three chunks", 1, 5, []string{"ab", "cde", "fgh"}},
		{"past the end", 20, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := abCdeFgh()
			refs := l.GetOverlaps(tt.offset, tt.length)
			if tt.expected == nil {
				assert.Empty(t, refs)
				return
			}
			assert.Equal(t, tt.expected, wordsOf(l, refs))
		})
	}
}

func TestGetOverlaps_LeadingSpace(t *testing.T) {
	// text: "東京 タワー" with the entity offset pointing at the space
	l := NewList(NewWord("東京", "", ""), NewSpace(), NewWord("タ", "", ""), NewWord("ワー", "", ""))

	refs := l.GetOverlaps(2, 3)
	assert.Equal(t, []string{"タ", "ワー"}, wordsOf(l, refs))
}

func TestGetOverlaps_ReturnsIntersectingChunksInOrder(t *testing.T) {
	l := NewList(NewWord("東", "", ""), NewWord("京都", "", ""), NewWord("に", "", ""), NewWord("行く", "", ""))
	text := []rune(l.Text())

	for offset := 0; offset < len(text); offset++ {
		for length := 1; offset+length <= len(text); length++ {
			refs := l.GetOverlaps(offset, length)
			lastPos := -1
			for _, r := range refs {
				pos := l.Index(r)
				require.Greater(t, pos, lastPos, "overlaps must follow list order")
				lastPos = pos

				start := 0
				for i := 0; i < pos; i++ {
					start += l.At(i).Len()
				}
				end := start + l.Get(r).Len()
				assert.True(t, offset < end && start < offset+length,
					"chunk %q [%d,%d) does not intersect [%d,%d)", l.Get(r).Word, start, end, offset, offset+length)
			}
		}
	}
}

func TestSwap(t *testing.T) {
	t.Run("replaces contiguous chunks", func(t *testing.T) {
		l := abCdeFgh()
		_, err := l.Swap(l.Slice(0, 2), NewWord("ijk", "", ""))
		require.NoError(t, err)
		assert.Equal(t, []string{"ijk", "fgh"}, l.Words())
	})

	t.Run("uses chunk identity, not equality", func(t *testing.T) {
		l := NewList(NewWord("x", "", ""), NewWord("y", "", ""), NewWord("x", "", ""))
		_, err := l.Swap([]Ref{l.Ref(2)}, NewWord("z", "", ""))
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y", "z"}, l.Words())
	})

	t.Run("order of refs does not matter", func(t *testing.T) {
		l := abCdeFgh()
		_, err := l.Swap([]Ref{l.Ref(2), l.Ref(1)}, NewWord("cdefgh", "", ""))
		require.NoError(t, err)
		assert.Equal(t, []string{"ab", "cdefgh"}, l.Words())
	})

	t.Run("empty set fails", func(t *testing.T) {
		l := abCdeFgh()
		_, err := l.Swap(nil, NewWord("x", "", ""))
		assert.ErrorIs(t, err, ErrEmptySwap)
		assert.Equal(t, []string{"ab", "cde", "fgh"}, l.Words())
	})

	t.Run("non contiguous set fails", func(t *testing.T) {
		l := abCdeFgh()
		_, err := l.Swap([]Ref{l.Ref(0), l.Ref(2)}, NewWord("x", "", ""))
		assert.ErrorIs(t, err, ErrNonContiguous)
		assert.Equal(t, []string{"ab", "cde", "fgh"}, l.Words())
	})

	t.Run("removed chunk fails", func(t *testing.T) {
		l := abCdeFgh()
		gone := l.Ref(0)
		require.NoError(t, l.Delete(0, 1))
		_, err := l.Swap([]Ref{gone}, NewWord("x", "", ""))
		assert.ErrorIs(t, err, ErrUnknownChunk)
	})
}

func TestConcatenate(t *testing.T) {
	l := abCdeFgh()

	l.concatenate(types.Forward)
	assert.Equal(t, []string{"ab", "cdefgh"}, l.Words(),
		"chunks should be concatenated if they depend on the following word")
	assert.Equal(t, types.Unset, l.At(0).Dependency)
	assert.Equal(t, types.Backward, l.At(1).Dependency,
		"dependency should persist even if it is concatenated by others")

	l.concatenate(types.Backward)
	assert.Equal(t, []string{"abcdefgh"}, l.Words(),
		"chunks should be concatenated if they depend on the previous word")
}

func TestConcatenate_TrailingForwardRunIsKept(t *testing.T) {
	l := NewList(
		withDependency("a", types.Unset),
		withDependency("b", types.Forward),
		withDependency("c", types.Forward),
	)
	l.concatenate(types.Forward)
	assert.Equal(t, []string{"a", "b", "c"}, l.Words())
}

func TestConcatenate_MergedChunkKeepsLastMetadata(t *testing.T) {
	head := NewWord("行く", "VERB", "ROOT")
	l := NewList(withDependency("の", types.Forward), head)
	l.concatenate(types.Forward)

	require.Equal(t, 1, l.Len())
	assert.Equal(t, "の行く", l.At(0).Word)
	assert.Equal(t, "VERB", l.At(0).Pos)
	assert.Equal(t, "ROOT", l.At(0).Label)
}

func TestInsertBreaklines(t *testing.T) {
	l := NewList(NewWord("これが ", "", ""), NewWord("Android", "", ""), NewWord("is ", "", ""))
	l.insertBreaklines()
	assert.Equal(t, []string{"これが", "\n", "Android", "is "}, l.Words(),
		"trailing spaces in CJK chunks should be converted to breaklines")
	assert.True(t, l.At(1).IsBreakline())
}

func TestInsertBreaklines_ClipsInlines(t *testing.T) {
	c := NewWord("東京 ", "", "")
	c.Inlines = []Inline{{
		Offset:  0,
		Element: types.Element{Text: "東京 ", Tag: "b", Source: "<b>東京 </b>"},
	}}
	l := NewList(c, NewWord("タワー", "", ""))
	l.insertBreaklines()

	assert.Equal(t, []string{"東京", "\n", "タワー"}, l.Words())
	require.Len(t, l.At(0).Inlines, 1)
	assert.Equal(t, "東京", l.At(0).Inlines[0].Element.Text)
	assert.Equal(t, "<b>東京</b>", l.At(0).Inlines[0].Element.Source)

	out, err := HTMLSerialize(l, map[string]string{"class": "c"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "<span class=\"c\"><b>東京</b></span>\n<span class=\"c\">タワー</span>", out)
}

func TestClipInlines(t *testing.T) {
	inlines := []Inline{
		{Offset: 0, Element: types.Element{Text: "日", Tag: "i", Source: "<i>日</i>"}},
		{Offset: 2, Element: types.Element{Text: " ", Tag: "b", Source: "<b> </b>"}},
		{Offset: 1, Element: types.Element{Text: "本x", Tag: "b", Source: "<b>本x</b>"}},
	}
	out := clipInlines(inlines, 2)
	require.Len(t, out, 1, "only inlines that fit or lose trailing white space survive")
	assert.Equal(t, "日", out[0].Element.Text)
}

func TestResolveDependencies_SpaceAbsorbedBackward(t *testing.T) {
	l := NewList(
		NewWord("渋谷", "", ""),
		NewSpace(),
		withDependency("は", types.Backward),
		NewSpace(),
		NewWord("東京", "", ""),
	)
	l.ResolveDependencies()

	assert.Equal(t, []string{"渋谷 は", "\n", "東京"}, l.Words())
}

func TestResolveDependencies_PreservesText(t *testing.T) {
	tokens := []types.Token{
		{Content: "今日", BeginOffset: 0, Label: "NN", HeadTokenIndex: 2, TokenIndex: 0},
		{Content: "は", BeginOffset: 2, Label: "PRT", HeadTokenIndex: 0, TokenIndex: 1},
		{Content: "Go", BeginOffset: 4, Label: "NN", HeadTokenIndex: 3, TokenIndex: 2},
		{Content: "を", BeginOffset: 6, Label: "PRT", HeadTokenIndex: 2, TokenIndex: 3},
		{Content: "書く", BeginOffset: 7, Label: "ROOT", HeadTokenIndex: 4, TokenIndex: 4},
		{Content: "。", BeginOffset: 9, Label: "P", HeadTokenIndex: 4, TokenIndex: 5},
	}
	text := "今日は Goを書く。"

	l, err := FromTokens(tokens, SyntaxRule)
	require.NoError(t, err)
	assert.Equal(t, text, l.Text(), "construction must round-trip the input")

	l.ResolveDependencies()

	var sb strings.Builder
	for i := 0; i < l.Len(); i++ {
		if l.At(i).IsBreakline() {
			sb.WriteString(" ")
			continue
		}
		sb.WriteString(l.At(i).Word)
	}
	assert.Equal(t, text, sb.String(), "only space to breakline substitution is allowed")
	assert.Equal(t, []string{"今日は", "\n", "Goを", "書く。"}, l.Words())
}

func TestResolveDependencies_Empty(t *testing.T) {
	l := NewList()
	l.ResolveDependencies()
	assert.Equal(t, 0, l.Len())
}

func TestResolveDependencies_SecondCallDoesNotPanic(t *testing.T) {
	l := NewList(NewWord("渋谷", "", ""), NewSpace(), withDependency("は", types.Backward))
	l.ResolveDependencies()
	assert.NotPanics(t, l.ResolveDependencies)
}
