package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobudou/pkg/types"
)

func TestGroupByEntities(t *testing.T) {
	t.Run("merges single character chunks", func(t *testing.T) {
		l := NewList(NewWord("東", "", ""), NewWord("京", "", ""), NewWord("都", "", ""))
		err := l.GroupByEntities([]types.Entity{{Content: "東京都", BeginOffset: 0}})
		require.NoError(t, err)

		require.Equal(t, 1, l.Len())
		assert.Equal(t, "東京都", l.At(0).Word)
		assert.Empty(t, l.At(0).Pos)
		assert.Empty(t, l.At(0).Label)
		assert.Equal(t, types.Unset, l.At(0).Dependency)
	})

	t.Run("entity chunk drops dependency before resolution", func(t *testing.T) {
		l := NewList(
			NewWord("私", "", ""),
			withDependency("は", types.Backward),
			withDependency("東", types.Forward),
			NewWord("京", "", ""),
		)
		err := l.GroupByEntities([]types.Entity{{Content: "東京", BeginOffset: 2}})
		require.NoError(t, err)
		assert.Equal(t, []string{"私", "は", "東京"}, l.Words())

		l.ResolveDependencies()
		assert.Equal(t, []string{"私は", "東京"}, l.Words())
	})

	t.Run("entity outside the text is skipped", func(t *testing.T) {
		l := NewList(NewWord("東", "", ""), NewWord("京", "", ""))
		err := l.GroupByEntities([]types.Entity{{Content: "大阪", BeginOffset: 10}})
		require.NoError(t, err)
		assert.Equal(t, []string{"東", "京"}, l.Words())
	})

	t.Run("entities are applied in order", func(t *testing.T) {
		l := NewList(NewWord("a", "", ""), NewWord("b", "", ""), NewWord("c", "", ""), NewWord("d", "", ""))
		err := l.GroupByEntities([]types.Entity{
			{Content: "ab", BeginOffset: 0},
			{Content: "cd", BeginOffset: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ab", "cd"}, l.Words())
	})

	t.Run("entity offset on a space", func(t *testing.T) {
		l := NewList(NewWord("今日", "", ""), NewSpace(), NewWord("東", "", ""), NewWord("京", "", ""))
		err := l.GroupByEntities([]types.Entity{{Content: "東京", BeginOffset: 2}})
		require.NoError(t, err)
		assert.Equal(t, []string{"今日", " ", "東京"}, l.Words())
	})
}

func TestGroupByElements(t *testing.T) {
	t.Run("keeps element markup on the merged chunk", func(t *testing.T) {
		l := NewList(NewWord("今日", "", ""), NewWord("は", "", ""), NewWord("晴", "", ""), NewWord("れ", "", ""))
		el := types.Element{Text: "は晴", Tag: "b", Source: "<b>は晴</b>", Index: 2}

		err := l.GroupByElements([]types.Element{el})
		require.NoError(t, err)
		assert.Equal(t, []string{"今日", "は晴", "れ"}, l.Words())
		require.Len(t, l.At(1).Inlines, 1)
		assert.Equal(t, 0, l.At(1).Inlines[0].Offset)
		assert.Equal(t, "b", l.At(1).Inlines[0].Element.Tag)
	})

	t.Run("element inside a longer chunk", func(t *testing.T) {
		l := NewList(NewWord("今日は", "", ""), NewWord("晴れ", "", ""))
		el := types.Element{Text: "日", Tag: "em", Source: "<em>日</em>", Index: 1}

		err := l.GroupByElements([]types.Element{el})
		require.NoError(t, err)
		assert.Equal(t, []string{"今日は", "晴れ"}, l.Words())
		require.Len(t, l.At(0).Inlines, 1)
		assert.Equal(t, 1, l.At(0).Inlines[0].Offset)
	})

	t.Run("inlines survive dependency merge", func(t *testing.T) {
		l := NewList(NewWord("東京", "", ""), withDependency("に", types.Backward))
		err := l.GroupByElements([]types.Element{{Text: "東京", Tag: "a", Source: `<a href="/tokyo">東京</a>`, Index: 0}})
		require.NoError(t, err)

		l.ResolveDependencies()
		require.Equal(t, 1, l.Len())
		assert.Equal(t, "東京に", l.At(0).Word)
		require.Len(t, l.At(0).Inlines, 1)
		assert.Equal(t, 0, l.At(0).Inlines[0].Offset)
	})

	t.Run("element on a dependent chunk keeps it attached", func(t *testing.T) {
		l := NewList(NewWord("東京", "NN", "NN"), withDependency("は", types.Backward))
		err := l.GroupByElements([]types.Element{{Text: "は", Tag: "b", Source: "<b>は</b>", Index: 2}})
		require.NoError(t, err)
		assert.Equal(t, []string{"東京", "は"}, l.Words())
		assert.Equal(t, types.Backward, l.At(1).Dependency)

		l.ResolveDependencies()
		assert.Equal(t, []string{"東京は"}, l.Words())
		require.Len(t, l.At(0).Inlines, 1)
		assert.Equal(t, 2, l.At(0).Inlines[0].Offset)

		out, err := HTMLSerialize(l, map[string]string{"class": "c"}, 0)
		require.NoError(t, err)
		assert.Equal(t, `<span class="c">東京<b>は</b></span>`, out)
	})

	t.Run("merged chunk keeps backward dependency of its first chunk", func(t *testing.T) {
		l := NewList(NewWord("今日", "", ""), withDependency("は", types.Backward), NewWord("晴", "", ""))
		err := l.GroupByElements([]types.Element{{Text: "は晴", Tag: "em", Source: "<em>は晴</em>", Index: 2}})
		require.NoError(t, err)
		assert.Equal(t, []string{"今日", "は晴"}, l.Words())
		assert.Equal(t, types.Backward, l.At(1).Dependency)

		l.ResolveDependencies()
		assert.Equal(t, []string{"今日は晴"}, l.Words())
	})

	t.Run("merged chunk keeps forward dependency of its last chunk", func(t *testing.T) {
		l := NewList(NewWord("前", "", ""), NewWord("東", "", ""), withDependency("京", types.Forward), NewWord("都", "", ""))
		err := l.GroupByElements([]types.Element{{Text: "東京", Tag: "b", Source: "<b>東京</b>", Index: 1}})
		require.NoError(t, err)
		assert.Equal(t, types.Forward, l.At(1).Dependency)

		l.ResolveDependencies()
		assert.Equal(t, []string{"前", "東京都"}, l.Words())
	})

	t.Run("invalid element is skipped", func(t *testing.T) {
		l := NewList(NewWord("東京", "", ""))
		err := l.GroupByElements([]types.Element{{Text: "", Tag: "b", Index: 0}})
		require.NoError(t, err)
		assert.Empty(t, l.At(0).Inlines)
	})
}
