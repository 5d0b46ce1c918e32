package chunk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobudou/pkg/types"
)

func TestHasCJK(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"你好", true},
		{"hello", false},
		{"你good", true},
		{"AとB", true},
		{"한국어", true},
		{"ｶﾀｶﾅ", true},
		{"𠀋", true},
		{"", false},
		{"123 abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			c := NewWord(tt.word, "", "")
			assert.Equal(t, tt.want, c.HasCJK())
		})
	}
}

func TestIsPunct(t *testing.T) {
	puncts := []string{"。", "、", "「", "」", "（", "）", "[", "]", "(", ")"}
	openExpected := []bool{false, false, true, false, true, false, true, false, true, false}

	for i, p := range puncts {
		c := NewWord(p, "", "")
		assert.True(t, c.IsPunct(), "%q should be punctuation", p)
		assert.Equal(t, openExpected[i], c.IsOpenPunct(), "open punctuation for %q", p)
	}

	t.Run("initial quote is open", func(t *testing.T) {
		c := NewWord("“", "", "")
		assert.True(t, c.IsOpenPunct())
	})

	t.Run("multi character word is not punctuation", func(t *testing.T) {
		c := NewWord("。。", "", "")
		assert.False(t, c.IsPunct())
		assert.False(t, c.IsOpenPunct())
	})

	t.Run("letters are not punctuation", func(t *testing.T) {
		c := NewWord("a", "", "")
		assert.False(t, c.IsPunct())
	})
}

func TestSpecialChunks(t *testing.T) {
	space := NewSpace()
	assert.True(t, space.IsSpace())
	assert.False(t, space.IsBreakline())
	assert.Equal(t, " ", space.Word)

	br := NewBreakline()
	assert.True(t, br.IsBreakline())
	assert.False(t, br.IsSpace())
	assert.Equal(t, "\n", br.Word)

	space.SetDependency(types.Backward)
	br.SetDependency(types.Forward)
	assert.Equal(t, types.Unset, space.Dependency)
	assert.Equal(t, types.Unset, br.Dependency)
}

func TestView(t *testing.T) {
	c := NewWord("今天", "NOUN", "NN")
	c.SetDependency(types.Forward)

	data, err := json.Marshal(c.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"word":"今天","pos":"NOUN","label":"NN","dependency":"forward","kind":"word","has_cjk":true}`, string(data))
}
