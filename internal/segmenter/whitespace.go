package segmenter

import (
	"context"
	"unicode"

	"github.com/dshills/gobudou/internal/chunk"
	"github.com/dshills/gobudou/pkg/types"
)

// WhitespaceLanguages are the languages whose words are space delimited
var WhitespaceLanguages = []string{"ko"}

// WhitespaceSegmenter splits text on white space. Korean separates words
// with spaces, so every word becomes one unbreakable chunk.
type WhitespaceSegmenter struct{}

// NewWhitespaceSegmenter creates a whitespace segmenter
func NewWhitespaceSegmenter() *WhitespaceSegmenter {
	return &WhitespaceSegmenter{}
}

func (w *WhitespaceSegmenter) Name() string { return NameWhitespace }

func (w *WhitespaceSegmenter) SupportedLanguages() []string {
	return append([]string(nil), WhitespaceLanguages...)
}

// Rule returns nil: tokens carry no labels and never merge
func (w *WhitespaceSegmenter) Rule() chunk.DependencyRule { return nil }

func (w *WhitespaceSegmenter) Segment(ctx context.Context, text, language string) (*Result, error) {
	lang, err := ValidateLanguage(w, language)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lang == "" {
		lang = WhitespaceLanguages[0]
	}

	res := &Result{Language: lang}
	start := -1
	var word []rune
	offset := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				res.Tokens = append(res.Tokens, newToken(string(word), start, len(res.Tokens)))
				word = word[:0]
				start = -1
			}
		} else {
			if start < 0 {
				start = offset
			}
			word = append(word, r)
		}
		offset++
	}
	if start >= 0 {
		res.Tokens = append(res.Tokens, newToken(string(word), start, len(res.Tokens)))
	}
	return res, nil
}

func newToken(content string, offset, index int) types.Token {
	return types.Token{
		Content:        content,
		BeginOffset:    offset,
		TokenIndex:     index,
		HeadTokenIndex: index,
	}
}
