package chunk

import (
	"unicode/utf8"

	"github.com/dshills/gobudou/pkg/types"
)

// DependentLabels are the dependency labels whose tokens merge toward their
// syntactic head
var DependentLabels = map[string]struct{}{
	"P":       {},
	"SNUM":    {},
	"PRT":     {},
	"AUX":     {},
	"SUFF":    {},
	"AUXPASS": {},
	"RDROP":   {},
	"NUMBER":  {},
	"NUM":     {},
	"PREF":    {},
}

// DependencyRule decides the merge direction of the chunk built from tok
type DependencyRule func(tok types.Token) types.Direction

// SyntaxRule merges tokens with a dependent label toward their head token
func SyntaxRule(tok types.Token) types.Direction {
	if _, ok := DependentLabels[tok.Label]; !ok {
		return types.Unset
	}
	if tok.TokenIndex < tok.HeadTokenIndex {
		return types.Forward
	}
	return types.Backward
}

// FromTokens builds a list from tokens in text order. A space chunk is
// inserted wherever a token starts past the end of the previous one.
// Punctuation tokens always attach by their own category regardless of rule.
//
// A gap of any width becomes one space, so the list text matches the
// segmented text only when it has no runs of white space. Preprocess
// collapses such runs before segmentation.
func FromTokens(tokens []types.Token, rule DependencyRule) (*List, error) {
	l := NewList()
	seek := 0
	for i := range tokens {
		tok := tokens[i]
		if err := tok.Validate(); err != nil {
			return nil, err
		}

		if tok.BeginOffset > seek {
			l.Append(NewSpace())
			seek = tok.BeginOffset
		}

		c := NewWord(tok.Content, tok.PartOfSpeech, tok.Label)
		if rule != nil {
			c.SetDependency(rule(tok))
		}
		if c.IsPunct() {
			c.SetDependency(c.punctDirection())
		}
		l.Append(c)
		seek += utf8.RuneCountInString(tok.Content)
	}
	return l, nil
}
