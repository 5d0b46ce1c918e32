package segmenter

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/dshills/gobudou/internal/chunk"
	"github.com/dshills/gobudou/pkg/types"
)

var (
	// ErrUnsupportedLanguage is returned when a segmenter cannot handle the requested language
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrUnknownSegmenter is returned by the factory for an unrecognized segmenter name
	ErrUnknownSegmenter = errors.New("unknown segmenter")
	// ErrNotConfigured is returned when a segmenter is missing credentials or a binary
	ErrNotConfigured = errors.New("segmenter not configured")
	// ErrSegmenterFailed is returned when the underlying service or process fails
	ErrSegmenterFailed = errors.New("segmenter failed")
	// ErrMisaligned is returned when segmenter output does not line up with the input text
	ErrMisaligned = errors.New("segmenter output does not match input")
)

// Segmenter names
const (
	NameNLAPI      = "nlapi"
	NameWhitespace = "whitespace"
	NameMecab      = "mecab"
)

// Result is the tokenization of one text
type Result struct {
	Tokens []types.Token `json:"tokens"`

	// Language is the detected or requested language of the text
	Language string `json:"language"`
}

// Segmenter splits text into tokens with offsets and syntactic metadata
type Segmenter interface {
	// Name returns the segmenter name
	Name() string

	// SupportedLanguages returns the BCP 47 codes the segmenter accepts
	SupportedLanguages() []string

	// Segment tokenizes text. An empty language asks the segmenter to detect it.
	Segment(ctx context.Context, text, language string) (*Result, error)

	// Rule returns the dependency rule matching the labels this segmenter emits
	Rule() chunk.DependencyRule
}

// EntityExtractor is implemented by segmenters that can also locate named entities
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text, language string) ([]types.Entity, error)
}

// NormalizeLanguage canonicalizes a BCP 47 code, so "zh-tw" becomes "zh-TW"
func NormalizeLanguage(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedLanguage, code, err)
	}
	return tag.String(), nil
}

// ValidateLanguage normalizes code and checks that seg supports it.
// An empty code is returned unchanged.
func ValidateLanguage(seg Segmenter, code string) (string, error) {
	if code == "" {
		return "", nil
	}

	normalized, err := NormalizeLanguage(code)
	if err != nil {
		return "", err
	}

	for _, supported := range seg.SupportedLanguages() {
		if supported == normalized {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not supported by %s segmenter", ErrUnsupportedLanguage, code, seg.Name())
}
