package segmenter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/gobudou/internal/chunk"
	"github.com/dshills/gobudou/pkg/types"
)

const (
	// DefaultMecabPath is the MeCab binary looked up on PATH
	DefaultMecabPath = "mecab"

	// EnvMecabPath overrides the MeCab binary location
	EnvMecabPath = "BUDOU_MECAB_PATH"

	mecabEOS = "EOS"
)

// MecabLanguages are the languages MeCab with IPAdic segments
var MecabLanguages = []string{"ja"}

var (
	mecabBackwardPOS   = map[string]struct{}{"助詞": {}, "助動詞": {}}
	mecabBackwardLabel = map[string]struct{}{"非自立": {}}
)

// MecabRule attaches particles, auxiliary verbs and dependent words to the
// preceding chunk
func MecabRule(tok types.Token) types.Direction {
	if _, ok := mecabBackwardPOS[tok.PartOfSpeech]; ok {
		return types.Backward
	}
	if _, ok := mecabBackwardLabel[tok.Label]; ok {
		return types.Backward
	}
	return types.Unset
}

// CommandRunner runs name with args, feeding stdin, and returns its stdout
type CommandRunner func(ctx context.Context, name string, args []string, stdin string) ([]byte, error)

// MecabConfig configures the MeCab segmenter
type MecabConfig struct {
	// Path is the MeCab binary; it is resolved with exec.LookPath
	Path string

	// Runner replaces process execution, mainly for tests
	Runner CommandRunner
}

// MecabSegmenter segments Japanese text with an external MeCab process in
// ChaSen output mode
type MecabSegmenter struct {
	path string
	run  CommandRunner
}

// NewMecabSegmenter creates a MeCab segmenter. Without a Runner the binary
// must be found on disk.
func NewMecabSegmenter(cfg MecabConfig) (*MecabSegmenter, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultMecabPath
	}

	run := cfg.Runner
	if run == nil {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return nil, fmt.Errorf("%w: mecab binary %q: %v", ErrNotConfigured, path, err)
		}
		path = resolved
		run = execRunner
	}

	return &MecabSegmenter{path: path, run: run}, nil
}

func execRunner(ctx context.Context, name string, args []string, stdin string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (m *MecabSegmenter) Name() string { return NameMecab }

func (m *MecabSegmenter) SupportedLanguages() []string {
	return append([]string(nil), MecabLanguages...)
}

func (m *MecabSegmenter) Rule() chunk.DependencyRule { return MecabRule }

func (m *MecabSegmenter) Segment(ctx context.Context, text, language string) (*Result, error) {
	lang, err := ValidateLanguage(m, language)
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = MecabLanguages[0]
	}
	if text == "" {
		return &Result{Language: lang}, nil
	}

	out, err := m.run(ctx, m.path, []string{"-Ochasen"}, text+"\n")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: mecab: %w", ErrSegmenterFailed, err)
	}

	tokens, err := parseChasen(text, string(out))
	if err != nil {
		return nil, err
	}
	return &Result{Tokens: tokens, Language: lang}, nil
}

// parseChasen converts ChaSen formatted rows (surface, reading, base form,
// POS with hyphenated subcategories, ...) into tokens aligned with source.
// MeCab drops white space, so the cursor skips it between surfaces.
func parseChasen(source, output string) ([]types.Token, error) {
	src := []rune(source)
	seek := 0

	var tokens []types.Token
	for _, row := range strings.Split(output, "\n") {
		row = strings.TrimRight(row, "\r")
		if row == "" || row == mecabEOS {
			continue
		}

		fields := strings.Split(row, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: malformed mecab row %q", ErrMisaligned, row)
		}
		word := fields[0]
		labels := strings.Split(fields[3], "-")
		pos := labels[0]
		label := ""
		if len(labels) > 1 {
			label = labels[1]
		}

		w := []rune(word)
		for seek < len(src) && !hasPrefixAt(src, w, seek) && unicode.IsSpace(src[seek]) {
			seek++
		}
		if !hasPrefixAt(src, w, seek) {
			return nil, fmt.Errorf("%w: %q not found at offset %d", ErrMisaligned, word, seek)
		}

		tokens = append(tokens, types.Token{
			Content:        word,
			BeginOffset:    seek,
			Label:          label,
			PartOfSpeech:   pos,
			TokenIndex:     len(tokens),
			HeadTokenIndex: len(tokens),
		})
		seek += utf8.RuneCountInString(word)
	}
	return tokens, nil
}

func hasPrefixAt(src, word []rune, at int) bool {
	if len(word) == 0 || at+len(word) > len(src) {
		return false
	}
	for i, r := range word {
		if src[at+i] != r {
			return false
		}
	}
	return true
}
