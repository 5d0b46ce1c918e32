package segmenter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobudou/internal/chunk"
	"github.com/dshills/gobudou/pkg/types"
)

func chasenRows(rows ...string) string {
	return strings.Join(rows, "\n") + "\nEOS\n"
}

func fakeMecab(output string, err error) (CommandRunner, *[]string) {
	var inputs []string
	return func(_ context.Context, name string, args []string, stdin string) ([]byte, error) {
		inputs = append(inputs, name+" "+strings.Join(args, " ")+"|"+stdin)
		if err != nil {
			return nil, err
		}
		return []byte(output), nil
	}, &inputs
}

func TestMecabRule(t *testing.T) {
	tests := []struct {
		name string
		tok  types.Token
		want types.Direction
	}{
		{"particle", types.Token{PartOfSpeech: "助詞", Label: "係助詞"}, types.Backward},
		{"auxiliary verb", types.Token{PartOfSpeech: "助動詞"}, types.Backward},
		{"dependent noun", types.Token{PartOfSpeech: "名詞", Label: "非自立"}, types.Backward},
		{"noun", types.Token{PartOfSpeech: "名詞", Label: "一般"}, types.Unset},
		{"verb", types.Token{PartOfSpeech: "動詞", Label: "自立"}, types.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MecabRule(tt.tok))
		})
	}
}

func TestMecabSegmenter_Segment(t *testing.T) {
	runner, inputs := fakeMecab(chasenRows(
		"今日\tキョウ\t今日\t名詞-副詞可能\t\t",
		"は\tハ\tは\t助詞-係助詞\t\t",
		"晴れ\tハレ\t晴れ\t名詞-一般\t\t",
		"です\tデス\tです\t助動詞\t特殊・デス\t基本形",
	), nil)
	seg, err := NewMecabSegmenter(MecabConfig{Path: "/opt/mecab", Runner: runner})
	require.NoError(t, err)

	res, err := seg.Segment(context.Background(), "今日は晴れです", "")
	require.NoError(t, err)
	assert.Equal(t, "ja", res.Language)
	assert.Equal(t, []string{"/opt/mecab -Ochasen|今日は晴れです\n"}, *inputs)

	require.Len(t, res.Tokens, 4)
	assert.Equal(t, types.Token{
		Content: "は", BeginOffset: 2, PartOfSpeech: "助詞", Label: "係助詞", TokenIndex: 1, HeadTokenIndex: 1,
	}, res.Tokens[1])
	assert.Empty(t, res.Tokens[3].Label, "POS without subcategory has no label")

	l, err := chunk.FromTokens(res.Tokens, seg.Rule())
	require.NoError(t, err)
	l.ResolveDependencies()
	assert.Equal(t, []string{"今日は", "晴れです"}, l.Words())
}

func TestMecabSegmenter_SkipsSpaces(t *testing.T) {
	runner, _ := fakeMecab(chasenRows(
		"これ\tコレ\tこれ\t名詞-代名詞-一般\t\t",
		"が\tガ\tが\t助詞-格助詞-一般\t\t",
		"Android\tAndroid\tAndroid\t名詞-固有名詞-組織\t\t",
	), nil)
	seg, err := NewMecabSegmenter(MecabConfig{Runner: runner})
	require.NoError(t, err)

	res, err := seg.Segment(context.Background(), "これが Android", "ja")
	require.NoError(t, err)
	require.Len(t, res.Tokens, 3)
	assert.Equal(t, 4, res.Tokens[2].BeginOffset)

	l, err := chunk.FromTokens(res.Tokens, seg.Rule())
	require.NoError(t, err)
	l.ResolveDependencies()
	assert.Equal(t, []string{"これが", "\n", "Android"}, l.Words())
}

func TestMecabSegmenter_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("misaligned output", func(t *testing.T) {
		runner, _ := fakeMecab(chasenRows("明日\tアシタ\t明日\t名詞-副詞可能\t\t"), nil)
		seg, err := NewMecabSegmenter(MecabConfig{Runner: runner})
		require.NoError(t, err)

		_, err = seg.Segment(ctx, "今日", "ja")
		assert.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("malformed row", func(t *testing.T) {
		runner, _ := fakeMecab(chasenRows("今日\tキョウ"), nil)
		seg, err := NewMecabSegmenter(MecabConfig{Runner: runner})
		require.NoError(t, err)

		_, err = seg.Segment(ctx, "今日", "ja")
		assert.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("process failure", func(t *testing.T) {
		runner, _ := fakeMecab("", errors.New("exit status 1"))
		seg, err := NewMecabSegmenter(MecabConfig{Runner: runner})
		require.NoError(t, err)

		_, err = seg.Segment(ctx, "今日", "ja")
		assert.ErrorIs(t, err, ErrSegmenterFailed)
	})

	t.Run("unsupported language", func(t *testing.T) {
		runner, inputs := fakeMecab("", nil)
		seg, err := NewMecabSegmenter(MecabConfig{Runner: runner})
		require.NoError(t, err)

		_, err = seg.Segment(ctx, "你好", "zh")
		assert.ErrorIs(t, err, ErrUnsupportedLanguage)
		assert.Empty(t, *inputs)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := NewMecabSegmenter(MecabConfig{Path: "/nonexistent/mecab-binary"})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
