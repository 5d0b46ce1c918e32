package segmenter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/gobudou/internal/cache"
	"github.com/dshills/gobudou/internal/chunk"
	"github.com/dshills/gobudou/pkg/types"
)

const (
	// DefaultNLAPIEndpoint is the base URL of the annotation service
	DefaultNLAPIEndpoint = "https://language.googleapis.com/v1beta2"

	// EnvNLAPIKey and EnvGoogleAPIKey hold the API key, in priority order
	EnvNLAPIKey     = "BUDOU_NLAPI_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"

	// Offsets in every response are code points
	encodingUTF32 = "UTF32"

	methodAnnotate = "annotate"
	methodEntities = "entities"
)

// NLAPILanguages are the languages the annotation service segments
var NLAPILanguages = []string{"ja", "ko", "zh", "zh-TW", "zh-CN", "zh-HK"}

// NLAPIConfig configures the annotation service client
type NLAPIConfig struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
	Retry      *RetryConfig
	Logger     *log.Logger
}

// NLAPISegmenter segments text with the remote syntax annotation service
type NLAPISegmenter struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	cache      cache.Cache
	retry      RetryConfig
	logger     *log.Logger
}

// NewNLAPISegmenter creates a client for the annotation service. A nil
// cache disables caching.
func NewNLAPISegmenter(cfg NLAPIConfig, c cache.Cache) (*NLAPISegmenter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvNLAPIKey)
	}
	if apiKey == "" {
		apiKey = os.Getenv(EnvGoogleAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNotConfigured, EnvNLAPIKey)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultNLAPIEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	retry := DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}
	if retry.Logger == nil {
		retry.Logger = cfg.Logger
	}

	if c == nil {
		c = cache.NewNop()
	}

	return &NLAPISegmenter{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: httpClient,
		cache:      c,
		retry:      retry,
		logger:     cfg.Logger,
	}, nil
}

func (n *NLAPISegmenter) Name() string { return NameNLAPI }

func (n *NLAPISegmenter) SupportedLanguages() []string {
	return append([]string(nil), NLAPILanguages...)
}

func (n *NLAPISegmenter) Rule() chunk.DependencyRule { return chunk.SyntaxRule }

// Segment returns the syntax tokens of text
func (n *NLAPISegmenter) Segment(ctx context.Context, text, language string) (*Result, error) {
	lang, err := ValidateLanguage(n, language)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return &Result{Language: lang}, nil
	}

	key := cache.Key(NameNLAPI, methodAnnotate, text, lang)
	var result Result
	if n.lookup(ctx, key, &result) {
		return &result, nil
	}

	res, err := retryWithBackoff(ctx, n.retry, func() (*Result, error) {
		return n.annotate(ctx, text, lang)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: annotate text: %w", ErrSegmenterFailed, err)
	}

	n.store(ctx, key, res)
	return res, nil
}

// ExtractEntities returns one entity per whitespace separated word of every
// entity's first mention
func (n *NLAPISegmenter) ExtractEntities(ctx context.Context, text, language string) ([]types.Entity, error) {
	lang, err := ValidateLanguage(n, language)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	key := cache.Key(NameNLAPI, methodEntities, text, lang)
	var entities []types.Entity
	if n.lookup(ctx, key, &entities) {
		return entities, nil
	}

	entities, err = retryWithBackoff(ctx, n.retry, func() ([]types.Entity, error) {
		return n.analyzeEntities(ctx, text, lang)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: analyze entities: %w", ErrSegmenterFailed, err)
	}

	n.store(ctx, key, entities)
	return entities, nil
}

// lookup decodes a cached response into v. Cache failures count as misses.
func (n *NLAPISegmenter) lookup(ctx context.Context, key string, v interface{}) bool {
	data, ok, err := n.cache.Get(ctx, key)
	if err != nil {
		n.logf("cache read failed: %v", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		n.logf("discarding corrupt cache entry: %v", err)
		return false
	}
	return true
}

func (n *NLAPISegmenter) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		n.logf("cache encode failed: %v", err)
		return
	}
	if err := n.cache.Set(ctx, key, data); err != nil {
		n.logf("cache write failed: %v", err)
	}
}

func (n *NLAPISegmenter) logf(format string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Printf(format, args...)
	}
}

type nlapiDocument struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

type nlapiTextSpan struct {
	Content     string `json:"content"`
	BeginOffset int    `json:"beginOffset"`
}

func (n *NLAPISegmenter) annotate(ctx context.Context, text, lang string) (*Result, error) {
	reqBody := map[string]interface{}{
		"document": nlapiDocument{Type: "PLAIN_TEXT", Content: text, Language: lang},
		"features": map[string]bool{
			"extractSyntax": true,
		},
		"encodingType": encodingUTF32,
	}

	var apiResp struct {
		Tokens []struct {
			Text         nlapiTextSpan `json:"text"`
			PartOfSpeech struct {
				Tag string `json:"tag"`
			} `json:"partOfSpeech"`
			DependencyEdge struct {
				HeadTokenIndex int    `json:"headTokenIndex"`
				Label          string `json:"label"`
			} `json:"dependencyEdge"`
		} `json:"tokens"`
		Language string `json:"language"`
	}

	if err := n.call(ctx, "documents:annotateText", reqBody, &apiResp); err != nil {
		return nil, err
	}

	res := &Result{
		Tokens:   make([]types.Token, len(apiResp.Tokens)),
		Language: apiResp.Language,
	}
	if res.Language == "" {
		res.Language = lang
	}
	for i, tok := range apiResp.Tokens {
		res.Tokens[i] = types.Token{
			Content:        tok.Text.Content,
			BeginOffset:    tok.Text.BeginOffset,
			Label:          tok.DependencyEdge.Label,
			PartOfSpeech:   tok.PartOfSpeech.Tag,
			HeadTokenIndex: tok.DependencyEdge.HeadTokenIndex,
			TokenIndex:     i,
		}
	}
	return res, nil
}

func (n *NLAPISegmenter) analyzeEntities(ctx context.Context, text, lang string) ([]types.Entity, error) {
	reqBody := map[string]interface{}{
		"document":     nlapiDocument{Type: "PLAIN_TEXT", Content: text, Language: lang},
		"encodingType": encodingUTF32,
	}

	var apiResp struct {
		Entities []struct {
			Name     string `json:"name"`
			Mentions []struct {
				Text nlapiTextSpan `json:"text"`
			} `json:"mentions"`
		} `json:"entities"`
	}

	if err := n.call(ctx, "documents:analyzeEntities", reqBody, &apiResp); err != nil {
		return nil, err
	}

	var entities []types.Entity
	for _, e := range apiResp.Entities {
		if len(e.Mentions) == 0 {
			continue
		}
		mention := e.Mentions[0].Text
		offset := mention.BeginOffset
		// Offsets advance by word length only; GetOverlaps absorbs the space
		// this leaves in front of every later word.
		for _, word := range strings.Fields(mention.Content) {
			entities = append(entities, types.Entity{Content: word, BeginOffset: offset})
			offset += utf8.RuneCountInString(word)
		}
	}
	return entities, nil
}

func (n *NLAPISegmenter) call(ctx context.Context, method string, reqBody interface{}, out interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	u := n.endpoint + "/" + method + "?key=" + url.QueryEscape(n.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &apiError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
