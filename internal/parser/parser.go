package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/gobudou/internal/cache"
	"github.com/dshills/gobudou/internal/chunk"
	"github.com/dshills/gobudou/internal/segmenter"
)

// ErrNoSegmenter is returned when a Parser is used without a segmenter
var ErrNoSegmenter = errors.New("no segmenter configured")

// Options control a single parse
type Options struct {
	// Language is a BCP 47 code; empty lets the segmenter detect it
	Language string

	// Attributes are written on every chunk span
	Attributes map[string]string

	// ClassName replaces the class attribute when set
	ClassName string

	// MaxLength leaves chunks longer than this many code points unwrapped; zero means no limit
	MaxLength int

	// UseEntity merges named entities into single chunks when the segmenter can find them
	UseEntity bool

	// KeepMarkup carries inline elements of the source into the output
	KeepMarkup bool
}

// Result is the outcome of one parse
type Result struct {
	Chunks   []chunk.View `json:"chunks"`
	HTML     string       `json:"html_code"`
	Language string       `json:"language"`
}

// Config contains configuration for the parser
type Config struct {
	Workers int         // Concurrent parses in ParseBatch (default: runtime.NumCPU())
	Cache   cache.Cache // Optional cache of whole parse results
	Logger  *log.Logger // Receives cache failures; nil discards them
}

// Statistics counts the work done by a parser
type Statistics struct {
	Parses    int64 `json:"parses"`
	Failures  int64 `json:"failures"`
	Chunks    int64 `json:"chunks"`
	CacheHits int64 `json:"cache_hits"`
}

// Parser turns HTML fragments into chunked HTML with line-break opportunities
type Parser struct {
	seg     segmenter.Segmenter
	workers int
	cache   cache.Cache
	logger  *log.Logger

	parses    atomic.Int64
	failures  atomic.Int64
	chunks    atomic.Int64
	cacheHits atomic.Int64
}

// New creates a parser over seg. A nil config uses the defaults.
func New(seg segmenter.Segmenter, config *Config) *Parser {
	p := &Parser{seg: seg, workers: runtime.NumCPU()}
	if config != nil {
		if config.Workers > 0 {
			p.workers = config.Workers
		}
		p.cache = config.Cache
		p.logger = config.Logger
	}
	return p
}

// Segmenter returns the segmenter the parser was built with
func (p *Parser) Segmenter() segmenter.Segmenter {
	return p.seg
}

// Stats returns a snapshot of the parser counters
func (p *Parser) Stats() Statistics {
	return Statistics{
		Parses:    p.parses.Load(),
		Failures:  p.failures.Load(),
		Chunks:    p.chunks.Load(),
		CacheHits: p.cacheHits.Load(),
	}
}

// Parse segments the text of source and serializes the resolved chunks
func (p *Parser) Parse(ctx context.Context, source string, opts Options) (*Result, error) {
	key, cacheable := p.cacheKey(source, opts)
	if cacheable {
		if res, ok := p.lookup(ctx, key); ok {
			p.cacheHits.Add(1)
			p.parses.Add(1)
			return res, nil
		}
	}

	res, err := p.parse(ctx, source, opts)
	if err != nil {
		p.failures.Add(1)
		return nil, err
	}
	p.parses.Add(1)
	p.chunks.Add(int64(len(res.Chunks)))

	if cacheable {
		p.store(ctx, key, res)
	}
	return res, nil
}

// lookup returns a cached result. Cache failures count as misses.
func (p *Parser) lookup(ctx context.Context, key string) (*Result, bool) {
	data, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logf("result cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		p.logf("discarding corrupt result cache entry: %v", err)
		return nil, false
	}
	return &res, true
}

func (p *Parser) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		p.logf("result cache encode failed: %v", err)
		return
	}
	if err := p.cache.Set(ctx, key, data); err != nil {
		p.logf("result cache write failed: %v", err)
	}
}

func (p *Parser) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// cacheKey derives the result cache key from the segmenter, the source and
// every option that changes the output
func (p *Parser) cacheKey(source string, opts Options) (string, bool) {
	if p.cache == nil || p.seg == nil {
		return "", false
	}
	fingerprint, err := json.Marshal(opts)
	if err != nil {
		return "", false
	}
	return cache.Key(p.seg.Name(), "parse:"+string(fingerprint), source, opts.Language), true
}

func (p *Parser) parse(ctx context.Context, source string, opts Options) (*Result, error) {
	if p.seg == nil {
		return nil, ErrNoSegmenter
	}

	lang, err := segmenter.ValidateLanguage(p.seg, opts.Language)
	if err != nil {
		return nil, err
	}

	attributes := ParseAttributes(opts.Attributes, opts.ClassName)

	text, elements, err := Preprocess(source)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return &Result{Chunks: []chunk.View{}, Language: lang}, nil
	}

	seg, err := p.seg.Segment(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	if seg.Language != "" {
		lang = seg.Language
	}

	l, err := chunk.FromTokens(seg.Tokens, p.seg.Rule())
	if err != nil {
		return nil, fmt.Errorf("build chunks: %w", err)
	}

	if opts.UseEntity {
		if ex, ok := p.seg.(segmenter.EntityExtractor); ok {
			entities, err := ex.ExtractEntities(ctx, text, lang)
			if err != nil {
				return nil, fmt.Errorf("extract entities: %w", err)
			}
			if err := l.GroupByEntities(entities); err != nil {
				return nil, err
			}
		}
	}

	if opts.KeepMarkup {
		if err := l.GroupByElements(elements); err != nil {
			return nil, err
		}
	}

	l.ResolveDependencies()

	out, err := chunk.HTMLSerialize(l, attributes, opts.MaxLength)
	if err != nil {
		return nil, err
	}

	return &Result{
		Chunks:   l.Views(),
		HTML:     out,
		Language: lang,
	}, nil
}

// ParseBatch parses sources concurrently with the configured number of
// workers. Results keep the order of sources; the first error cancels the
// remaining parses.
func (p *Parser) ParseBatch(ctx context.Context, sources []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, source := range sources {
		g.Go(func() error {
			res, err := p.Parse(gctx, source, opts)
			if err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
