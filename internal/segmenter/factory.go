package segmenter

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/dshills/gobudou/internal/cache"
)

// Environment variables read by NewFromEnv
const (
	EnvSegmenter     = "BUDOU_SEGMENTER"
	EnvNLAPIEndpoint = "BUDOU_NLAPI_ENDPOINT"
)

// Config holds segmenter configuration
type Config struct {
	Name      string
	APIKey    string
	Endpoint  string
	MecabPath string
	Logger    *log.Logger
}

// Names returns every segmenter name New accepts
func Names() []string {
	return []string{NameNLAPI, NameMecab, NameWhitespace}
}

// NewFromEnv creates a segmenter based on environment variables.
// Priority:
// 1. BUDOU_SEGMENTER (nlapi, mecab, whitespace)
// 2. nlapi when BUDOU_NLAPI_KEY or GOOGLE_API_KEY is set
// 3. mecab when the binary is found
// 4. nlapi, which then reports the missing key
func NewFromEnv(c cache.Cache) (Segmenter, error) {
	return New(Config{
		Name:      DetectSegmenter(),
		Endpoint:  os.Getenv(EnvNLAPIEndpoint),
		MecabPath: os.Getenv(EnvMecabPath),
	}, c)
}

// New creates a segmenter with explicit configuration. The cache is used
// only by remote segmenters.
func New(cfg Config, c cache.Cache) (Segmenter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case NameNLAPI:
		return NewNLAPISegmenter(NLAPIConfig{
			APIKey:   cfg.APIKey,
			Endpoint: cfg.Endpoint,
			Logger:   cfg.Logger,
		}, c)
	case NameMecab:
		return NewMecabSegmenter(MecabConfig{Path: cfg.MecabPath})
	case NameWhitespace:
		return NewWhitespaceSegmenter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSegmenter, cfg.Name)
	}
}

// DetectSegmenter returns the segmenter NewFromEnv would create
func DetectSegmenter() string {
	if name := os.Getenv(EnvSegmenter); name != "" {
		return strings.ToLower(name)
	}

	if os.Getenv(EnvNLAPIKey) != "" || os.Getenv(EnvGoogleAPIKey) != "" {
		return NameNLAPI
	}

	path := os.Getenv(EnvMecabPath)
	if path == "" {
		path = DefaultMecabPath
	}
	if _, err := exec.LookPath(path); err == nil {
		return NameMecab
	}

	return NameNLAPI
}
