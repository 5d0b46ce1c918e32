package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/gobudou/internal/cache"
	"github.com/dshills/gobudou/internal/parser"
	"github.com/dshills/gobudou/internal/segmenter"
)

// MCP error codes
const (
	ErrorCodeInvalidParams       = -32602 // Invalid method parameters
	ErrorCodeInternalError       = -32603 // Internal JSON-RPC error
	ErrorCodeUnsupportedLanguage = -32001 // The segmenter cannot handle the language
	ErrorCodeSegmenterFailed     = -32002 // The segmenter service or process failed
	ErrorCodeEmptySource         = -32004 // Source parameter is missing
)

// MaxBatchSize limits the number of sources accepted by parse_batch
const MaxBatchSize = 100

// handleParseHTML handles the parse_html tool invocation
func (s *Server) handleParseHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeEmptySource, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or not a string",
		})
	}

	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}

	res, err := s.parser.Parse(ctx, source, opts)
	if err != nil {
		return nil, parseError(err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"chunks":    res.Chunks,
		"html_code": res.HTML,
		"language":  res.Language,
	})), nil
}

// handleParseBatch handles the parse_batch tool invocation
func (s *Server) handleParseBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	raw, ok := args["sources"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, newMCPError(ErrorCodeEmptySource, "sources parameter is required", map[string]interface{}{
			"param":  "sources",
			"reason": "missing or empty",
		})
	}
	if len(raw) > MaxBatchSize {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("at most %d sources are allowed", MaxBatchSize), map[string]interface{}{
			"param": "sources",
			"value": len(raw),
		})
	}

	sources := make([]string, len(raw))
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "sources must be strings", map[string]interface{}{
				"param": "sources",
				"index": i,
			})
		}
		sources[i] = str
	}

	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}

	results, err := s.parser.ParseBatch(ctx, sources, opts)
	if err != nil {
		return nil, parseError(err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count":   len(results),
		"results": results,
	})), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seg := s.parser.Segmenter()
	_, entities := seg.(segmenter.EntityExtractor)

	entries, err := s.cache.Len(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	cacheInfo := map[string]interface{}{
		"backend": cacheBackend(s.cache),
		"entries": entries,
	}
	if sqlite, ok := s.cache.(*cache.SQLite); ok {
		stats, err := sqlite.Stats(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to read cache stats", map[string]interface{}{
				"error": err.Error(),
			})
		}
		cacheInfo["hits"] = stats.Hits
		cacheInfo["expired"] = stats.Expired
		cacheInfo["size_mb"] = fmt.Sprintf("%.2f", stats.SizeMB)
		cacheInfo["schema_version"] = stats.Schema
		cacheInfo["build_mode"] = stats.BuildMode
	}

	stats := s.parser.Stats()
	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
		"segmenter": map[string]interface{}{
			"name":      seg.Name(),
			"languages": seg.SupportedLanguages(),
			"entities":  entities,
		},
		"cache": cacheInfo,
		"statistics": map[string]interface{}{
			"parses":     stats.Parses,
			"failures":   stats.Failures,
			"chunks":     stats.Chunks,
			"cache_hits": stats.CacheHits,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// parseError maps parser failures to MCP errors
func parseError(err error) error {
	data := map[string]interface{}{"error": err.Error()}
	switch {
	case errors.Is(err, segmenter.ErrUnsupportedLanguage):
		return newMCPError(ErrorCodeUnsupportedLanguage, "unsupported language", data)
	case errors.Is(err, segmenter.ErrSegmenterFailed), errors.Is(err, segmenter.ErrMisaligned):
		return newMCPError(ErrorCodeSegmenterFailed, "segmentation failed", data)
	default:
		return newMCPError(ErrorCodeInternalError, "parse failed", data)
	}
}

// parseOptions reads the shared parse options from tool arguments
func parseOptions(args map[string]interface{}) (parser.Options, error) {
	opts := parser.Options{
		Language:   getStringDefault(args, "language", ""),
		ClassName:  getStringDefault(args, "class_name", ""),
		MaxLength:  getIntDefault(args, "max_length", 0),
		UseEntity:  getBoolDefault(args, "use_entity", false),
		KeepMarkup: getBoolDefault(args, "keep_markup", false),
	}

	if opts.MaxLength < 0 {
		return opts, newMCPError(ErrorCodeInvalidParams, "max_length must not be negative", map[string]interface{}{
			"param": "max_length",
			"value": opts.MaxLength,
		})
	}

	if raw, ok := args["attributes"]; ok && raw != nil {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return opts, newMCPError(ErrorCodeInvalidParams, "attributes must be an object", map[string]interface{}{
				"param": "attributes",
			})
		}
		opts.Attributes = make(map[string]string, len(m))
		for k, v := range m {
			str, ok := v.(string)
			if !ok {
				return opts, newMCPError(ErrorCodeInvalidParams, "attribute values must be strings", map[string]interface{}{
					"param": "attributes",
					"key":   k,
				})
			}
			opts.Attributes[k] = str
		}
	}

	return opts, nil
}

func cacheBackend(c cache.Cache) string {
	switch c.(type) {
	case *cache.Memory:
		return cache.BackendMemory
	case *cache.SQLite:
		return cache.BackendSQLite
	case cache.Nop:
		return cache.BackendNone
	default:
		return fmt.Sprintf("%T", c)
	}
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
