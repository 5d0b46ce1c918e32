package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/gobudou/internal/cache"
	"github.com/dshills/gobudou/internal/parser"
	"github.com/dshills/gobudou/internal/segmenter"
)

const (
	// ServerName is the MCP server name
	ServerName = "budou-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	parser *parser.Parser
	cache  cache.Cache
}

// Config holds the dependencies of a server built by NewServerFromEnv
type Config struct {
	Segmenter segmenter.Config
	Cache     cache.Config
	Workers   int
}

// NewServer creates an MCP server over an existing segmenter and cache.
// The server owns the cache and closes it when Serve returns.
func NewServer(seg segmenter.Segmenter, c cache.Cache, workers int) (*Server, error) {
	if seg == nil {
		return nil, fmt.Errorf("failed to initialize parser: %w", parser.ErrNoSegmenter)
	}
	if c == nil {
		c = cache.NewNop()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		parser: parser.New(seg, &parser.Config{Workers: workers, Cache: c, Logger: log.Default()}),
		cache:  c,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// NewServerFromEnv builds the cache and segmenter from the environment
func NewServerFromEnv(workers int) (*Server, error) {
	c, err := cache.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	seg, err := segmenter.NewFromEnv(c)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize segmenter: %w", err)
	}

	return NewServer(seg, c, workers)
}

// NewServerWithConfig builds the cache and segmenter from explicit configuration
func NewServerWithConfig(cfg Config) (*Server, error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	seg, err := segmenter.New(cfg.Segmenter, c)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize segmenter: %w", err)
	}

	return NewServer(seg, c, cfg.Workers)
}

// Parser returns the parser behind the tools
func (s *Server) Parser() *parser.Parser {
	return s.parser
}

// Close releases the cache
func (s *Server) Close() error {
	return s.cache.Close()
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(parseHTMLTool(), s.handleParseHTML)
	s.mcp.AddTool(parseBatchTool(), s.handleParseBatch)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
