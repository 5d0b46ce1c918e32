package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dshills/gobudou/internal/cache"
	"github.com/dshills/gobudou/internal/mcp"
	"github.com/dshills/gobudou/internal/parser"
	"github.com/dshills/gobudou/internal/segmenter"
)

// Output formats of the parse command
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

var errInvalidAttribute = errors.New("attribute must be key=value")

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "chunk HTML fragments given as arguments or read from stdin",
		ArgsUsage: "[SOURCE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "BCP 47 language code, detected when empty",
			},
			&cli.StringFlag{
				Name:  "class",
				Usage: "class name of the chunk spans",
				Value: parser.DefaultClassName,
			},
			&cli.StringSliceFlag{
				Name:  "attr",
				Usage: "extra span attribute as key=value, repeatable",
			},
			&cli.IntFlag{
				Name:  "max-length",
				Usage: "leave chunks longer than this many characters unwrapped, zero means no limit",
			},
			&cli.BoolFlag{
				Name:  "entity",
				Usage: "keep named entities in one chunk",
			},
			&cli.BoolFlag{
				Name:  "keep-markup",
				Usage: "carry inline elements of the source into the output",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (json, html)",
				Value:   FormatJSON,
			},
		},
		Action: runParse,
	}
}

func runParse(c *cli.Context) error {
	format := strings.ToLower(c.String("format"))
	if format != FormatJSON && format != FormatHTML {
		return fmt.Errorf("unknown format %q", c.String("format"))
	}

	opts, err := parseOptions(c)
	if err != nil {
		return err
	}

	sources := c.Args().Slice()
	if len(sources) == 0 {
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sources = []string{string(data)}
	}

	ch, err := cache.New(cacheConfig(c))
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer func() { _ = ch.Close() }()

	seg, err := segmenter.New(segmenterConfig(c), ch)
	if err != nil {
		return fmt.Errorf("failed to initialize segmenter: %w", err)
	}

	p := parser.New(seg, &parser.Config{Workers: c.Int("workers"), Cache: ch, Logger: log.Default()})
	results, err := p.ParseBatch(c.Context, sources, opts)
	if err != nil {
		return err
	}

	return writeResults(c.App.Writer, results, format)
}

func parseOptions(c *cli.Context) (parser.Options, error) {
	opts := parser.Options{
		Language:   c.String("language"),
		ClassName:  c.String("class"),
		MaxLength:  c.Int("max-length"),
		UseEntity:  c.Bool("entity"),
		KeepMarkup: c.Bool("keep-markup"),
	}
	if opts.MaxLength < 0 {
		return opts, fmt.Errorf("max-length must not be negative: %d", opts.MaxLength)
	}

	attrs := c.StringSlice("attr")
	if len(attrs) > 0 {
		opts.Attributes = make(map[string]string, len(attrs))
		for _, kv := range attrs {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return opts, fmt.Errorf("%w: %q", errInvalidAttribute, kv)
			}
			opts.Attributes[k] = v
		}
	}

	return opts, nil
}

func writeResults(w io.Writer, results []*parser.Result, format string) error {
	if format == FormatHTML {
		for _, r := range results {
			if _, err := fmt.Fprintln(w, r.HTML); err != nil {
				return err
			}
		}
		return nil
	}

	var v interface{} = results
	if len(results) == 1 {
		v = results[0]
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			log.Printf("Budou MCP Server v%s starting...", version)
			log.Printf("Build Mode: %s, Driver: %s", cache.BuildMode, cache.DriverName)

			server, err := mcp.NewServerWithConfig(mcp.Config{
				Segmenter: segmenterConfig(c),
				Cache:     cacheConfig(c),
				Workers:   c.Int("workers"),
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return serve(c.Context, server)
		},
	}
}

func serve(parent context.Context, server *mcp.Server) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
