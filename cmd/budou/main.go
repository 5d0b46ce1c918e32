package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/dshills/gobudou/internal/cache"
	"github.com/dshills/gobudou/internal/segmenter"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// stdout is reserved for results and the MCP protocol
	log.SetOutput(os.Stderr)

	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatalf("budou: %v", err)
	}
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		printVersion(c.App.Writer)
	}

	return &cli.App{
		Name:      "budou",
		Usage:     "organize CJK text into chunks that break lines at word boundaries",
		Version:   version,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			parseCommand(),
			serveCommand(),
			{
				Name:  "version",
				Usage: "print build information",
				Action: func(c *cli.Context) error {
					printVersion(c.App.Writer)
					return nil
				},
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "segmenter",
			Aliases: []string{"s"},
			Usage:   fmt.Sprintf("segmenter backend (%v), detected when empty", segmenter.Names()),
			EnvVars: []string{segmenter.EnvSegmenter},
		},
		&cli.StringFlag{
			Name:    "nlapi-key",
			Usage:   "Cloud Natural Language API key",
			EnvVars: []string{segmenter.EnvNLAPIKey, segmenter.EnvGoogleAPIKey},
		},
		&cli.StringFlag{
			Name:    "nlapi-endpoint",
			Usage:   "Cloud Natural Language API base URL",
			Value:   segmenter.DefaultNLAPIEndpoint,
			EnvVars: []string{segmenter.EnvNLAPIEndpoint},
		},
		&cli.StringFlag{
			Name:    "mecab-path",
			Usage:   "path of the mecab binary",
			Value:   segmenter.DefaultMecabPath,
			EnvVars: []string{segmenter.EnvMecabPath},
		},
		&cli.StringFlag{
			Name:    "cache",
			Usage:   "cache backend (memory, sqlite, none)",
			Value:   cache.BackendMemory,
			EnvVars: []string{"BUDOU_CACHE"},
		},
		&cli.StringFlag{
			Name:    "cache-path",
			Usage:   "SQLite cache database path",
			EnvVars: []string{"BUDOU_CACHE_PATH"},
		},
		&cli.IntFlag{
			Name:    "cache-size",
			Usage:   "in-memory cache entry limit",
			Value:   cache.DefaultMemorySize,
			EnvVars: []string{"BUDOU_CACHE_SIZE"},
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "SQLite cache entry lifetime, zero keeps entries forever",
			EnvVars: []string{"BUDOU_CACHE_TTL"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "concurrent parses for batch input, zero uses every CPU",
			EnvVars: []string{"BUDOU_WORKERS"},
		},
	}
}

func cacheConfig(c *cli.Context) cache.Config {
	return cache.Config{
		Backend: c.String("cache"),
		Path:    c.String("cache-path"),
		Size:    c.Int("cache-size"),
		TTL:     c.Duration("cache-ttl"),
	}
}

func segmenterConfig(c *cli.Context) segmenter.Config {
	name := c.String("segmenter")
	if name == "" {
		name = segmenter.DetectSegmenter()
	}
	return segmenter.Config{
		Name:      name,
		APIKey:    c.String("nlapi-key"),
		Endpoint:  c.String("nlapi-endpoint"),
		MecabPath: c.String("mecab-path"),
		Logger:    log.Default(),
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Budou\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Build Mode: %s\n", cache.BuildMode)
	fmt.Fprintf(w, "SQLite Driver: %s\n", cache.DriverName)
	fmt.Fprintf(w, "Go: %s\n", runtime.Version())
}
