// Package cache provides the explicit cache port used by segmenters.
//
// Remote segmenters look up a key before calling their service and store
// the serialized response afterwards. Nothing is cached implicitly: the
// cache is constructed by the caller and handed to the segmenter.
//
// # Backends
//
//   - Memory: in-process LRU (hashicorp/golang-lru)
//   - SQLite: persistent database with versioned migrations
//   - Nop: caching disabled
//
// # Basic Usage
//
//	c, err := cache.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	key := cache.Key("nlapi", "annotate", text, "ja")
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
//
// # Build Modes
//
// The SQLite driver is selected at build time:
//
//	CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...   # mattn/go-sqlite3
//	CGO_ENABLED=0 go build ./...                      # modernc.org/sqlite
package cache
