//go:build cgo_sqlite && !purego
// +build cgo_sqlite,!purego

package cache

// Selected with the cgo_sqlite tag:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver opened by NewSQLite
	DriverName = "sqlite3"

	// BuildMode is reported by the version command and get_status
	BuildMode = "cgo"
)
