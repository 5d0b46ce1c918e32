//go:build purego || !cgo_sqlite
// +build purego !cgo_sqlite

package cache

// Default driver. Needs no C toolchain.

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver opened by NewSQLite
	DriverName = "sqlite"

	// BuildMode is reported by the version command and get_status
	BuildMode = "purego"
)
