//go:build cgo
// +build cgo

package store

// With cgo available the mattn driver is used; sqlite_nocgo.go carries
// the pure-Go fallback.
import (
	_ "github.com/mattn/go-sqlite3"
)

const sqliteDriver = "sqlite3"
