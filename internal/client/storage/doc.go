// Package storage opens the local SQLite database used by the CLI and brings
// its schema up to date with embedded goose migrations.
package storage
