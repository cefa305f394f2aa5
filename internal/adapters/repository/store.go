// Package repository persists tournaments as one JSON document each.
package repository

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
)

// Store provides raw access to tournament documents by key.
type Store interface {
	// List returns the keys of every stored document.
	List(ctx context.Context) ([]string, error)
	// Read returns the document stored under key.
	// Returns ErrNotFound if there is none.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the document stored under key.
	Write(ctx context.Context, key string, data []byte) error
}

// Key derives the storage key of a tournament from its name.
func Key(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}
