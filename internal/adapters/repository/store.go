// Package repository defines the projection result store interface and errors.
package repository

import (
	"context"

	"github.com/okian/popcast/internal/domain/types"
)

// Export column labels.
const (
	ColumnLocality     = "Ville"
	ColumnCoefficientA = "Coefficient a"
	ColumnCoefficientB = "Coefficient b"
	ColumnCoefficientC = "Coefficient c"
)

// Entry is one locality and its projection record.
type Entry struct {
	Locality string
	Record   types.Record
}

// Table is the flattened export form of the store. Header cells are either
// strings (labels) or ints (calendar years). Row cells are strings, float64
// values, or nil when a record lacks a year present in another record.
type Table struct {
	Header []any
	Rows   [][]any
}

// Store provides read/write access to projection results keyed by locality.
type Store interface {
	// Upsert inserts or replaces the record for locality. Last write wins.
	Upsert(ctx context.Context, locality string, rec types.Record) error

	// Get returns the record for locality.
	// Returns ErrNotFound if the locality is unknown.
	Get(ctx context.Context, locality string) (types.Record, error)

	// All returns every entry in insertion order.
	All(ctx context.Context) Snapshot

	// Clear removes every entry. Clearing an empty store is a no-op.
	Clear(ctx context.Context)

	// Count returns the number of localities stored.
	Count(ctx context.Context) int

	// Table flattens the store for export. ok is false when the store is empty.
	Table(ctx context.Context) (t Table, ok bool)
}
