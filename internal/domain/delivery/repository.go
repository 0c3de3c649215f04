package delivery

import (
	"context"
)

// Repository describes the persistence operations for Delivery records.
// Implementations are backed by a local SQLite database, one row per record
// keyed by id.
type Repository interface {
	// List returns all records in insertion order. An empty database yields
	// an empty slice and a nil error; a read failure is an error, never a
	// silent empty result.
	List(ctx context.Context) ([]Delivery, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Delivery, error)

	// Save inserts the record, or replaces it in place when the id already
	// exists.
	Save(ctx context.Context, d *Delivery) error

	// Delete removes the record with the given id. Deleting an absent id is
	// a no-op, not an error.
	Delete(ctx context.Context, id string) error
}
