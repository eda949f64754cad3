// Package store persists the patient collection as a single unit. Every
// backend loads and saves the whole collection; there is no partial I/O
// and no locking across a load/save pair, so concurrent writers race and
// the last save wins.
package store

import (
	"context"
	"fmt"

	"patient-records/internal/models"
)

// Store loads and saves the full collection.
type Store interface {
	Load(ctx context.Context) (models.Collection, error)
	Save(ctx context.Context, c models.Collection) error
}

// StorageError reports a backing resource that is missing, unreadable,
// corrupt or could not be written.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func loadError(err error) error {
	return &StorageError{Op: "load", Err: err}
}

func saveError(err error) error {
	return &StorageError{Op: "save", Err: err}
}
