package store

import (
	"context"

	"github.com/feral-file/royalty-ledger/internal/ledger"
)

// Store defines the interface for database operations. It extends the
// engine's Archive with schema management.
type Store interface {
	ledger.Archive
	// Migrate creates or updates the database schema
	Migrate(ctx context.Context) error
}
