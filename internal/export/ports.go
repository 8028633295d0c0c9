// Package export holds the outbound ports for mirroring ledger data to
// external spreadsheets.
package export

import (
	"context"

	"fintrack/internal/core"
)

// TransactionMirror keeps one row per transaction, keyed by transaction ID.
type TransactionMirror interface {
	// UpsertTransaction writes the row for tx, replacing an existing one.
	UpsertTransaction(ctx context.Context, tx core.Transaction) error
	// RemoveTransaction clears the row for id. Unknown IDs are not an error.
	RemoveTransaction(ctx context.Context, id string) error
}
