// Package services implements the ledger use cases on top of the store ports.
//
// Every method takes the caller's user ID and scopes all reads and writes to
// it. Errors are classified with the core error kinds so the transport layer
// can map them without inspecting messages.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Clock returns the current time; tests replace it for deterministic dates.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

// lookupErr collapses missing and foreign-owned entities into one NotFound.
func lookupErr(entity string, err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFound(entity)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}

// saveErr turns unique-key violations into conflicts.
func saveErr(entity string, err error) error {
	if errors.Is(err, core.ErrDuplicate) {
		return core.Conflict(entity+" already exists", err)
	}
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFound(entity)
	}
	return fmt.Errorf("save %s: %w", entity, err)
}

// WalletRef and CategoryRef are the display fields attached to read models.
type (
	WalletRef struct {
		ID    string
		Name  string
		Type  core.WalletType
		Icon  string
		Color string
	}

	CategoryRef struct {
		ID    string
		Name  string
		Type  core.CategoryType
		Icon  string
		Color string
	}
)

func walletRef(w core.Wallet) *WalletRef {
	return &WalletRef{ID: w.ID, Name: w.Name, Type: w.Type, Icon: w.Icon, Color: w.Color}
}

func categoryRef(c core.Category) *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, Type: c.Type, Icon: c.Icon, Color: c.Color}
}
