// Package storage provides abstractions for persistent data storage.
//
// State is persisted as three opaque JSON records keyed by logical name. The store
// neither interprets nor validates them beyond decoding.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

// Logical record keys.
const (
	KeyExpenses     = "expenses"
	KeySettledBills = "settled_bills"
	KeyMembers      = "members"
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt record")

// Store defines the interface for state persistence.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the state or service layers.
type Store interface {
	// SaveExpenses replaces the active expense list.
	SaveExpenses(ctx context.Context, expenses []models.Expense) error

	// LoadExpenses returns the active expense list, or an empty list if none was saved.
	LoadExpenses(ctx context.Context) ([]models.Expense, error)

	// SaveSettledBills replaces the settlement history.
	SaveSettledBills(ctx context.Context, bills []models.SettledBill) error

	// LoadSettledBills returns the settlement history, newest first.
	LoadSettledBills(ctx context.Context) ([]models.SettledBill, error)

	// SaveMembers replaces the list of members added at runtime.
	SaveMembers(ctx context.Context, members []models.Member) error

	// LoadMembers returns the members added at runtime.
	LoadMembers(ctx context.Context) ([]models.Member, error)

	// ClearAll removes every record.
	ClearAll(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
