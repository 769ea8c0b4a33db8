package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
)

// Load rebuilds the application state from store. The roster is the default roster
// merged with the stored custom members.
//
// A record that fails to load is replaced with an empty list and logged, so one corrupt
// record does not take down the others. The returned error joins every such failure;
// the snapshot is usable either way.
func Load(ctx context.Context, store Store, defaults []models.Member) (state.Snapshot, error) {
	snap := state.Cleared(defaults)
	var errs []error

	expenses, err := store.LoadExpenses(ctx)
	if err != nil {
		slog.Error("Failed to load expenses", "error", err)
		errs = append(errs, fmt.Errorf("failed to load expenses: %w", err))
	} else {
		snap.Expenses = expenses
	}

	bills, err := store.LoadSettledBills(ctx)
	if err != nil {
		slog.Error("Failed to load settled bills", "error", err)
		errs = append(errs, fmt.Errorf("failed to load settled bills: %w", err))
	} else {
		snap.History = bills
	}

	members, err := store.LoadMembers(ctx)
	if err != nil {
		slog.Error("Failed to load members", "error", err)
		errs = append(errs, fmt.Errorf("failed to load members: %w", err))
	} else {
		snap.Members = models.MergeRoster(defaults, members)
	}

	slog.Debug("State loaded",
		"members", len(snap.Members),
		"expenses", len(snap.Expenses),
		"settled_bills", len(snap.History),
	)
	return snap, errors.Join(errs...)
}
