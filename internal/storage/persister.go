package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/state"
)

// DefaultWriteTimeout bounds a single persistence write.
const DefaultWriteTimeout = 5 * time.Second

// Persister writes state transitions to a Store.
//
// Writes happen after the transition has been committed in memory. A failed write is
// logged and dropped: the in-memory state stays authoritative for the session and the
// next successful write of the same record catches the store up.
type Persister struct {
	store    Store
	defaults []models.Member
	timeout  time.Duration
}

// NewPersister creates a Persister. defaults is the configured default roster, which is
// never written since it is restored from configuration on load.
func NewPersister(store Store, defaults []models.Member) *Persister {
	return &Persister{
		store:    store,
		defaults: defaults,
		timeout:  DefaultWriteTimeout,
	}
}

// Attach subscribes the persister to m.
func (p *Persister) Attach(m *state.Manager) {
	m.Subscribe(p.Handle)
}

// Handle persists the records changed by t.
func (p *Persister) Handle(t state.Transition) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if t.Kind == state.KindCleared {
		if err := p.store.ClearAll(ctx); err != nil {
			slog.Error("Failed to clear stored data", "error", err)
		}
		return
	}

	if t.ExpensesChanged() {
		if err := p.store.SaveExpenses(ctx, t.Next.Expenses); err != nil {
			slog.Error("Failed to save expenses", "kind", t.Kind, "count", len(t.Next.Expenses), "error", err)
		}
	}
	if t.HistoryChanged() {
		if err := p.store.SaveSettledBills(ctx, t.Next.History); err != nil {
			slog.Error("Failed to save settled bills", "kind", t.Kind, "count", len(t.Next.History), "error", err)
		}
	}
	if t.MembersChanged() {
		custom := models.CustomMembers(t.Next.Members, p.defaults)
		if err := p.store.SaveMembers(ctx, custom); err != nil {
			slog.Error("Failed to save members", "kind", t.Kind, "count", len(custom), "error", err)
		}
	}
}
