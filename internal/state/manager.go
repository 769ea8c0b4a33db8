package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

// DefaultDateLayout formats settlement dates as "15:04:05 19/10/2026".
const DefaultDateLayout = "15:04:05 2/1/2006"

// Kind names a state transition.
type Kind string

const (
	KindMemberAdded    Kind = "member_added"
	KindExpenseAdded   Kind = "expense_added"
	KindExpenseDeleted Kind = "expense_deleted"
	KindSettled        Kind = "settled"
	KindBillViewed     Kind = "bill_viewed"
	KindBillClosed     Kind = "bill_closed"
	KindCleared        Kind = "cleared"
)

// Transition describes one successful state change.
type Transition struct {
	Kind Kind
	Prev Snapshot
	Next Snapshot

	// Bill is the bill produced by a KindSettled transition.
	Bill *models.SettledBill
}

// MembersChanged reports whether the roster differs between Prev and Next.
func (t Transition) MembersChanged() bool {
	return t.Kind == KindMemberAdded || t.Kind == KindCleared
}

// ExpensesChanged reports whether the active expense list differs between Prev and Next.
func (t Transition) ExpensesChanged() bool {
	switch t.Kind {
	case KindExpenseAdded, KindExpenseDeleted, KindSettled, KindCleared:
		return true
	}
	return false
}

// HistoryChanged reports whether the settlement history differs between Prev and Next.
func (t Transition) HistoryChanged() bool {
	return t.Kind == KindSettled || t.Kind == KindCleared
}

// Subscriber is notified after every successful transition, in registration order.
// Subscribers run while the Manager is locked and must not call back into it.
type Subscriber func(Transition)

// Manager owns the current Snapshot and serializes transitions on it.
type Manager struct {
	mu          sync.Mutex
	current     Snapshot
	subscribers []Subscriber

	defaults   []models.Member
	mode       calculator.Mode
	dateLayout string
	now        func() time.Time
	newID      func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultRoster sets the roster restored by ClearAll.
func WithDefaultRoster(members []models.Member) Option {
	return func(m *Manager) { m.defaults = append([]models.Member{}, members...) }
}

// WithMode sets the settlement mode.
func WithMode(mode calculator.Mode) Option {
	return func(m *Manager) { m.mode = mode }
}

// WithDateLayout sets the time layout of SettledBill.Date.
func WithDateLayout(layout string) Option {
	return func(m *Manager) { m.dateLayout = layout }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the UUID generator used for expense and bill ids.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a Manager starting from initial.
func NewManager(initial Snapshot, opts ...Option) *Manager {
	m := &Manager{
		current:    initial.Clone(),
		defaults:   models.DefaultRoster,
		mode:       calculator.ModeHub,
		dateLayout: DefaultDateLayout,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers fn for all future transitions.
func (m *Manager) Subscribe(fn Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Mode returns the configured settlement mode.
func (m *Manager) Mode() calculator.Mode {
	return m.mode
}

// commit installs next and notifies subscribers. Callers hold m.mu.
func (m *Manager) commit(kind Kind, next Snapshot, bill *models.SettledBill) {
	t := Transition{Kind: kind, Prev: m.current, Next: next, Bill: bill}
	m.current = next
	for _, fn := range m.subscribers {
		fn(t)
	}
}

// AddMember adds a member to the roster and returns the normalized name.
func (m *Manager) AddMember(name string) (models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, member, err := m.current.AddMember(name)
	if err != nil {
		return "", err
	}
	m.commit(KindMemberAdded, next, nil)
	return member, nil
}

// AddExpense records an expense, assigning an id when e.ID is empty.
func (m *Manager) AddExpense(e models.Expense) (models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		e.ID = m.newID()
	}
	next, err := m.current.AddExpense(e)
	if err != nil {
		return models.Expense{}, err
	}
	m.commit(KindExpenseAdded, next, nil)
	return e.Clone(), nil
}

// DeleteExpense removes an active expense.
func (m *Manager) DeleteExpense(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.current.DeleteExpense(id)
	if err != nil {
		return err
	}
	m.commit(KindExpenseDeleted, next, nil)
	return nil
}

// Preview computes the pending settlement of the active expenses.
func (m *Manager) Preview() calculator.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Preview(m.mode)
}

// Settle settles all active expenses into a new bill.
// It returns ErrNothingToSettle when the active list is empty.
func (m *Manager) Settle() (models.SettledBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.current.Expenses) == 0 {
		return models.SettledBill{}, ErrNothingToSettle
	}

	next, bill := m.current.Settle(m.newID(), m.now(), SettleOptions{
		Mode:       m.mode,
		DateLayout: m.dateLayout,
	})
	m.commit(KindSettled, next, &bill)
	return bill.Clone(), nil
}

// ViewBill marks a settled bill as active and returns it.
func (m *Manager) ViewBill(id string) (models.SettledBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.current.ViewBill(id)
	if err != nil {
		return models.SettledBill{}, err
	}
	m.commit(KindBillViewed, next, nil)
	bill, _ := next.Bill(id)
	return bill, nil
}

// CloseBill clears the active bill.
func (m *Manager) CloseBill() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commit(KindBillClosed, m.current.CloseBill(), nil)
}

// ClearAll drops every expense and bill and restores the default roster.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commit(KindCleared, Cleared(m.defaults), nil)
}
