// Package memory provides an in-process implementation of storage.Store.
// Records are kept JSON-encoded so they round-trip exactly like a durable backend.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is a thread-safe in-memory storage.Store.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.records[key] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) get(key string, dest any) error {
	s.mu.RLock()
	data, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrCorruptRecord, key, err)
	}
	return nil
}

func (s *Store) SaveExpenses(_ context.Context, expenses []models.Expense) error {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return s.put(storage.KeyExpenses, expenses)
}

func (s *Store) LoadExpenses(_ context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := s.get(storage.KeyExpenses, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) SaveSettledBills(_ context.Context, bills []models.SettledBill) error {
	if bills == nil {
		bills = []models.SettledBill{}
	}
	return s.put(storage.KeySettledBills, bills)
}

func (s *Store) LoadSettledBills(_ context.Context) ([]models.SettledBill, error) {
	bills := []models.SettledBill{}
	if err := s.get(storage.KeySettledBills, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (s *Store) SaveMembers(_ context.Context, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}
	return s.put(storage.KeyMembers, members)
}

func (s *Store) LoadMembers(_ context.Context) ([]models.Member, error) {
	members := []models.Member{}
	if err := s.get(storage.KeyMembers, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string][]byte)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Raw returns the encoded record under key, for inspection in tests.
func (s *Store) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.records[key]
	return append([]byte(nil), data...), ok
}

// SetRaw stores pre-encoded data under key, bypassing encoding.
func (s *Store) SetRaw(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), data...)
}
