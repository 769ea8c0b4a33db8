// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
// Each logical key is one row holding a JSON document.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single local writer; one connection avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// put upserts the JSON encoding of value under key.
func (s *SQLiteStore) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// get decodes the record under key into dest. dest is left untouched if the key is absent.
func (s *SQLiteStore) get(ctx context.Context, key string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM records WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrCorruptRecord, key, err)
	}
	return nil
}

// SaveExpenses persists the active expense list.
func (s *SQLiteStore) SaveExpenses(ctx context.Context, expenses []models.Expense) error {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return s.put(ctx, storage.KeyExpenses, expenses)
}

// LoadExpenses retrieves the active expense list.
func (s *SQLiteStore) LoadExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.get(ctx, storage.KeyExpenses, &expenses); err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// SaveSettledBills persists the settlement history.
func (s *SQLiteStore) SaveSettledBills(ctx context.Context, bills []models.SettledBill) error {
	if bills == nil {
		bills = []models.SettledBill{}
	}
	return s.put(ctx, storage.KeySettledBills, bills)
}

// LoadSettledBills retrieves the settlement history.
func (s *SQLiteStore) LoadSettledBills(ctx context.Context) ([]models.SettledBill, error) {
	var bills []models.SettledBill
	if err := s.get(ctx, storage.KeySettledBills, &bills); err != nil {
		return nil, err
	}
	if bills == nil {
		bills = []models.SettledBill{}
	}
	return bills, nil
}

// SaveMembers persists the members added at runtime.
func (s *SQLiteStore) SaveMembers(ctx context.Context, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}
	return s.put(ctx, storage.KeyMembers, members)
}

// LoadMembers retrieves the members added at runtime.
func (s *SQLiteStore) LoadMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.get(ctx, storage.KeyMembers, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// ClearAll deletes every record.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE key IN (?, ?, ?)",
		storage.KeyExpenses, storage.KeySettledBills, storage.KeyMembers,
	)
	if err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
