// Package history keeps a local log of balance fetches in a sqlite file so
// the watch view and the history command can show how the balance moves
// over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dsbc/internal/deepseek"
)

// Snapshot is one recorded balance fetch.
type Snapshot struct {
	ID        int64
	FetchedAt time.Time
	Total     float64
	Available float64
	Used      float64
	Currency  string
	AccountID string
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA synchronous = NORMAL;`,
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS balance_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fetched_at TEXT NOT NULL,
			total REAL NOT NULL,
			available REAL NOT NULL,
			used REAL NOT NULL,
			currency TEXT NOT NULL,
			account_id TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_balance_snapshots_fetched_at
			ON balance_snapshots(fetched_at);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: init schema: %w", err)
		}
	}
	return nil
}

// Record appends a snapshot of a successful balance fetch.
func (s *Store) Record(ctx context.Context, b deepseek.Balance) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO balance_snapshots
			(fetched_at, total, available, used, currency, account_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.now().UTC().Format(time.RFC3339),
		b.Total, b.Available, b.Used, b.Currency, b.AccountID,
	)
	if err != nil {
		return fmt.Errorf("history: recording snapshot: %w", err)
	}
	return nil
}

// Recent returns up to limit snapshots, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fetched_at, total, available, used, currency, COALESCE(account_id, '')
		 FROM balance_snapshots
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var fetchedAt string
		if err := rows.Scan(&snap.ID, &fetchedAt, &snap.Total, &snap.Available,
			&snap.Used, &snap.Currency, &snap.AccountID); err != nil {
			return nil, fmt.Errorf("history: scanning snapshot: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			snap.FetchedAt = ts
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: reading snapshots: %w", err)
	}

	// Newest-first from the query; flip to chronological order.
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	return snaps, nil
}

// Prune deletes all but the newest keep snapshots.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM balance_snapshots
		 WHERE id NOT IN (
			SELECT id FROM balance_snapshots ORDER BY id DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return fmt.Errorf("history: pruning snapshots: %w", err)
	}
	return nil
}
