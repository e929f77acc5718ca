package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "idoubtit_local.db"

// SQLiteStore persists one JSON blob per account. The prefs shape changes
// more often than it deserves a migration, so the row stays schemaless.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStoreFromEnv() (*SQLiteStore, error) {
	dbPath, err := prefsLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(dbPath)
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS account_prefs (
    account_id INTEGER PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, accountID uint64) (*Prefs, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
SELECT payload
FROM account_prefs
WHERE account_id = ?
`, accountID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			out := DefaultPrefs()
			return &out, nil
		}
		return nil, err
	}

	out := DefaultPrefs()
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("corrupt prefs row for account %d: %v", accountID, err)
	}
	return &out, nil
}

func (s *SQLiteStore) Put(ctx context.Context, accountID uint64, p Prefs) error {
	if err := Validate(p); err != nil {
		return err
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO account_prefs (account_id, payload, updated_at_ms)
VALUES (?, ?, ?)
ON CONFLICT(account_id) DO UPDATE SET
    payload = excluded.payload,
    updated_at_ms = excluded.updated_at_ms
`, accountID, string(payload), nowMs)
	return err
}

func prefsLocalDatabasePathFromEnv() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("PREFS_LOCAL_DATABASE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "IDoubtIt", defaultLocalDBName), nil
}
