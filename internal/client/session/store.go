// Package session owns the device-local session: the token pair and cached
// account held in a durable SQLite keystore, plus the in-memory view the
// rest of the client reads. Writes are persist-before-publish: durable
// storage is committed before the in-memory state changes, so a crash
// mid-write never leaves memory ahead of storage.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/healthlog/internal/client/api"
	"github.com/dmitrijs2005/healthlog/internal/client/migrations"
	"github.com/dmitrijs2005/healthlog/internal/dbx"
)

// Fixed keystore keys. The active profile id is collaborator-owned and
// deliberately independent of the session keys: it survives logout and must
// tolerate pointing at a profile that no longer exists.
const (
	keyAccessToken     = "access_token"
	keyRefreshToken    = "refresh_token"
	keyAccount         = "account"
	keyActiveProfileID = "active_profile_id"
)

// Session is the in-memory view of the stored state.
type Session struct {
	AccessToken  string
	RefreshToken string
	Account      *api.Account
	IsHydrated   bool
}

// HasTokens reports whether a stored pair exists.
func (s Session) HasTokens() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// Store is the durable keystore plus the published session. A single Store
// is created at app start and torn down at exit; it is not a package-level
// singleton.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	session Session
}

// Open opens (creating if needed) the SQLite keystore at path and runs
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("keystore open error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("keystore migration error: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Hydrate loads the stored session into memory. It is best-effort: a storage
// failure degrades to "no session" rather than raising, because an unreadable
// keystore and an empty one lead to the same place (re-login).
func (s *Store) Hydrate(ctx context.Context) Session {
	session := Session{IsHydrated: true}

	if access, err := s.get(ctx, keyAccessToken); err == nil {
		session.AccessToken = string(access)
	}
	if refresh, err := s.get(ctx, keyRefreshToken); err == nil {
		session.RefreshToken = string(refresh)
	}
	if raw, err := s.get(ctx, keyAccount); err == nil && len(raw) > 0 {
		var account api.Account
		if json.Unmarshal(raw, &account) == nil {
			session.Account = &account
		}
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return session
}

// Current returns the published session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SetSession stores a full session (token pair plus account) in one
// transaction, then publishes it.
func (s *Store) SetSession(ctx context.Context, pair *api.TokenPair, account *api.Account) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("account encode error: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, []byte(pair.AccessToken)); err != nil {
			return err
		}
		if err := set(ctx, tx, keyRefreshToken, []byte(pair.RefreshToken)); err != nil {
			return err
		}
		return set(ctx, tx, keyAccount, raw)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session.AccessToken = pair.AccessToken
	s.session.RefreshToken = pair.RefreshToken
	s.session.Account = account
	s.session.IsHydrated = true
	s.mu.Unlock()
	return nil
}

// SetTokens stores a rotated pair, keeping the cached account.
func (s *Store) SetTokens(ctx context.Context, pair *api.TokenPair) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, []byte(pair.AccessToken)); err != nil {
			return err
		}
		return set(ctx, tx, keyRefreshToken, []byte(pair.RefreshToken))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session.AccessToken = pair.AccessToken
	s.session.RefreshToken = pair.RefreshToken
	s.mu.Unlock()
	return nil
}

// Clear deletes the session keys and cached account. Safe to call when the
// keystore is already empty. The active profile id is left alone.
func (s *Store) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range []string{keyAccessToken, keyRefreshToken, keyAccount} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM keystore WHERE key = ?`, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session = Session{IsHydrated: true}
	s.mu.Unlock()
	return nil
}

// ActiveProfileID returns the persisted profile selection, or "". The value
// may be stale; callers must tolerate it naming a deleted profile.
func (s *Store) ActiveProfileID(ctx context.Context) string {
	value, err := s.get(ctx, keyActiveProfileID)
	if err != nil {
		return ""
	}
	return string(value)
}

// SetActiveProfileID persists the profile selection.
func (s *Store) SetActiveProfileID(ctx context.Context, profileID string) error {
	return set(ctx, s.db, keyActiveProfileID, []byte(profileID))
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM keystore WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO keystore (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set keystore[%s]: %w", key, err)
	}
	return nil
}
