package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/dbx"
)

// PostgresRegistry persists the registry in a refresh_tokens table. It takes
// the *sql.DB (not just DBTX) because Rotate needs its own transaction.
type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) Register(ctx context.Context, token string, accountID string) error {
	query :=
		`INSERT INTO refresh_tokens (token, account_id, created_at)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, token, accountID, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Revoke(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) OwnerOf(ctx context.Context, token string) (string, error) {
	query := `SELECT account_id FROM refresh_tokens WHERE token = $1`

	var accountID string
	err := r.db.QueryRowContext(ctx, query, token).Scan(&accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return accountID, nil
}

func (r *PostgresRegistry) Rotate(ctx context.Context, oldToken string, newToken string, accountID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, oldToken)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		// Losing the delete race means a concurrent rotation already
		// consumed this token.
		if affected == 0 {
			return common.ErrInvalidToken
		}

		query :=
			`INSERT INTO refresh_tokens (token, account_id, created_at)
			 VALUES ($1, $2, $3)
			 `
		if _, err := tx.ExecContext(ctx, query, newToken, accountID, time.Now().UTC()); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}
