package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/dbx"
	"github.com/dmitrijs2005/healthlog/internal/server/models"
)

// uniqueViolation is the Postgres error code raised by the unique index on
// lower(email).
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account, cred *models.Credential) (*models.Account, error) {
	settings, err := json.Marshal(account.Settings)
	if err != nil {
		return nil, fmt.Errorf("settings marshal error: %w", err)
	}

	query :=
		`INSERT INTO accounts (id, email, name, settings, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.Name, settings, account.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	query =
		`INSERT INTO credentials (account_id, password_hash)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, cred.AccountID, cred.PasswordHash); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, name, settings, created_at FROM accounts
		 WHERE lower(email) = lower($1)
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, email, name, settings, created_at FROM accounts
		 WHERE id = $1
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) CredentialByAccountID(ctx context.Context, accountID string) (*models.Credential, error) {
	query :=
		`SELECT account_id, password_hash FROM credentials
		 WHERE account_id = $1
		 `

	cred := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&cred.AccountID, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cred, nil
}

func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var settings []byte

	err := row.Scan(&account.ID, &account.Email, &account.Name, &settings, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(settings, &account.Settings); err != nil {
		return nil, fmt.Errorf("settings unmarshal error: %w", err)
	}

	return account, nil
}
