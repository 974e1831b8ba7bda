package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/healthlog/internal/server/migrations"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/refreshtokens"
)

// PostgresManager backs the stores with Postgres via the pgx stdlib driver.
type PostgresManager struct {
	db            *sql.DB
	accounts      *accounts.PostgresRepository
	refreshTokens *refreshtokens.PostgresRegistry
}

func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresManager{
		db:            db,
		accounts:      accounts.NewPostgresRepository(db),
		refreshTokens: refreshtokens.NewPostgresRegistry(db),
	}, nil
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect error: %w", err)
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Close() error { return m.db.Close() }

func (m *PostgresManager) Accounts() accounts.Repository { return m.accounts }

func (m *PostgresManager) RefreshTokens() refreshtokens.Registry { return m.refreshTokens }
