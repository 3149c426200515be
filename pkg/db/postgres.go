package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresConfig - конфигурация PostgreSQL
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN собирает строку подключения для lib/pq
func (cfg PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

// ConnectPostgres подключается к PostgreSQL
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

const callJournalSchema = `
	CREATE TABLE IF NOT EXISTS call_journal (
		id         UUID PRIMARY KEY,
		operation  TEXT NOT NULL,
		input      JSONB NOT NULL,
		output     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS call_journal_created_at_idx ON call_journal (created_at DESC);
`

// RunMigrations создает таблицу журнала вызовов
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, callJournalSchema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
