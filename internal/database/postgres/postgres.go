package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schema string

// Connect opens the agents database and applies the schema. Every statement
// in schema.sql is idempotent, so this runs on every start.
func Connect(ctx context.Context, cfg config.PostgresConfig, logger zerolog.Logger) (*sqlx.DB, error) {
	log := logger.With().Str("component", "postgres").Logger()

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("user", cfg.Username).
		Str("dbname", cfg.DBname).
		Msg("connecting to PostgreSQL")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.DBname, err)
	}

	if err := ExecuteSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Msg("database schema ready")
	return db, nil
}

// ExecuteSchema runs the embedded schema statement by statement.
func ExecuteSchema(ctx context.Context, db *sqlx.DB) error {
	for i, statement := range strings.Split(schema, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to execute schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
