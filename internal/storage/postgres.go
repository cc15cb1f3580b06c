package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresLog implements ActionLog using PostgreSQL.
type PostgresLog struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresLog creates a new PostgreSQL action log.
func NewPostgresLog(cfg *PostgresConfig) (*PostgresLog, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-action-log-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresLog{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// Write appends a confirmed-action record to PostgreSQL.
func (p *PostgresLog) Write(ctx context.Context, action *PersistedAction) error {
	query := `
		INSERT INTO action_log (
			action_id, action_type, executor_kind, amount, quantity,
			issued_at, outcome, confirmed, confirmed_at, latency_ms,
			cash_before, cash_after, quantity_before, quantity_after,
			pnl_before, pnl_after, reward, game_id, current_tick, logged_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`

	var confirmedAt sql.NullTime
	var latencyMs sql.NullFloat64
	if action.Result.Confirmed {
		confirmedAt = sql.NullTime{Time: action.Result.ConfirmedAt, Valid: true}
		latencyMs = sql.NullFloat64{Float64: float64(action.Result.Latency.Milliseconds()), Valid: true}
	}

	_, err := p.db.ExecContext(ctx, query,
		action.Record.ActionID,
		string(action.Record.Type),
		string(action.Record.Kind),
		action.Record.Params.Amount,
		action.Record.Params.Quantity,
		action.Record.IssuedAt,
		string(action.Result.Outcome),
		action.Result.Confirmed,
		confirmedAt,
		latencyMs,
		action.Before.Cash,
		action.After.Cash,
		action.Before.Quantity,
		action.After.Quantity,
		action.Before.Pnl,
		action.After.Pnl,
		action.Reward(),
		action.After.GameID,
		action.After.CurrentTick,
		action.LoggedAt,
	)

	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}

	p.logger.Debug("action-persisted",
		zap.String("action-id", action.Record.ActionID),
		zap.String("action-type", string(action.Record.Type)),
		zap.Bool("confirmed", action.Result.Confirmed))

	return nil
}

// Close closes the database connection.
func (p *PostgresLog) Close() error {
	p.logger.Info("closing-postgres-action-log")
	return p.db.Close()
}
