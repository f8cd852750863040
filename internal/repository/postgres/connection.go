package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/repositories"
	"inkwell/internal/stream"
)

// RepositoryConfig holds the shared pieces every repository gets: the pool,
// the logger, and the engine-wide change notifier.
type RepositoryConfig struct {
	Pool     *pgxpool.Pool
	Logger   *slog.Logger
	Notifier *stream.Notifier
}

// CreateConnectionPool creates a new pgx connection pool and verifies the
// connection.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// A local single-user store; a handful of connections is plenty.
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}

// escapeLike escapes LIKE metacharacters so user input matches literally
// inside a `'%' || $1 || '%' ESCAPE '\'` contains pattern. Searches treat
// % and _ as ordinary characters.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
