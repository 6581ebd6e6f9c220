package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finkeeper/internal/dbx"
)

type sqlDialect struct {
	name   string
	get    string
	set    string
	delete string
	list   string
	clear  string
	// prefixArgs expands the prefix into the bind arguments of list and clear.
	prefixArgs func(prefix string) []any
	txOptions  *sql.TxOptions
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	get:  `SELECT value FROM kv WHERE key = ?`,
	set: `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	delete:     `DELETE FROM kv WHERE key = ?`,
	list:       `SELECT key, value FROM kv WHERE substr(key, 1, length(?)) = ?`,
	clear:      `DELETE FROM kv WHERE substr(key, 1, length(?)) = ?`,
	prefixArgs: func(p string) []any { return []any{p, p} },
}

var postgresDialect = sqlDialect{
	name: "postgres",
	get:  `SELECT value FROM kv WHERE key = $1`,
	set: `INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
	delete:     `DELETE FROM kv WHERE key = $1`,
	list:       `SELECT key, value FROM kv WHERE left(key, length($1)) = $1`,
	clear:      `DELETE FROM kv WHERE left(key, length($1)) = $1`,
	prefixArgs: func(p string) []any { return []any{p} },
	txOptions:  &sql.TxOptions{Isolation: sql.LevelSerializable},
}

// SQLRepository stores entries in the "kv" table of a SQLite or Postgres
// database.
type SQLRepository struct {
	db      dbx.DBTX
	conn    *sql.DB // nil for the handle passed to an Atomic callback
	dialect sqlDialect
}

func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, conn: db, dialect: sqliteDialect}
}

func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, conn: db, dialect: postgresDialect}
}

func (r *SQLRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.set, key, value); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.delete, key); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.list, r.dialect.prefixArgs(prefix)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Clear(ctx context.Context, prefix string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.clear, r.dialect.prefixArgs(prefix)...); err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

func (r *SQLRepository) Atomic(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	if r.conn == nil {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, r.conn, r.dialect.txOptions, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLRepository{db: tx, dialect: r.dialect})
	})
}

func (r *SQLRepository) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
