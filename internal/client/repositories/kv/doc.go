// Package kv provides the raw byte-level key-value stores that back the
// namespaced storage adapter.
//
// # Backends
//
//   - SQLRepository over SQLite (default, modernc.org/sqlite) or Postgres
//     (pgx stdlib). Both keep a single "kv" table created by goose
//     migrations. Atomic runs inside a SQL transaction.
//   - MemoryRepository, a map guarded by a RWMutex. Atomic stages writes
//     and commits them under the write lock.
//   - RedisRepository (go-redis). Atomic records what it reads and commits
//     with WATCH/MULTI/EXEC, retrying on conflict.
//
// Get returns (nil, nil) for an absent key. List and Clear match keys by
// literal prefix, so "_" and "%" in a namespace are not wildcards.
//
// Typical usage
//
//	repo, err := kv.Open(ctx, kv.Options{Backend: kv.BackendSQLite, SQLitePath: "finkeeper.db"})
//	defer repo.Close()
//	err = repo.Atomic(ctx, func(ctx context.Context, tx kv.Repository) error {
//	    raw, err := tx.Get(ctx, "finanzas_users")
//	    ...
//	    return tx.Set(ctx, "finanzas_users", updated)
//	})
package kv
