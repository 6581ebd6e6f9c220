package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh repository per backend that can run here.
func backends(t *testing.T) map[string]func(t *testing.T) Repository {
	t.Helper()
	b := map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository {
			return NewMemoryRepository()
		},
		"sqlite": func(t *testing.T) Repository {
			repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}
	if addr := os.Getenv("FINKEEPER_TEST_REDIS_ADDR"); addr != "" {
		b["redis"] = func(t *testing.T) Repository {
			client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
			require.NoError(t, client.FlushDB(context.Background()).Err())
			repo := NewRedisRepository(client)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		}
	}
	return b
}

func forEachBackend(t *testing.T, fn func(t *testing.T, repo Repository)) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func TestRepository_GetAbsent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		v, err := repo.Get(context.Background(), "finanzas_users")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestRepository_SetGetOverwriteDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "finanzas_users", []byte(`[]`)))
		v, err := repo.Get(ctx, "finanzas_users")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), v)

		require.NoError(t, repo.Set(ctx, "finanzas_users", []byte(`[{"id":"1"}]`)))
		v, err = repo.Get(ctx, "finanzas_users")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"id":"1"}]`), v)

		require.NoError(t, repo.Delete(ctx, "finanzas_users"))
		v, err = repo.Get(ctx, "finanzas_users")
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, repo.Delete(ctx, "finanzas_users"), "deleting an absent key is not an error")
	})
}

func TestRepository_ListAndClearByLiteralPrefix(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		require.NoError(t, repo.Set(ctx, "finanzas_users", []byte(`1`)))
		require.NoError(t, repo.Set(ctx, "finanzas_categories_1", []byte(`2`)))
		// "_" must not act as a wildcard.
		require.NoError(t, repo.Set(ctx, "finanzasXusers", []byte(`3`)))
		require.NoError(t, repo.Set(ctx, "other_key", []byte(`4`)))

		got, err := repo.List(ctx, "finanzas_")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{
			"finanzas_users":        []byte(`1`),
			"finanzas_categories_1": []byte(`2`),
		}, got)

		require.NoError(t, repo.Clear(ctx, "finanzas_"))

		got, err = repo.List(ctx, "finanzas_")
		require.NoError(t, err)
		assert.Empty(t, got)

		v, err := repo.Get(ctx, "finanzasXusers")
		require.NoError(t, err)
		assert.Equal(t, []byte(`3`), v, "keys outside the prefix survive Clear")
		v, err = repo.Get(ctx, "other_key")
		require.NoError(t, err)
		assert.Equal(t, []byte(`4`), v)
	})
}

func TestRepository_AtomicCommits(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "a", []byte(`old`)))

		err := repo.Atomic(ctx, func(ctx context.Context, tx Repository) error {
			v, err := tx.Get(ctx, "a")
			if err != nil {
				return err
			}
			assert.Equal(t, []byte(`old`), v)

			if err := tx.Set(ctx, "a", []byte(`new`)); err != nil {
				return err
			}
			v, err = tx.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []byte(`new`), v, "reads see own writes")

			return tx.Set(ctx, "b", []byte(`added`))
		})
		require.NoError(t, err)

		v, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte(`new`), v)
		v, err = repo.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, []byte(`added`), v)
	})
}

func TestRepository_AtomicRollsBackOnError(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "a", []byte(`old`)))
		boom := errors.New("validation failed")

		err := repo.Atomic(ctx, func(ctx context.Context, tx Repository) error {
			require.NoError(t, tx.Set(ctx, "a", []byte(`new`)))
			require.NoError(t, tx.Delete(ctx, "missing"))
			require.NoError(t, tx.Set(ctx, "b", []byte(`added`)))
			return boom
		})
		require.ErrorIs(t, err, boom)

		v, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte(`old`), v)
		v, err = repo.Get(ctx, "b")
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestRepository_AtomicDeleteAndClear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "p_1", []byte(`1`)))
		require.NoError(t, repo.Set(ctx, "p_2", []byte(`2`)))
		require.NoError(t, repo.Set(ctx, "keep", []byte(`k`)))

		err := repo.Atomic(ctx, func(ctx context.Context, tx Repository) error {
			require.NoError(t, tx.Clear(ctx, "p_"))
			got, err := tx.List(ctx, "p_")
			require.NoError(t, err)
			assert.Empty(t, got, "cleared keys are invisible inside the tx")

			require.NoError(t, tx.Set(ctx, "p_3", []byte(`3`)))
			return tx.Delete(ctx, "keep")
		})
		require.NoError(t, err)

		got, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"p_3": []byte(`3`)}, got)
	})
}

func TestRepository_AtomicNestedJoinsOuter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		boom := errors.New("outer failed")

		err := repo.Atomic(ctx, func(ctx context.Context, tx Repository) error {
			require.NoError(t, tx.Atomic(ctx, func(ctx context.Context, inner Repository) error {
				return inner.Set(ctx, "nested", []byte(`x`))
			}))
			return boom
		})
		require.ErrorIs(t, err, boom)

		v, err := repo.Get(ctx, "nested")
		require.NoError(t, err)
		assert.Nil(t, v, "nested writes roll back with the outer tx")
	})
}

func TestRepository_AtomicSerializesIncrements(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "counter", []byte{0}))

		const workers = 4
		const perWorker = 10

		var wg sync.WaitGroup
		errs := make(chan error, workers*perWorker)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					errs <- repo.Atomic(ctx, func(ctx context.Context, tx Repository) error {
						v, err := tx.Get(ctx, "counter")
						if err != nil {
							return err
						}
						return tx.Set(ctx, "counter", []byte{v[0] + 1})
					})
				}
			}()
		}
		wg.Wait()
		close(errs)

		committed := 0
		for err := range errs {
			if err == nil {
				committed++
			}
		}
		v, err := repo.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, committed, int(v[0]), "no lost updates")
	})
}
