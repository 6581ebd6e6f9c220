package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	scanBatch          = 100
)

// RedisRepository stores each entry as a plain Redis string.
type RedisRepository struct {
	client      redis.UniversalClient
	maxAttempts int
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, maxAttempts: defaultMaxAttempts}
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	keys, err := r.scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, err := r.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result[k] = v
		}
	}
	return result, nil
}

func (r *RedisRepository) Clear(ctx context.Context, prefix string) error {
	keys, err := r.scan(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

func (r *RedisRepository) scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, globEscape(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan kv: %w", err)
	}
	return keys, nil
}

// Atomic runs fn against a buffered transaction and commits it with
// WATCH/MULTI/EXEC. When a key fn read has changed in the meantime the whole
// callback is re-run; after maxAttempts conflicts it gives up with
// common.ErrConflict.
func (r *RedisRepository) Atomic(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		tx := newRedisTx(r)
		if err := fn(ctx, tx); err != nil {
			return err
		}

		err := tx.commit(ctx)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return common.ErrConflict
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// redisTx records every value it reads from Redis and buffers writes until
// commit.
type redisTx struct {
	repo    *RedisRepository
	reads   map[string][]byte
	writes  map[string][]byte
	deletes map[string]struct{}
	clears  []string
}

func newRedisTx(repo *RedisRepository) *redisTx {
	return &redisTx{
		repo:    repo,
		reads:   make(map[string][]byte),
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (t *redisTx) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := t.writes[key]; ok {
		return clone(v), nil
	}
	if _, ok := t.deletes[key]; ok {
		return nil, nil
	}
	for _, p := range t.clears {
		if strings.HasPrefix(key, p) {
			return nil, nil
		}
	}
	if v, ok := t.reads[key]; ok {
		return clone(v), nil
	}

	v, err := t.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	t.reads[key] = v
	return clone(v), nil
}

func (t *redisTx) Set(_ context.Context, key string, value []byte) error {
	delete(t.deletes, key)
	t.writes[key] = clone(value)
	return nil
}

func (t *redisTx) Delete(_ context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = struct{}{}
	return nil
}

func (t *redisTx) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	keys, err := t.repo.scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte)
	for _, k := range keys {
		v, err := t.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result[k] = v
		}
	}
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			result[k] = clone(v)
		}
	}
	return result, nil
}

func (t *redisTx) Clear(_ context.Context, prefix string) error {
	for k := range t.writes {
		if strings.HasPrefix(k, prefix) {
			delete(t.writes, k)
		}
	}
	t.clears = append(t.clears, prefix)
	return nil
}

func (t *redisTx) Atomic(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	return fn(ctx, t)
}

func (t *redisTx) Close() error { return nil }

func (t *redisTx) commit(ctx context.Context) error {
	if len(t.writes) == 0 && len(t.deletes) == 0 && len(t.clears) == 0 {
		return nil
	}

	// Clears are resolved to concrete keys up front; they are applied
	// before the buffered writes so a clear followed by a set keeps the set.
	var cleared []string
	for _, p := range t.clears {
		keys, err := t.repo.scan(ctx, p)
		if err != nil {
			return err
		}
		cleared = append(cleared, keys...)
	}

	watched := make([]string, 0, len(t.reads))
	for k := range t.reads {
		watched = append(watched, k)
	}

	return t.repo.client.Watch(ctx, func(rtx *redis.Tx) error {
		for k, seen := range t.reads {
			cur, err := rtx.Get(ctx, k).Bytes()
			if errors.Is(err, redis.Nil) {
				cur = nil
			} else if err != nil {
				return err
			}
			if !bytes.Equal(cur, seen) {
				return redis.TxFailedErr
			}
		}

		_, err := rtx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			if len(cleared) > 0 {
				p.Del(ctx, cleared...)
			}
			for k := range t.deletes {
				p.Del(ctx, k)
			}
			for k, v := range t.writes {
				p.Set(ctx, k, v, 0)
			}
			return nil
		})
		return err
	}, watched...)
}

// globEscape quotes the characters SCAN MATCH treats as pattern syntax.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
