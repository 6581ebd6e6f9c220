package storage

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/dmitrijs2005/finkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
)

// DefaultPrefix namespaces keys when NewAdapter is given an empty prefix.
const DefaultPrefix = "app_"

// Adapter stores JSON values under prefixed keys.
type Adapter struct {
	repo   kv.Repository
	prefix string
	logger logging.Logger

	// txErr is set only on the adapter handed to an Update callback; it
	// captures the first storage failure so the transaction can be aborted.
	txErr *error
}

func NewAdapter(repo kv.Repository, prefix string, logger logging.Logger) *Adapter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Adapter{repo: repo, prefix: prefix, logger: logger.With("component", "storage")}
}

// Prefix returns the namespace prepended to every key.
func (a *Adapter) Prefix() string {
	return a.prefix
}

func (a *Adapter) fullKey(key string) string {
	return a.prefix + key
}

func (a *Adapter) fail(ctx context.Context, msg, key string, err error) {
	a.logger.Error(ctx, msg, "key", a.fullKey(key), "error", err)
	if a.txErr != nil && *a.txErr == nil {
		*a.txErr = err
	}
}

// Get decodes the JSON stored under key into dest, which must be a non-nil
// pointer. It returns false and leaves dest untouched when the key is absent,
// the value does not decode into dest's type, or the backend fails.
func (a *Adapter) Get(ctx context.Context, key string, dest any) bool {
	raw, err := a.repo.Get(ctx, a.fullKey(key))
	if err != nil {
		a.fail(ctx, "failed to read key", key, err)
		return false
	}
	if raw == nil {
		return false
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		a.logger.Error(ctx, "decode target must be a non-nil pointer", "key", a.fullKey(key))
		return false
	}

	// Decode into a scratch value so a failure cannot leave dest half-written.
	scratch := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, scratch.Interface()); err != nil {
		a.logger.Warn(ctx, "ignoring undecodable value", "key", a.fullKey(key), "error", err)
		return false
	}
	target.Elem().Set(scratch.Elem())
	return true
}

// Set stores value as JSON. It returns false when encoding or the write fails.
func (a *Adapter) Set(ctx context.Context, key string, value any) bool {
	b, err := json.Marshal(value)
	if err != nil {
		a.fail(ctx, "failed to encode value", key, err)
		return false
	}
	if err := a.repo.Set(ctx, a.fullKey(key), b); err != nil {
		a.fail(ctx, "failed to write key", key, err)
		return false
	}
	return true
}

// Remove deletes key. Removing an absent key succeeds.
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if err := a.repo.Delete(ctx, a.fullKey(key)); err != nil {
		a.fail(ctx, "failed to remove key", key, err)
		return false
	}
	return true
}

// Has reports whether a value is stored under key.
func (a *Adapter) Has(ctx context.Context, key string) bool {
	raw, err := a.repo.Get(ctx, a.fullKey(key))
	if err != nil {
		a.fail(ctx, "failed to read key", key, err)
		return false
	}
	return raw != nil
}

// Clear removes every key in this adapter's namespace and nothing else.
func (a *Adapter) Clear(ctx context.Context) bool {
	if err := a.repo.Clear(ctx, a.prefix); err != nil {
		a.fail(ctx, "failed to clear namespace", "", err)
		return false
	}
	return true
}

// Update runs fn atomically against the store. The adapter passed to fn has
// the same API; any storage failure inside it, or an error returned by fn,
// discards all writes made through it and is returned to the caller.
func (a *Adapter) Update(ctx context.Context, fn func(ctx context.Context, tx *Adapter) error) error {
	return a.repo.Atomic(ctx, func(ctx context.Context, repo kv.Repository) error {
		var storageErr error
		tx := &Adapter{repo: repo, prefix: a.prefix, logger: a.logger, txErr: &storageErr}
		err := fn(ctx, tx)
		if storageErr != nil {
			return storageErr
		}
		return err
	})
}
