package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/finkeeper/internal/client/storage"
	"github.com/dmitrijs2005/finkeeper/internal/cryptox"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 11, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *storage.Manager {
	t.Helper()
	repo := kv.NewMemoryRepository()
	return storage.NewManager(storage.NewAdapter(repo, "finanzas_", logging.Discard()))
}

func newTestHasher() cryptox.Hasher {
	return cryptox.NewArgon2Hasher(&cryptox.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLength: 32, SaltLength: 16})
}

func seedUsers(t *testing.T, store *storage.Manager, users ...models.User) {
	t.Helper()
	require.True(t, store.SaveUsers(context.Background(), users))
}
