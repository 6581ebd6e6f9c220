package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/finkeeper/internal/client/storage"
	"github.com/dmitrijs2005/finkeeper/internal/cryptox"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
)

var testNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *storage.Manager {
	t.Helper()
	return storage.NewManager(storage.NewAdapter(kv.NewMemoryRepository(), "finanzas_", logging.Discard()))
}

func newTestHasher() cryptox.Hasher {
	return cryptox.NewArgon2Hasher(&cryptox.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLength: 32, SaltLength: 16})
}

// sequentialIDs hands out <prefix>-1, <prefix>-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newLedgerManagers(t *testing.T) (*storage.Manager, *WalletManager, *MovementManager) {
	t.Helper()
	store := newTestStore(t)

	wm := NewWalletManager(store, nil)
	wm.now = func() time.Time { return testNow }
	wm.newID = sequentialIDs("w")

	mm := NewMovementManager(store, nil)
	mm.now = func() time.Time { return testNow }
	mm.newID = sequentialIDs("mv")

	return store, wm, mm
}

func seedWallet(t *testing.T, wm *WalletManager, userID, name string, balance float64) models.Wallet {
	t.Helper()
	w, err := wm.Create(context.Background(), userID, models.WalletInput{Name: name, Balance: balance})
	if err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return *w
}
