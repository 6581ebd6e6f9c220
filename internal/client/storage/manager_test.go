package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *kv.MemoryRepository) {
	t.Helper()
	repo := kv.NewMemoryRepository()
	m := NewManager(NewAdapter(repo, "finanzas_", logging.Discard()))
	m.now = func() time.Time { return time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC) }
	return m, repo
}

func TestManager_UsersDefaultEmpty(t *testing.T) {
	m, _ := newTestManager(t)

	users := m.GetUsers(context.Background())
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestManager_SaveAndFindUsers(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	require.True(t, m.SaveUsers(ctx, []models.User{{ID: "1", Email: "ana@test.com"}, {ID: "2", Email: "bo@test.com"}}))

	assert.Len(t, m.GetUsers(ctx), 2)
	require.NotNil(t, m.FindUser(ctx, "2"))
	assert.Equal(t, "bo@test.com", m.FindUser(ctx, "2").Email)
	assert.Nil(t, m.FindUser(ctx, "3"))

	raw, err := repo.Get(ctx, "finanzas_users")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email":"ana@test.com"`)
}

func TestManager_UpdateUsers(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	err := m.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		return append(users, models.User{ID: "1"}), nil
	})
	require.NoError(t, err)
	assert.Len(t, m.GetUsers(ctx), 1)

	boom := errors.New("duplicate")
	err = m.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Len(t, m.GetUsers(ctx), 1, "failed update leaves users unchanged")
}

func TestManager_SessionReferencesUser(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	require.True(t, m.SaveUsers(ctx, []models.User{{ID: "1", Name: "Ana"}}))
	assert.Nil(t, m.GetSession(ctx))
	assert.Nil(t, m.GetCurrentUser(ctx))

	require.True(t, m.SetCurrentUser(ctx, models.User{ID: "1", Name: "Ana"}, "tok"))

	s := m.GetSession(ctx)
	require.NotNil(t, s)
	assert.Equal(t, models.Session{UserID: "1", Token: "tok", StartedAt: time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)}, *s)

	raw, err := repo.Get(ctx, "finanzas_currentUser")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"userId":"1"`)

	// The current user always reflects the master record.
	require.True(t, m.SaveUsers(ctx, []models.User{{ID: "1", Name: "Ana Maria"}}))
	assert.Equal(t, "Ana Maria", m.GetCurrentUser(ctx).Name)

	require.True(t, m.ClearSession(ctx))
	assert.Nil(t, m.GetSession(ctx))
}

func TestManager_CurrentUserGoneAfterDeletion(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.True(t, m.SetCurrentUser(ctx, models.User{ID: "9"}, "tok"))
	assert.NotNil(t, m.GetSession(ctx))
	assert.Nil(t, m.GetCurrentUser(ctx), "session for a missing user resolves to nil")
}

func TestManager_SessionSecretStable(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.SessionSecret(ctx)
	require.NoError(t, err)
	assert.Len(t, first, sessionSecretSize)

	second, err := m.SessionSecret(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestManager_CategoriesScopedPerUser(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.True(t, m.SaveCategories(ctx, "1", []models.Category{{ID: "a", Name: "Comida"}}))

	assert.Len(t, m.GetCategories(ctx, "1"), 1)
	assert.Empty(t, m.GetCategories(ctx, "2"))

	err := m.UpdateCategories(ctx, "2", func(c []models.Category) ([]models.Category, error) {
		return append(c, models.Category{ID: "b"}), nil
	})
	require.NoError(t, err)
	assert.Len(t, m.GetCategories(ctx, "2"), 1)
	assert.Len(t, m.GetCategories(ctx, "1"), 1)
}

func TestManager_UpdateLedgerIsAllOrNothing(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	require.True(t, m.SaveWallets(ctx, "1", []models.Wallet{{ID: "w", Balance: 100}}))

	err := m.UpdateLedger(ctx, "1", func(l *Ledger) error {
		l.Wallets[0].Balance -= 30
		l.Movements = append(l.Movements, models.Movement{ID: "m", WalletID: "w", Kind: models.MovementExpense, Amount: 30})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, m.GetWallets(ctx, "1")[0].Balance)
	assert.Len(t, m.GetMovements(ctx, "1"), 1)

	boom := errors.New("insufficient")
	err = m.UpdateLedger(ctx, "1", func(l *Ledger) error {
		l.Wallets[0].Balance = 0
		l.Movements = nil
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 70.0, m.GetWallets(ctx, "1")[0].Balance)
	assert.Len(t, m.GetMovements(ctx, "1"), 1)
}

func TestManager_UpdateLedgerLeavesCategoriesAlone(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()
	require.True(t, m.SaveWallets(ctx, "1", []models.Wallet{{ID: "w", Balance: 10}}))

	err := m.UpdateLedger(ctx, "1", func(l *Ledger) error {
		assert.Empty(t, l.Categories)
		l.Wallets[0].Balance = 5
		return nil
	})
	require.NoError(t, err)
	items, err := repo.List(ctx, "finanzas_categories_")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.True(t, m.SaveCategories(ctx, "1", []models.Category{{ID: "a", Name: "Comida"}}))
	err = m.UpdateLedger(ctx, "1", func(l *Ledger) error {
		require.Len(t, l.Categories, 1)
		l.Categories = nil
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Category{{ID: "a", Name: "Comida"}}, m.GetCategories(ctx, "1"))
	assert.Equal(t, 5.0, m.GetWallets(ctx, "1")[0].Balance)
}

func TestManager_DeleteUserDataAndClearAll(t *testing.T) {
	m, repo := newTestManager(t)
	ctx := context.Background()

	require.True(t, m.SaveUsers(ctx, []models.User{{ID: "1"}}))
	require.True(t, m.SaveCategories(ctx, "1", []models.Category{{ID: "a"}}))
	require.True(t, m.SaveWallets(ctx, "1", []models.Wallet{{ID: "w"}}))
	require.True(t, m.SaveMovements(ctx, "1", []models.Movement{{ID: "m"}}))
	require.True(t, m.SaveCategories(ctx, "2", []models.Category{{ID: "b"}}))

	require.True(t, m.DeleteUserData(ctx, "1"))
	assert.Empty(t, m.GetCategories(ctx, "1"))
	assert.Empty(t, m.GetWallets(ctx, "1"))
	assert.Empty(t, m.GetMovements(ctx, "1"))
	assert.Len(t, m.GetCategories(ctx, "2"), 1)
	assert.Len(t, m.GetUsers(ctx), 1)

	require.NoError(t, repo.Set(ctx, "foreign", []byte(`1`)))
	require.True(t, m.ClearAll(ctx))
	assert.Empty(t, m.GetUsers(ctx))
	assert.Empty(t, m.GetCategories(ctx, "2"))
	v, err := repo.Get(ctx, "foreign")
	require.NoError(t, err)
	assert.NotNil(t, v)
}
