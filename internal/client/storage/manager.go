package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
)

const (
	keyUsers         = "users"
	keyCurrentUser   = "currentUser"
	keySessionSecret = "sessionSecret"

	sessionSecretSize = 32
)

func categoriesKey(userID string) string { return "categories_" + userID }
func walletsKey(userID string) string    { return "wallets_" + userID }
func movementsKey(userID string) string  { return "movements_" + userID }

// Ledger is the per-user money state changed together by movements.
// Categories is read-only and is not written back.
type Ledger struct {
	Wallets    []models.Wallet
	Movements  []models.Movement
	Categories []models.Category
}

// Manager exposes the finkeeper collections on top of an Adapter.
type Manager struct {
	adapter *Adapter
	now     func() time.Time
}

func NewManager(adapter *Adapter) *Manager {
	return &Manager{adapter: adapter, now: time.Now}
}

// GetUsers returns all users, or an empty slice when none are stored.
func (m *Manager) GetUsers(ctx context.Context) []models.User {
	return readUsers(ctx, m.adapter)
}

func (m *Manager) SaveUsers(ctx context.Context, users []models.User) bool {
	return m.adapter.Set(ctx, keyUsers, users)
}

// FindUser returns the user with id, or nil.
func (m *Manager) FindUser(ctx context.Context, id string) *models.User {
	for _, u := range m.GetUsers(ctx) {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

// UpdateUsers replaces the users collection with fn's result atomically. An
// error from fn leaves the collection unchanged and is returned as is.
func (m *Manager) UpdateUsers(ctx context.Context, fn func(users []models.User) ([]models.User, error)) error {
	return m.adapter.Update(ctx, func(ctx context.Context, tx *Adapter) error {
		updated, err := fn(readUsers(ctx, tx))
		if err != nil {
			return err
		}
		tx.Set(ctx, keyUsers, updated)
		return nil
	})
}

func readUsers(ctx context.Context, a *Adapter) []models.User {
	users := []models.User{}
	a.Get(ctx, keyUsers, &users)
	return users
}

// GetSession returns the stored session record, or nil when logged out.
func (m *Manager) GetSession(ctx context.Context) *models.Session {
	var s models.Session
	if !m.adapter.Get(ctx, keyCurrentUser, &s) || s.UserID == "" {
		return nil
	}
	return &s
}

// GetCurrentUser resolves the session against the users collection. It
// returns nil when there is no session or its user no longer exists.
func (m *Manager) GetCurrentUser(ctx context.Context) *models.User {
	s := m.GetSession(ctx)
	if s == nil {
		return nil
	}
	return m.FindUser(ctx, s.UserID)
}

// SetCurrentUser stores a session referencing user.
func (m *Manager) SetCurrentUser(ctx context.Context, user models.User, token string) bool {
	return m.adapter.Set(ctx, keyCurrentUser, models.Session{
		UserID:    user.ID,
		Token:     token,
		StartedAt: m.now().UTC(),
	})
}

func (m *Manager) ClearSession(ctx context.Context) bool {
	return m.adapter.Remove(ctx, keyCurrentUser)
}

// SessionSecret returns the store's token signing key, creating it on first
// use.
func (m *Manager) SessionSecret(ctx context.Context) ([]byte, error) {
	var secret []byte
	err := m.adapter.Update(ctx, func(ctx context.Context, tx *Adapter) error {
		if tx.Get(ctx, keySessionSecret, &secret) && len(secret) == sessionSecretSize {
			return nil
		}
		secret = common.GenerateRandByteArray(sessionSecretSize)
		tx.Set(ctx, keySessionSecret, secret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// GetCategories returns the user's categories, or an empty slice.
func (m *Manager) GetCategories(ctx context.Context, userID string) []models.Category {
	return readCategories(ctx, m.adapter, userID)
}

func (m *Manager) SaveCategories(ctx context.Context, userID string, categories []models.Category) bool {
	return m.adapter.Set(ctx, categoriesKey(userID), categories)
}

// UpdateCategories replaces the user's categories with fn's result
// atomically.
func (m *Manager) UpdateCategories(ctx context.Context, userID string, fn func(categories []models.Category) ([]models.Category, error)) error {
	return m.adapter.Update(ctx, func(ctx context.Context, tx *Adapter) error {
		updated, err := fn(readCategories(ctx, tx, userID))
		if err != nil {
			return err
		}
		tx.Set(ctx, categoriesKey(userID), updated)
		return nil
	})
}

func readCategories(ctx context.Context, a *Adapter, userID string) []models.Category {
	categories := []models.Category{}
	a.Get(ctx, categoriesKey(userID), &categories)
	return categories
}

func (m *Manager) GetWallets(ctx context.Context, userID string) []models.Wallet {
	wallets := []models.Wallet{}
	m.adapter.Get(ctx, walletsKey(userID), &wallets)
	return wallets
}

func (m *Manager) SaveWallets(ctx context.Context, userID string, wallets []models.Wallet) bool {
	return m.adapter.Set(ctx, walletsKey(userID), wallets)
}

func (m *Manager) GetMovements(ctx context.Context, userID string) []models.Movement {
	movements := []models.Movement{}
	m.adapter.Get(ctx, movementsKey(userID), &movements)
	return movements
}

func (m *Manager) SaveMovements(ctx context.Context, userID string, movements []models.Movement) bool {
	return m.adapter.Set(ctx, movementsKey(userID), movements)
}

// UpdateLedger loads the user's wallets, movements and categories, lets fn
// change them in place and writes wallets and movements back in one atomic
// section.
func (m *Manager) UpdateLedger(ctx context.Context, userID string, fn func(l *Ledger) error) error {
	return m.adapter.Update(ctx, func(ctx context.Context, tx *Adapter) error {
		l := &Ledger{
			Wallets:    []models.Wallet{},
			Movements:  []models.Movement{},
			Categories: readCategories(ctx, tx, userID),
		}
		tx.Get(ctx, walletsKey(userID), &l.Wallets)
		tx.Get(ctx, movementsKey(userID), &l.Movements)

		if err := fn(l); err != nil {
			return err
		}

		tx.Set(ctx, walletsKey(userID), l.Wallets)
		tx.Set(ctx, movementsKey(userID), l.Movements)
		return nil
	})
}

// DeleteUserData removes every collection scoped to userID.
func (m *Manager) DeleteUserData(ctx context.Context, userID string) bool {
	err := m.adapter.Update(ctx, func(ctx context.Context, tx *Adapter) error {
		tx.Remove(ctx, categoriesKey(userID))
		tx.Remove(ctx, walletsKey(userID))
		tx.Remove(ctx, movementsKey(userID))
		return nil
	})
	return err == nil
}

// ClearAll removes everything in the namespace.
func (m *Manager) ClearAll(ctx context.Context) bool {
	return m.adapter.Clear(ctx)
}
