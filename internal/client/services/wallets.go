package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/client/storage"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
	"github.com/google/uuid"
)

// LedgerStore is the part of storage.Manager used by the wallet and
// movement managers.
type LedgerStore interface {
	GetWallets(ctx context.Context, userID string) []models.Wallet
	GetMovements(ctx context.Context, userID string) []models.Movement
	GetCategories(ctx context.Context, userID string) []models.Category
	UpdateLedger(ctx context.Context, userID string, fn func(l *storage.Ledger) error) error
}

var defaultWallets = []string{"Efectivo", "Banco"}

type WalletManager struct {
	store  LedgerStore
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewWalletManager(store LedgerStore, logger logging.Logger) *WalletManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WalletManager{
		store:  store,
		logger: logger.With("component", "wallets"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (m *WalletManager) List(ctx context.Context, userID string) []models.Wallet {
	return m.store.GetWallets(ctx, userID)
}

// Get returns nil when the wallet does not exist.
func (m *WalletManager) Get(ctx context.Context, userID, id string) *models.Wallet {
	for _, w := range m.store.GetWallets(ctx, userID) {
		if w.ID == id {
			return &w
		}
	}
	return nil
}

func (m *WalletManager) Create(ctx context.Context, userID string, in models.WalletInput) (*models.Wallet, error) {
	if err := models.Validator().Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidWallet, err)
	}

	w := models.Wallet{
		ID:        m.newID(),
		Name:      strings.TrimSpace(in.Name),
		Balance:   in.Balance,
		CreatedAt: m.now().UTC(),
	}
	err := m.store.UpdateLedger(ctx, userID, func(l *storage.Ledger) error {
		l.Wallets = append(l.Wallets, w)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug(ctx, "wallet created", "user_id", userID, "wallet_id", w.ID)
	return &w, nil
}

func (m *WalletManager) Rename(ctx context.Context, userID, id, name string) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidWallet)
	}

	var renamed models.Wallet
	err := m.store.UpdateLedger(ctx, userID, func(l *storage.Ledger) error {
		i := walletIndex(l.Wallets, id)
		if i < 0 {
			return common.ErrWalletNotFound
		}
		l.Wallets[i].Name = name
		renamed = l.Wallets[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &renamed, nil
}

// Delete removes a wallet that no movement references.
func (m *WalletManager) Delete(ctx context.Context, userID, id string) error {
	return m.store.UpdateLedger(ctx, userID, func(l *storage.Ledger) error {
		i := walletIndex(l.Wallets, id)
		if i < 0 {
			return common.ErrWalletNotFound
		}
		for _, mv := range l.Movements {
			if mv.WalletID == id {
				return common.ErrWalletInUse
			}
		}
		l.Wallets = append(l.Wallets[:i], l.Wallets[i+1:]...)
		return nil
	})
}

// CreateDefaultWallets adds the starter wallets with a zero balance.
func (m *WalletManager) CreateDefaultWallets(ctx context.Context, userID string) ([]models.Wallet, error) {
	now := m.now().UTC()
	created := make([]models.Wallet, 0, len(defaultWallets))
	for _, name := range defaultWallets {
		created = append(created, models.Wallet{ID: m.newID(), Name: name, CreatedAt: now})
	}

	err := m.store.UpdateLedger(ctx, userID, func(l *storage.Ledger) error {
		l.Wallets = append(l.Wallets, created...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "default wallets created", "user_id", userID, "count", len(created))
	return created, nil
}

// Total is the sum of all wallet balances.
func (m *WalletManager) Total(ctx context.Context, userID string) float64 {
	var total float64
	for _, w := range m.store.GetWallets(ctx, userID) {
		total += w.Balance
	}
	return total
}

func walletIndex(wallets []models.Wallet, id string) int {
	for i, w := range wallets {
		if w.ID == id {
			return i
		}
	}
	return -1
}
