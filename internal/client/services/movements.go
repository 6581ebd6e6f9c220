package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/client/storage"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
	"github.com/google/uuid"
)

// MovementManager records income and expenses against wallets.
type MovementManager struct {
	store  LedgerStore
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewMovementManager(store LedgerStore, logger logging.Logger) *MovementManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &MovementManager{
		store:  store,
		logger: logger.With("component", "movements"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Record appends a movement and moves the wallet balance in the same
// atomic update. An expense larger than the wallet balance is rejected.
func (m *MovementManager) Record(ctx context.Context, userID string, in models.MovementInput) (*models.Movement, error) {
	if err := models.Validator().Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidMovement, err)
	}

	now := m.now()
	mv := models.Movement{
		ID:          m.newID(),
		WalletID:    in.WalletID,
		CategoryID:  in.CategoryID,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		CreatedAt:   now.UTC(),
	}
	if mv.Date == "" {
		mv.Date = now.Format(models.DateLayout)
	}

	err := m.store.UpdateLedger(ctx, userID, func(l *storage.Ledger) error {
		wi := walletIndex(l.Wallets, mv.WalletID)
		if wi < 0 {
			return common.ErrWalletNotFound
		}
		if mv.CategoryID != "" && !hasCategory(l.Categories, mv.CategoryID) {
			return common.ErrCategoryNotFound
		}
		w := &l.Wallets[wi]
		if mv.Kind == models.MovementExpense && mv.Amount > w.Balance {
			return common.ErrInsufficientFunds
		}
		w.Balance += mv.Signed()
		l.Movements = append(l.Movements, mv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug(ctx, "movement recorded", "user_id", userID, "movement_id", mv.ID, "kind", mv.Kind)
	return &mv, nil
}

// Delete removes a movement and reverts its effect on the wallet.
func (m *MovementManager) Delete(ctx context.Context, userID, id string) error {
	return m.store.UpdateLedger(ctx, userID, func(l *storage.Ledger) error {
		for i, mv := range l.Movements {
			if mv.ID != id {
				continue
			}
			if wi := walletIndex(l.Wallets, mv.WalletID); wi >= 0 {
				l.Wallets[wi].Balance -= mv.Signed()
			}
			l.Movements = append(l.Movements[:i], l.Movements[i+1:]...)
			return nil
		}
		return common.ErrMovementNotFound
	})
}

// List returns the movements matching f, newest date first.
func (m *MovementManager) List(ctx context.Context, userID string, f models.MovementFilter) []models.Movement {
	out := []models.Movement{}
	for _, mv := range m.store.GetMovements(ctx, userID) {
		if matches(mv, f) {
			out = append(out, mv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MovementManager) Summary(ctx context.Context, userID string, f models.MovementFilter) models.Summary {
	var s models.Summary
	for _, mv := range m.store.GetMovements(ctx, userID) {
		if !matches(mv, f) {
			continue
		}
		switch mv.Kind {
		case models.MovementIncome:
			s.Income += mv.Amount
		case models.MovementExpense:
			s.Expense += mv.Amount
		}
	}
	s.Net = s.Income - s.Expense
	return s
}

// ISO dates compare correctly as strings.
func matches(mv models.Movement, f models.MovementFilter) bool {
	switch {
	case f.From != "" && mv.Date < f.From:
		return false
	case f.To != "" && mv.Date > f.To:
		return false
	case f.Kind != "" && mv.Kind != f.Kind:
		return false
	case f.WalletID != "" && mv.WalletID != f.WalletID:
		return false
	case f.CategoryID != "" && mv.CategoryID != f.CategoryID:
		return false
	case f.Text != "" && !strings.Contains(strings.ToLower(mv.Description), strings.ToLower(f.Text)):
		return false
	}
	return true
}
