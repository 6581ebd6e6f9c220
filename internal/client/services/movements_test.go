package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementManager_RecordAdjustsWallet(t *testing.T) {
	ctx := context.Background()
	_, wm, mm := newLedgerManagers(t)
	w := seedWallet(t, wm, "1", "Efectivo", 100)

	in, err := mm.Record(ctx, "1", models.MovementInput{
		WalletID: w.ID, Kind: models.MovementIncome, Amount: 40, Description: " Sueldo ", Date: "2026-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "mv-1", in.ID)
	assert.Equal(t, "Sueldo", in.Description)
	assert.Equal(t, testNow, in.CreatedAt)

	out, err := mm.Record(ctx, "1", models.MovementInput{WalletID: w.ID, Kind: models.MovementExpense, Amount: 15.5})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", out.Date, "date defaults to today")

	assert.InDelta(t, 124.5, wm.Get(ctx, "1", w.ID).Balance, 1e-9)
}

func TestMovementManager_RecordRejects(t *testing.T) {
	ctx := context.Background()
	store, wm, mm := newLedgerManagers(t)
	w := seedWallet(t, wm, "1", "Efectivo", 10)

	tests := []struct {
		name string
		in   models.MovementInput
		want error
	}{
		{"zero amount", models.MovementInput{WalletID: w.ID, Kind: models.MovementIncome}, common.ErrInvalidMovement},
		{"negative amount", models.MovementInput{WalletID: w.ID, Kind: models.MovementIncome, Amount: -3}, common.ErrInvalidMovement},
		{"unknown kind", models.MovementInput{WalletID: w.ID, Kind: "transfer", Amount: 1}, common.ErrInvalidMovement},
		{"bad date", models.MovementInput{WalletID: w.ID, Kind: models.MovementIncome, Amount: 1, Date: "14/03/2026"}, common.ErrInvalidMovement},
		{"no wallet", models.MovementInput{Kind: models.MovementIncome, Amount: 1}, common.ErrInvalidMovement},
		{"unknown wallet", models.MovementInput{WalletID: "w-9", Kind: models.MovementIncome, Amount: 1}, common.ErrWalletNotFound},
		{"unknown category", models.MovementInput{WalletID: w.ID, CategoryID: "c-9", Kind: models.MovementIncome, Amount: 1}, common.ErrCategoryNotFound},
		{"insufficient funds", models.MovementInput{WalletID: w.ID, Kind: models.MovementExpense, Amount: 10.01}, common.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mm.Record(ctx, "1", tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, store.GetMovements(ctx, "1"))
	assert.Equal(t, 10.0, wm.Get(ctx, "1", w.ID).Balance)
}

func TestMovementManager_RecordWithCategory(t *testing.T) {
	ctx := context.Background()
	store, wm, mm := newLedgerManagers(t)
	w := seedWallet(t, wm, "1", "Efectivo", 100)
	cm := NewCategoryManager(store, nil)
	c, err := cm.CreateCategory(ctx, "1", models.CategoryInput{Name: "Comida", Type: "Bolsillo"})
	require.NoError(t, err)

	mv, err := mm.Record(ctx, "1", models.MovementInput{WalletID: w.ID, CategoryID: c.ID, Kind: models.MovementExpense, Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, c.ID, mv.CategoryID)
	assert.Zero(t, wm.Get(ctx, "1", w.ID).Balance)

	// category balances are not touched by movements
	assert.Zero(t, cm.GetCategoryByID(ctx, "1", c.ID).Balance)
}

func TestMovementManager_DeleteRevertsBalance(t *testing.T) {
	ctx := context.Background()
	_, wm, mm := newLedgerManagers(t)
	w := seedWallet(t, wm, "1", "Efectivo", 100)

	in, err := mm.Record(ctx, "1", models.MovementInput{WalletID: w.ID, Kind: models.MovementIncome, Amount: 20})
	require.NoError(t, err)
	out, err := mm.Record(ctx, "1", models.MovementInput{WalletID: w.ID, Kind: models.MovementExpense, Amount: 70})
	require.NoError(t, err)
	require.Equal(t, 50.0, wm.Get(ctx, "1", w.ID).Balance)

	require.NoError(t, mm.Delete(ctx, "1", out.ID))
	assert.Equal(t, 120.0, wm.Get(ctx, "1", w.ID).Balance)

	require.NoError(t, mm.Delete(ctx, "1", in.ID))
	assert.Equal(t, 100.0, wm.Get(ctx, "1", w.ID).Balance)
	assert.Empty(t, mm.List(ctx, "1", models.MovementFilter{}))

	require.ErrorIs(t, mm.Delete(ctx, "1", in.ID), common.ErrMovementNotFound)
}

func TestMovementManager_ListAndSummary(t *testing.T) {
	ctx := context.Background()
	store, wm, mm := newLedgerManagers(t)
	cash := seedWallet(t, wm, "1", "Efectivo", 1000)
	bank := seedWallet(t, wm, "1", "Banco", 1000)
	cm := NewCategoryManager(store, nil)
	food, err := cm.CreateCategory(ctx, "1", models.CategoryInput{Name: "Comida", Type: "Bolsillo"})
	require.NoError(t, err)

	record := func(w models.Wallet, cat string, kind models.MovementKind, amount float64, desc, date string) {
		t.Helper()
		mm.now = func() time.Time { return testNow }
		_, err := mm.Record(ctx, "1", models.MovementInput{
			WalletID: w.ID, CategoryID: cat, Kind: kind, Amount: amount, Description: desc, Date: date,
		})
		require.NoError(t, err)
	}
	record(cash, food.ID, models.MovementExpense, 30, "Almuerzo", "2026-03-02")
	record(bank, "", models.MovementIncome, 500, "Sueldo marzo", "2026-03-01")
	record(cash, food.ID, models.MovementExpense, 12, "Cena con amigos", "2026-03-10")
	record(bank, "", models.MovementExpense, 80, "Luz", "2026-02-27")

	all := mm.List(ctx, "1", models.MovementFilter{})
	require.Len(t, all, 4)
	dates := []string{all[0].Date, all[1].Date, all[2].Date, all[3].Date}
	assert.Equal(t, []string{"2026-03-10", "2026-03-02", "2026-03-01", "2026-02-27"}, dates)

	march := models.MovementFilter{From: "2026-03-01", To: "2026-03-31"}
	assert.Len(t, mm.List(ctx, "1", march), 3)

	assert.Len(t, mm.List(ctx, "1", models.MovementFilter{WalletID: bank.ID}), 2)
	assert.Len(t, mm.List(ctx, "1", models.MovementFilter{CategoryID: food.ID}), 2)
	assert.Len(t, mm.List(ctx, "1", models.MovementFilter{Kind: models.MovementIncome}), 1)

	byText := mm.List(ctx, "1", models.MovementFilter{Text: "CENA"})
	require.Len(t, byText, 1)
	assert.Equal(t, "Cena con amigos", byText[0].Description)

	assert.Equal(t, models.Summary{Income: 500, Expense: 122, Net: 378}, mm.Summary(ctx, "1", models.MovementFilter{}))
	assert.Equal(t, models.Summary{Income: 500, Expense: 42, Net: 458}, mm.Summary(ctx, "1", march))
	assert.Equal(t, models.Summary{}, mm.Summary(ctx, "2", models.MovementFilter{}))
}
