package cli

import (
	"context"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
)

func (a *App) Wallets(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	printWallets(a.out, a.wallets.List(ctx, u.ID), a.wallets.Total(ctx, u.ID))
	return nil
}

func (a *App) AddWallet(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Wallet name", a.out)
	if err != nil {
		return err
	}
	in := models.WalletInput{Name: name}

	balance, err := getSimpleText(a.reader, "Opening balance (blank for 0)", a.out)
	if err != nil {
		return err
	}
	if balance != "" {
		if in.Balance, err = parseAmount(balance); err != nil {
			return err
		}
	}

	w, err := a.wallets.Create(ctx, u.ID, in)
	if err != nil {
		return err
	}
	a.printf("Wallet %q created (id %s)\n", w.Name, w.ID)
	return nil
}
