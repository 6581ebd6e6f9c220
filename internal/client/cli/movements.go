package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
)

func (a *App) Income(ctx context.Context) error {
	return a.record(ctx, models.MovementIncome)
}

func (a *App) Expense(ctx context.Context) error {
	return a.record(ctx, models.MovementExpense)
}

func (a *App) record(ctx context.Context, kind models.MovementKind) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	walletRef, err := getSimpleText(a.reader, "Wallet (id or name)", a.out)
	if err != nil {
		return err
	}
	w, err := a.findWallet(ctx, u.ID, walletRef)
	if err != nil {
		return err
	}

	in := models.MovementInput{WalletID: w.ID, Kind: kind}

	categoryRef, err := getSimpleText(a.reader, "Category (id or name, blank for none)", a.out)
	if err != nil {
		return err
	}
	if categoryRef != "" {
		c, err := a.findCategory(ctx, u.ID, categoryRef)
		if err != nil {
			return err
		}
		in.CategoryID = c.ID
	}

	if in.Amount, err = GetAmount(a.reader, "Amount", a.out); err != nil {
		return err
	}
	if in.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.Date, err = getSimpleText(a.reader, "Date (YYYY-MM-DD, blank for today)", a.out); err != nil {
		return err
	}

	mv, err := a.movements.Record(ctx, u.ID, in)
	if err != nil {
		return err
	}
	a.printf("Recorded %s of %s in %s (id %s)\n", mv.Kind, money(mv.Amount), w.Name, mv.ID)
	return nil
}

// Movements lists movements, newest first, narrowed by key=value filters.
func (a *App) Movements(ctx context.Context, args []string) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	f, err := a.parseFilter(ctx, u.ID, args)
	if err != nil {
		return err
	}

	wallets := map[string]string{}
	for _, w := range a.wallets.List(ctx, u.ID) {
		wallets[w.ID] = w.Name
	}
	categories := map[string]string{}
	for _, c := range a.categories.GetCategories(ctx, u.ID) {
		categories[c.ID] = c.Name
	}

	printMovements(a.out, a.movements.List(ctx, u.ID, f), wallets, categories)
	return nil
}

func (a *App) DeleteMovement(ctx context.Context, args []string) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: delmovement <id>")
	}
	if err := a.movements.Delete(ctx, u.ID, args[0]); err != nil {
		return err
	}
	a.println("Movement deleted")
	return nil
}

func (a *App) Summary(ctx context.Context, args []string) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	f, err := a.parseFilter(ctx, u.ID, args)
	if err != nil {
		return err
	}
	printSummary(a.out, a.movements.Summary(ctx, u.ID, f))
	return nil
}

// parseFilter reads from=, to=, kind=, wallet=, category= and text=
// arguments. Wallets and categories may be given by id or name.
func (a *App) parseFilter(ctx context.Context, userID string, args []string) (models.MovementFilter, error) {
	var f models.MovementFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return f, fmt.Errorf("invalid filter %q, expected key=value", arg)
		}
		switch key {
		case "from":
			f.From = value
		case "to":
			f.To = value
		case "kind":
			f.Kind = models.MovementKind(value)
		case "wallet":
			w, err := a.findWallet(ctx, userID, value)
			if err != nil {
				return f, err
			}
			f.WalletID = w.ID
		case "category":
			c, err := a.findCategory(ctx, userID, value)
			if err != nil {
				return f, err
			}
			f.CategoryID = c.ID
		case "text":
			f.Text = value
		default:
			return f, fmt.Errorf("unknown filter %q", key)
		}
	}
	return f, nil
}

// findWallet matches by id first, then by case-insensitive name.
func (a *App) findWallet(ctx context.Context, userID, ref string) (*models.Wallet, error) {
	wallets := a.wallets.List(ctx, userID)
	for _, w := range wallets {
		if w.ID == ref {
			return &w, nil
		}
	}
	for _, w := range wallets {
		if strings.EqualFold(w.Name, ref) {
			return &w, nil
		}
	}
	return nil, common.ErrWalletNotFound
}

func (a *App) findCategory(ctx context.Context, userID, ref string) (*models.Category, error) {
	if c := a.categories.GetCategoryByID(ctx, userID, ref); c != nil {
		return c, nil
	}
	for _, c := range a.categories.GetCategories(ctx, userID) {
		if strings.EqualFold(c.Name, ref) {
			return &c, nil
		}
	}
	return nil, common.ErrCategoryNotFound
}
