package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
)

func (a *App) Categories(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	printCategories(a.out, a.categories.GetCategories(ctx, u.ID))
	return nil
}

func (a *App) AddCategory(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	typ, err := getSimpleText(a.reader, "Category type (e.g. Bolsillo, Meta, Tarjeta de Crédito)", a.out)
	if err != nil {
		return err
	}
	in := models.CategoryInput{Name: name, Type: typ}

	balance, err := getSimpleText(a.reader, "Initial balance (blank for 0)", a.out)
	if err != nil {
		return err
	}
	if balance != "" {
		if in.Balance, err = parseAmount(balance); err != nil {
			return err
		}
	}

	c, err := a.categories.CreateCategory(ctx, u.ID, in)
	if err != nil {
		return err
	}
	a.printf("Category %q created (id %s)\n", c.Name, c.ID)
	return nil
}

// EditCategory updates the category named by args[0]. Blank answers keep
// the current value.
func (a *App) EditCategory(ctx context.Context, args []string) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	c, err := a.pickCategory(ctx, u.ID, args)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "New name ["+c.Name+"]", a.out)
	if err != nil {
		return err
	}
	typ, err := getSimpleText(a.reader, "New type ["+c.Type+"]", a.out)
	if err != nil {
		return err
	}
	upd := models.CategoryUpdate{Name: optional(name), Type: optional(typ)}

	balance, err := getSimpleText(a.reader, "New balance ["+money(c.Balance)+"]", a.out)
	if err != nil {
		return err
	}
	if balance != "" {
		v, err := parseAmount(balance)
		if err != nil {
			return err
		}
		upd.Balance = &v
	}

	if _, err := a.categories.UpdateCategory(ctx, u.ID, c.ID, upd); err != nil {
		return err
	}
	a.println("Category updated")
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	c, err := a.pickCategory(ctx, u.ID, args)
	if err != nil {
		return err
	}
	if err := a.categories.DeleteCategory(ctx, u.ID, c.ID); err != nil {
		return err
	}
	a.printf("Category %q deleted\n", c.Name)
	return nil
}

// pickCategory resolves the category from args or, when none is given, asks
// for it.
func (a *App) pickCategory(ctx context.Context, userID string, args []string) (*models.Category, error) {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	} else {
		s, err := getSimpleText(a.reader, "Category id or name", a.out)
		if err != nil {
			return nil, err
		}
		ref = s
	}
	if ref == "" {
		return nil, errors.New("a category is required")
	}
	return a.findCategory(ctx, userID, ref)
}
