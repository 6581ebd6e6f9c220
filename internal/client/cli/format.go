package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func printUser(w io.Writer, u *models.User) {
	t := newTable(w)
	fmt.Fprintf(t, "id:\t%s\n", u.ID)
	fmt.Fprintf(t, "name:\t%s\n", u.Name)
	fmt.Fprintf(t, "email:\t%s\n", u.Email)
	if u.Avatar != "" {
		fmt.Fprintf(t, "avatar:\t%s\n", u.Avatar)
	}
	fmt.Fprintf(t, "sign-in:\t%s\n", u.AuthStrategy)
	fmt.Fprintf(t, "two-factor:\t%t\n", u.TwoFactorEnabled)
	fmt.Fprintf(t, "member since:\t%s\n", u.CreatedAt.Format(models.DateLayout))
	_ = t.Flush()
}

func printCategories(w io.Writer, categories []models.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tTYPE\tBALANCE")
	for _, c := range categories {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, money(c.Balance))
	}
	_ = t.Flush()
}

func printWallets(w io.Writer, wallets []models.Wallet, total float64) {
	if len(wallets) == 0 {
		fmt.Fprintln(w, "No wallets")
		return
	}
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tBALANCE")
	for _, wl := range wallets {
		fmt.Fprintf(t, "%s\t%s\t%s\n", wl.ID, wl.Name, money(wl.Balance))
	}
	fmt.Fprintf(t, "\tTOTAL\t%s\n", money(total))
	_ = t.Flush()
}

// printMovements shows movements with wallet and category names resolved.
func printMovements(w io.Writer, movements []models.Movement, wallets map[string]string, categories map[string]string) {
	if len(movements) == 0 {
		fmt.Fprintln(w, "No movements")
		return
	}
	t := newTable(w)
	fmt.Fprintln(t, "ID\tDATE\tKIND\tAMOUNT\tWALLET\tCATEGORY\tDESCRIPTION")
	for _, m := range movements {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Date, m.Kind, money(m.Signed()), wallets[m.WalletID], categories[m.CategoryID], m.Description)
	}
	_ = t.Flush()
}

func printSummary(w io.Writer, s models.Summary) {
	t := newTable(w)
	fmt.Fprintf(t, "income:\t%s\n", money(s.Income))
	fmt.Fprintf(t, "expense:\t%s\n", money(s.Expense))
	fmt.Fprintf(t, "net:\t%s\n", money(s.Net))
	_ = t.Flush()
}
