package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus(ctx context.Context) string {
	u := a.auth.CurrentUser(ctx)
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Name)
}

// Root prints the greeting and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to finkeeper (type 'help' for commands)")
	if u := a.auth.CurrentUser(ctx); u != nil {
		a.printf("Logged in as %s <%s>\n", u.Name, u.Email)
	}

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}
