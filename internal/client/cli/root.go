package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
)

func (a *App) getStatus() string {
	parts := make([]string, 0, 2)
	if a.email != "" {
		parts = append(parts, a.email)
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root restores a saved session, starts the connectivity watcher and runs
// the REPL until the user exits or input ends.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the to-do CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	a.restore(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// restore signs in with the session kept in the local database, if any.
func (a *App) restore(ctx context.Context) {
	email, err := a.authService.Restore(ctx)
	if err != nil {
		log.Printf("error restoring session: %s", err.Error())
		return
	}
	if email == "" {
		return
	}

	a.email, a.loggedIn = email, true
	fmt.Fprintf(a.out, "Signed in as %s.\n", email)
}
