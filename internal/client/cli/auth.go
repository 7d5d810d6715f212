package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
)

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates an account. The
// password buffer is wiped by the service.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if _, err := a.authService.Register(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "User registered successfully! You can log in now.")
	return nil
}

// Login prompts for credentials, signs in and shows the task list.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if _, err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}

	a.email, a.loggedIn = email, true
	log.Printf("Login successful")
	a.setMode(ModeOnline)

	return a.List(ctx)
}

// Logout ends the session locally and on the server. A server that cannot
// be reached does not keep the user signed in.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.forget()
	if err != nil {
		log.Printf("logout: %s", err.Error())
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) forget() {
	a.email, a.loggedIn = "", false
	a.view = tasklist.View{}
}

// checkSession signs the user out locally when the server no longer
// accepts the session. err is returned unchanged.
func (a *App) checkSession(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorUnauthorized) {
		_ = a.authService.Logout(ctx)
		a.forget()
	}
	return err
}
