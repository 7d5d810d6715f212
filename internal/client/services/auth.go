// Package services contains application services for the to-do CLI.
// This file defines the authentication service: register, login with a
// persisted session, session restore on start, logout and liveness probe.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
)

// Keys of the local session table.
const (
	keyEmail        = "email"
	keyUserID       = "user_id"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// AuthService defines authentication operations for the CLI.
//
// Password buffers passed to Register and Login are wiped before the call
// returns.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) (client.Session, error)
	Restore(ctx context.Context) (string, error)
	SaveSession(ctx context.Context, s client.Session) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the AuthService backed by a remote Client and the local
// session database.
type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getSessionRepo() session.Repository {
	return session.NewSQLiteRepository(a.db)
}

func credentials(email string, password []byte) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return "", common.ErrMissingCredentials
	}
	return email, nil
}

// Register creates an account and returns the new user id.
func (a *authService) Register(ctx context.Context, email string, password []byte) (string, error) {
	defer common.WipeByteArray(password)

	email, err := credentials(email, password)
	if err != nil {
		return "", err
	}
	return a.client.Register(ctx, email, string(password))
}

// Login authenticates against the server and stores the issued session so
// that the next start of the CLI is already signed in.
func (a *authService) Login(ctx context.Context, email string, password []byte) (client.Session, error) {
	defer common.WipeByteArray(password)

	email, err := credentials(email, password)
	if err != nil {
		return client.Session{}, err
	}

	s, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return client.Session{}, err
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyEmail, []byte(email)); err != nil {
			return err
		}
		return saveSession(ctx, repo, s)
	})
	if err != nil {
		return client.Session{}, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

// SaveSession stores rotated tokens of the current user.
func (a *authService) SaveSession(ctx context.Context, s client.Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return saveSession(ctx, session.NewSQLiteRepository(tx), s)
	})
}

func saveSession(ctx context.Context, repo session.Repository, s client.Session) error {
	if err := repo.Set(ctx, keyUserID, []byte(s.UserID)); err != nil {
		return err
	}
	if err := repo.Set(ctx, keyAccessToken, []byte(s.AccessToken)); err != nil {
		return err
	}
	return repo.Set(ctx, keyRefreshToken, []byte(s.RefreshToken))
}

// Restore loads a stored session into the client and returns the email it
// belongs to, or "" when nothing usable is stored.
func (a *authService) Restore(ctx context.Context) (string, error) {
	saved, err := a.getSessionRepo().List(ctx)
	if err != nil {
		return "", err
	}

	s := client.Session{
		UserID:       string(saved[keyUserID]),
		AccessToken:  string(saved[keyAccessToken]),
		RefreshToken: string(saved[keyRefreshToken]),
	}
	if !s.Active() {
		return "", nil
	}

	a.client.SetSession(s)
	return string(saved[keyEmail]), nil
}

// Logout revokes the session on the server and forgets it locally. The
// local copy is removed even when the server call fails.
func (a *authService) Logout(ctx context.Context) error {
	remoteErr := a.client.Logout(ctx)
	if err := a.getSessionRepo().Clear(ctx); err != nil {
		return err
	}
	return remoteErr
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
