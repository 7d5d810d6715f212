package services

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newUserService(t *testing.T, rm repomanager.RepositoryManager) (*UserService, func() error) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	s := NewUserService(db, rm, cfg)
	mock.MatchExpectationsInOrder(true)
	return s, mock.ExpectationsWereMet
}

func TestRegister_Success(t *testing.T) {
	users := newMemUsers()
	s, _ := newUserService(t, &fakeRepoManager{u: users})

	u, err := s.Register(context.Background(), "  alice@example.com ", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "pw", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, []byte("pw")))
}

func TestRegister_Duplicate(t *testing.T) {
	users := newMemUsers()
	s, _ := newUserService(t, &fakeRepoManager{u: users})

	_, err := s.Register(context.Background(), "a@b.c", "x")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "a@b.c", "y")
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestRegister_MissingCredentials(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: newMemUsers()})

	for _, c := range [][2]string{{"", "pw"}, {"   ", "pw"}, {"a@b.c", ""}} {
		_, err := s.Register(context.Background(), c[0], c[1])
		assert.ErrorIs(t, err, common.ErrMissingCredentials, "%q", c)
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: newMemUsers()})

	_, err := s.Register(context.Background(), "a@b.c", strings.Repeat("p", 100))
	assert.ErrorIs(t, err, common.ErrPasswordTooLong)
}

type failingUsers struct{ memUsers }

func (*failingUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errBoom{}
}

func TestRegister_StoreErrorIsInternal(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: &failingUsers{}})

	_, err := s.Register(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Regexp(t, regexp.MustCompile(`error creating user: boom`), err.Error())
}

func TestLogin_Success(t *testing.T) {
	users := newMemUsers()
	refresh := &fakeRefreshRepo{}
	rm := &fakeRepoManager{u: users, r: refresh}

	db, mock := newSQLMockDB(t)
	s := NewUserService(db, rm, &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour})

	reg, err := s.Register(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := s.Login(context.Background(), " a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, pair.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, reg.ID, uid)

	assert.Equal(t, []string{reg.ID}, refresh.expiredPurged)
	require.Len(t, refresh.created, 1)
	assert.Equal(t, reg.ID, refresh.created[0].UserID)
	assert.Equal(t, pair.RefreshToken, refresh.created[0].Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users := newMemUsers()
	s, met := newUserService(t, &fakeRepoManager{u: users, r: &fakeRefreshRepo{}})

	_, err := s.Register(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "ghost@b.c", "pw")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, common.ErrMissingCredentials)

	assert.NoError(t, met(), "no transaction for failed logins")
}

func TestLogin_LookupErrorIsInternal(t *testing.T) {
	users := newMemUsers()
	users.getErr = errBoom{}
	s, _ := newUserService(t, &fakeRepoManager{u: users})

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_TokenStoreErrorRollsBack(t *testing.T) {
	users := newMemUsers()
	rm := &fakeRepoManager{u: users, r: &fakeRefreshRepo{createErr: errBoom{}}}
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, rm, &config.Config{SecretKey: "k"})

	_, err := s.Register(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = s.Login(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Regexp(t, `error storing refresh token: boom`, err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Success(t *testing.T) {
	refresh := &fakeRefreshRepo{
		consumeOut: &models.RefreshToken{UserID: "u1", Token: "refresh-xyz", Expires: time.Now().Add(10 * time.Minute)},
	}
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{r: refresh}, &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	})
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	refresh.consumeOut.Expires = now.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	require.NoError(t, err)
	assert.Equal(t, "u1", pair.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, "refresh-xyz", pair.RefreshToken)
	assert.Equal(t, []string{"refresh-xyz"}, refresh.consumed)

	require.Len(t, refresh.created, 1)
	assert.Equal(t, pair.RefreshToken, refresh.created[0].Token)
	assert.Equal(t, now.Add(2*time.Hour), refresh.created[0].Expires)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshToken_Failures(t *testing.T) {
	tests := []struct {
		name    string
		repo    *fakeRefreshRepo
		wantErr error
		errRe   string
	}{
		{
			name:    "expired",
			repo:    &fakeRefreshRepo{consumeOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(-time.Minute)}},
			wantErr: common.ErrRefreshTokenExpired,
		},
		{
			name:    "unknown or reused",
			repo:    &fakeRefreshRepo{consumeErr: common.ErrorNotFound},
			wantErr: common.ErrInvalidToken,
		},
		{
			name:    "store error",
			repo:    &fakeRefreshRepo{consumeErr: errBoom{}},
			wantErr: common.ErrorInternal,
			errRe:   `error consuming refresh token: .*boom`,
		},
		{
			name: "successor not stored",
			repo: &fakeRefreshRepo{
				consumeOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(time.Minute)},
				createErr:  errBoom{},
			},
			wantErr: common.ErrorInternal,
			errRe:   `error storing refresh token: boom`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			s := NewUserService(db, &fakeRepoManager{r: tt.repo}, &config.Config{SecretKey: "k"})

			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := s.RefreshToken(context.Background(), "r")
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errRe != "" {
				assert.Regexp(t, tt.errRe, err.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRefreshToken_ExpiredIsUnauthorized(t *testing.T) {
	db, mock := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{r: &fakeRefreshRepo{
		consumeOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(-time.Minute)},
	}}, &config.Config{SecretKey: "k"})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.RefreshToken(context.Background(), "r")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.NotErrorIs(t, err, common.ErrTokenExpired)
}

func TestRefreshToken_Empty(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{}})

	_, err := s.RefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	refresh := &fakeRefreshRepo{}
	s, _ := newUserService(t, &fakeRepoManager{r: refresh})

	require.NoError(t, s.Logout(context.Background(), "tok"))
	assert.Equal(t, []string{"tok"}, refresh.deleted)

	assert.ErrorIs(t, s.Logout(context.Background(), ""), common.ErrInvalidToken)

	refresh.delErr = errBoom{}
	err := s.Logout(context.Background(), "tok")
	assert.True(t, errors.Is(err, common.ErrorInternal))
}

func TestRefreshTokenExpired(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	tok := &models.RefreshToken{Expires: now}

	assert.True(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(time.Second)))
	assert.False(t, tok.Expired(now.Add(-time.Second)))
}
