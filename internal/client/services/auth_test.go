package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aliceSession = client.Session{UserID: "u1", AccessToken: "A1", RefreshToken: "R1"}

func TestRegister_WipesPasswordAndTrimsEmail(t *testing.T) {
	fc := &fakeClient{registerID: "u1"}
	svc := NewAuthService(fc, setupDB(t))

	pw := []byte("secret")
	id, err := svc.Register(context.Background(), "  alice@example.com ", pw)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.Equal(t, "alice@example.com", fc.lastEmail)
	assert.Equal(t, "secret", fc.lastPass)
	assert.Equal(t, make([]byte, 6), pw)
}

func TestRegister_MissingCredentials(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, setupDB(t))

	_, err := svc.Register(context.Background(), " ", []byte("pw"))
	require.ErrorIs(t, err, common.ErrMissingCredentials)

	_, err = svc.Register(context.Background(), "a@b.c", nil)
	require.ErrorIs(t, err, common.ErrMissingCredentials)
	assert.Empty(t, fc.lastEmail)
}

func TestLogin_PersistsSession(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{loginResp: aliceSession}
	svc := NewAuthService(fc, db)

	pw := []byte("pw")
	s, err := svc.Login(context.Background(), "alice@example.com", pw)
	require.NoError(t, err)
	assert.Equal(t, aliceSession, s)
	assert.Equal(t, []byte{0, 0}, pw)

	assert.Equal(t, "alice@example.com", getSession(t, db, keyEmail))
	assert.Equal(t, "u1", getSession(t, db, keyUserID))
	assert.Equal(t, "A1", getSession(t, db, keyAccessToken))
	assert.Equal(t, "R1", getSession(t, db, keyRefreshToken))
}

func TestLogin_ReplacesPreviousUser(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO session(key, value) VALUES ('stale', 'x')`)
	require.NoError(t, err)

	svc := NewAuthService(&fakeClient{loginResp: aliceSession}, db)
	_, err = svc.Login(context.Background(), "alice@example.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, 4, countSession(t, db))
}

func TestLogin_ErrorStoresNothing(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{err: common.ErrInvalidCredentials}
	svc := NewAuthService(fc, db)

	_, err := svc.Login(context.Background(), "alice@example.com", []byte("bad"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, 0, countSession(t, db))
}

func TestLogin_SaveErrorWrapped(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(&fakeClient{loginResp: aliceSession}, db)
	_, err := db.Exec(`DROP TABLE session`)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", []byte("pw"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session saving error")
}

func TestRestore(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{loginResp: aliceSession}
	svc := NewAuthService(fc, db)
	ctx := context.Background()

	email, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.False(t, fc.session.Active())

	_, err = svc.Login(ctx, "alice@example.com", []byte("pw"))
	require.NoError(t, err)

	fresh := &fakeClient{}
	email, err = NewAuthService(fresh, db).Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
	assert.Equal(t, aliceSession, fresh.session)
}

func TestSaveSession_StoresRotatedTokens(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(&fakeClient{loginResp: aliceSession}, db)
	ctx := context.Background()

	_, err := svc.Login(ctx, "alice@example.com", []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, svc.SaveSession(ctx, client.Session{UserID: "u1", AccessToken: "A2", RefreshToken: "R2"}))
	assert.Equal(t, "A2", getSession(t, db, keyAccessToken))
	assert.Equal(t, "R2", getSession(t, db, keyRefreshToken))
	assert.Equal(t, "alice@example.com", getSession(t, db, keyEmail))
}

func TestLogout_ClearsLocalEvenIfServerFails(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{loginResp: aliceSession, logoutErr: client.ErrUnavailable}
	svc := NewAuthService(fc, db)
	ctx := context.Background()

	_, err := svc.Login(ctx, "alice@example.com", []byte("pw"))
	require.NoError(t, err)

	err = svc.Logout(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, 0, countSession(t, db))
	assert.False(t, fc.session.Active())
}

func TestPingAndClose(t *testing.T) {
	fc := &fakeClient{pingErr: errors.New("down")}
	svc := NewAuthService(fc, setupDB(t))

	require.Error(t, svc.Ping(context.Background()))
	require.NoError(t, svc.Close(context.Background()))
	assert.True(t, fc.closed)
}
