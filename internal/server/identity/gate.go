// Package identity resolves the credential presented with a request to the
// id of the user making it.
package identity

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
)

// Verifier turns a non-empty credential into a user id.
type Verifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}

// Gate rejects requests without a credential and delegates the rest to its
// Verifier.
type Gate struct {
	verifier Verifier
}

func NewGate(v Verifier) *Gate {
	return &Gate{verifier: v}
}

// Resolve returns the caller's user id. An empty or blank credential is
// common.ErrUnauthenticated.
func (g *Gate) Resolve(ctx context.Context, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", common.ErrUnauthenticated
	}

	userID, err := g.verifier.Verify(ctx, credential)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", common.ErrUnauthenticated
	}
	return userID, nil
}

// JWTVerifier accepts HS256 access tokens signed with its secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	return auth.GetUserIDFromToken(token, v.secret)
}

// PresenceVerifier takes the credential itself as the user id. It performs
// no proof of identity and exists for deployments that sit behind a trusted
// front end or need the legacy bare-id behaviour.
type PresenceVerifier struct{}

func (PresenceVerifier) Verify(_ context.Context, userID string) (string, error) {
	return userID, nil
}

// RequireOwner fails with common.ErrUnauthenticated when owner is empty.
// Services call it before touching owner-scoped data.
func RequireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return common.ErrUnauthenticated
	}
	return nil
}

type ctxKey struct{}

// WithUserID stores the resolved user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the user id stored by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
