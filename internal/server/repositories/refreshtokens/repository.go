// Package refreshtokens stores the rotating refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

// Repository is the refresh token store.
type Repository interface {
	// Create stores t. Token values are unique.
	Create(ctx context.Context, t *models.RefreshToken) error

	// Consume deletes the token and returns the row it removed, so a token can
	// be exchanged at most once. Unknown tokens yield common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired drops the tokens of userID that expired before now.
	DeleteExpired(ctx context.Context, userID string, now time.Time) error
}
