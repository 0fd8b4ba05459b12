package auth

import (
	"context"
	"fmt"

	"github.com/desertthunder/pbx/internal/shared"
	"golang.org/x/oauth2"
)

// Refresher exchanges a refresh token for a new access token.
//
// The orchestrator invokes it at most once per logical call when the remote
// service reports an expired token.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// TokenRefresher implements [Refresher] against an OAuth2 token endpoint.
type TokenRefresher struct {
	config *oauth2.Config
	store  *Store
}

// NewTokenRefresher creates a TokenRefresher bound to the given store.
func NewTokenRefresher(config *oauth2.Config, store *Store) *TokenRefresher {
	return &TokenRefresher{config: config, store: store}
}

// Refresh exchanges the stored refresh token for a new access token and
// writes it back to the store. A rotated refresh token is kept as well.
func (r *TokenRefresher) Refresh(ctx context.Context) error {
	cred := r.store.Get()
	if cred.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	source := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	cred.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	r.store.Set(cred)

	return nil
}
