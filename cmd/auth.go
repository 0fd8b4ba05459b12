package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/server"
	"github.com/desertthunder/pbx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens a browser for user authorization,
// exchanges the code for tokens, and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		return fmt.Errorf("%w: player not initialized", shared.ErrServiceUnavailable)
	}

	config := r.config
	if config == nil {
		configPath := cmd.String("config")
		if _, statErr := os.Stat(configPath); statErr == nil {
			loaded, err := shared.LoadConfig(configPath)
			if err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				loaded = shared.DefaultConfig()
			}
			config = loaded
		} else {
			config = shared.DefaultConfig()
		}
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(ctx, config)
	if err != nil {
		return err
	}

	r.creds.Set(auth.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	})

	userID, err := r.player.Me(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch user profile: %v", shared.ErrAuthFailed, err)
	}

	cred := r.creds.Get()
	cred.UserID = userID
	r.creds.Set(cred)

	if r.sessions != nil {
		if err := r.sessions.SaveCredential(cred); err != nil {
			r.logger.Warn("failed to persist session", "error", err)
		}
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Logged in as %s\n", userID)

	return nil
}

// AuthStatus reports the current authentication state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.creds.Authorized() {
		r.writePlain("✗ Not authenticated. Run: pbx auth login\n")
		return nil
	}

	cred := r.creds.Get()
	r.writePlain("✓ Authenticated\n")
	if cred.UserID != "" {
		r.writePlain("User: %s\n", cred.UserID)
	}
	if cred.RefreshToken != "" {
		r.writePlain("Refresh token: present\n")
	} else {
		r.writePlain("Refresh token: missing (expired tokens cannot be renewed)\n")
	}

	return nil
}

// AuthLogout deletes the persisted session and clears the credential store.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.sessions != nil {
		session, err := r.sessions.Latest()
		if err == nil {
			if err := r.sessions.Delete(session.UserID); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
				return fmt.Errorf("failed to delete session: %w", err)
			}
		} else if !errors.Is(err, shared.ErrSessionNotFound) {
			return fmt.Errorf("failed to load session: %w", err)
		}
	}

	r.creds.Set(auth.Credential{})
	return r.writePlain("✓ Logged out\n")
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, config *shared.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	oauthConfig := auth.OAuthConfig(config.Credentials.Spotify)
	authURL := oauthConfig.AuthCodeURL(state)

	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
