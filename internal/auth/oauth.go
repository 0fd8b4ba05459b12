package auth

import (
	"golang.org/x/oauth2"

	"github.com/desertthunder/pbx/internal/shared"
)

const (
	authorizeURL = "https://accounts.spotify.com/authorize"
	tokenURL     = "https://accounts.spotify.com/api/token"
)

// Scopes are the Spotify permissions the playback layer needs: reading and
// controlling the active player plus library reads for liked songs.
var Scopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-recently-played",
	"user-library-read",
}

// OAuthConfig builds the [oauth2.Config] for the Spotify authorization code
// flow from application credentials.
func OAuthConfig(creds shared.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authorizeURL,
			TokenURL: tokenURL,
		},
	}
}
