// Package server hosts the short-lived HTTP surface behind the auth command.
//
// A [Router] built on [http.ServeMux] serves exactly one handler of interest:
// the [OAuthHandler], which receives the Spotify authorization-code callback,
// validates the CSRF state parameter, exchanges the code for a token pair,
// and delivers the outcome on a channel so the CLI can resume. The handler
// accepts a single callback; replays get a 400.
//
// Middleware follows the standard func(http.Handler) http.Handler shape and
// wraps in reverse registration order.
package server
