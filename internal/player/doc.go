// Package player exposes the domain-level playback operations, composing the
// TTL cache, the remote client, and the token refresh protocol.
//
// # Read Shape
//
// Every read follows the same sequence: consult the cache (unless the caller
// bypasses it), call the remote client, refresh-and-retry exactly once on an
// expired token, normalize the payload into [models] types, and write the
// result back to the cache with the operation's TTL. Non-OK outcomes collapse
// to empty defaults at the public boundary; internal helpers return
// [models.Lookup] so tests can tell "nothing is playing" from "the call
// failed".
//
// # Refresh Protocol
//
// On a [client.TagExpired] response the service invokes its [auth.Refresher]
// once and re-issues the identical request once. A second expired response or
// a failed refresh is terminal for that operation; there is no retry loop on
// authorization failure.
//
// # Cache Policy
//
// Device list and player context are cached for 15 seconds, artist and track
// metadata for an hour. Keys follow the namespace documented in the cache
// package. A cached value is never revalidated; staleness is bounded purely
// by TTL.
//
// # Desktop Fallback
//
// When no cloud session exists, [Service.TrackFromWindowTitle] identifies the
// playing track through the desktop player's window title and resolves it via
// the search endpoint.
package player
