// Package models defines the normalized data model shared by the playback
// orchestrator, the CLI, and the UI layers.
//
// # Domain Types
//
// [Track], [Artist], [PlayerDevice] and [PlayerContext] are projections of the
// remote service's JSON payloads. They carry only the fields the rest of the
// module consumes; normalization from wire shapes happens in the player
// package.
//
// # Track State
//
// [TrackStatus] enumerates the playback states a track can be in. The zero
// value is [StatusNotAssigned], so an unset state never reads as playing.
//
// # Lookup Results
//
// [Lookup] distinguishes a value that was found from one that is not
// currently available and from a failed call. Public orchestrator methods
// collapse NotAvailable and Failed to empty defaults; tests and internal
// logic keep the three-way distinction.
package models
