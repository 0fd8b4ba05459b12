package models

import "time"

// Session is a persisted login used by the CLI layer to survive restarts.
//
// The playback core itself never serializes credentials; storing them is the
// surrounding application's concern.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
