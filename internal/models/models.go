package models

// TrackStatus represents the playback state of a track.
type TrackStatus int

const (
	StatusNotAssigned TrackStatus = iota
	StatusPlaying
	StatusPaused
	StatusAdvertisement
)

func (s TrackStatus) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusAdvertisement:
		return "advertisement"
	default:
		return "not_assigned"
	}
}

// Artist represents a music artist.
type Artist struct {
	ID     string   `json:"id"`
	URI    string   `json:"uri"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

// Album represents an album a track belongs to.
type Album struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// AudioFeatures represents the audio analysis payload for a track.
type AudioFeatures struct {
	ID               string  `json:"id"`
	URI              string  `json:"uri"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Loudness         float64 `json:"loudness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Speechiness      float64 `json:"speechiness"`
}

// Track is the normalized projection of a remote track object.
type Track struct {
	ID         string         `json:"id"`
	URI        string         `json:"uri"`
	Name       string         `json:"name"`
	Artists    []Artist       `json:"artists,omitempty"`
	Album      Album          `json:"album"`
	DurationMS int            `json:"duration_ms"`
	ProgressMS int            `json:"progress_ms"`
	Popularity int            `json:"popularity"`
	Explicit   bool           `json:"explicit"`
	Genre      string         `json:"genre,omitempty"`
	State      TrackStatus    `json:"state"`
	Features   *AudioFeatures `json:"features,omitempty"`
}

// Artist returns the primary artist name, or "" when none is set.
func (t Track) Artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// PlayerDevice is an addressable playback endpoint.
//
// Device records are ephemeral: the set is valid only as of the moment it was
// fetched, and may be empty while a player is still registering.
type PlayerDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

// PlayerContext is the remote service's current playback snapshot.
type PlayerContext struct {
	Device       PlayerDevice `json:"device"`
	Track        Track        `json:"item"`
	IsPlaying    bool         `json:"is_playing"`
	ProgressMS   int          `json:"progress_ms"`
	ShuffleState bool         `json:"shuffle_state"`
	RepeatState  string       `json:"repeat_state"`
	Timestamp    int64        `json:"timestamp"`
}

// PlaybackOptions is the closed set of fields a play command recognizes.
type PlaybackOptions struct {
	DeviceID       string // Target device; discovered when empty
	TrackID        string // Track to play, id or spotify:track: URI
	PlaylistID     string // Optional playlist context
	AlbumID        string // Optional album context (web launch target)
	OffsetPosition int    // Position within the playlist context
	UserID         string // Owner of the playlist context
}

// RecommendationSeeds holds seed parameters for a recommendation query.
//
// The remote service accepts at most five of each seed kind; extras are
// truncated before the request is issued.
type RecommendationSeeds struct {
	Tracks           []string
	Artists          []string
	Genres           []string
	Limit            int
	Market           string
	MinPopularity    int
	TargetPopularity int
}
