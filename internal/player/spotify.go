// Wire payload types for the player endpoints and their normalization into
// the domain model.
//
// Response shapes based on https://developer.spotify.com/documentation/web-api/reference/
package player

import (
	"strings"

	"github.com/desertthunder/pbx/internal/models"
)

const adURIPrefix = "spotify:ad:"

type wireArtist struct {
	ID     string   `json:"id"`
	URI    string   `json:"uri"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type wireAlbum struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type wireTrack struct {
	ID         string       `json:"id"`
	URI        string       `json:"uri"`
	Name       string       `json:"name"`
	Artists    []wireArtist `json:"artists"`
	Album      wireAlbum    `json:"album"`
	DurationMS int          `json:"duration_ms"`
	Popularity int          `json:"popularity"`
	Explicit   bool         `json:"explicit"`
}

type wireDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

type devicesPayload struct {
	Devices []wireDevice `json:"devices"`
}

type currentlyPlayingPayload struct {
	Item       *wireTrack `json:"item"`
	IsPlaying  bool       `json:"is_playing"`
	ProgressMS int        `json:"progress_ms"`
	Timestamp  int64      `json:"timestamp"`
}

type playerContextPayload struct {
	Device       wireDevice `json:"device"`
	Item         *wireTrack `json:"item"`
	IsPlaying    bool       `json:"is_playing"`
	ProgressMS   int        `json:"progress_ms"`
	ShuffleState bool       `json:"shuffle_state"`
	RepeatState  string     `json:"repeat_state"`
	Timestamp    int64      `json:"timestamp"`
}

type tracksPayload struct {
	Tracks []wireTrack `json:"tracks"`
}

type artistsPayload struct {
	Artists []wireArtist `json:"artists"`
}

type recentlyPlayedPayload struct {
	Items []struct {
		Track wireTrack `json:"track"`
	} `json:"items"`
}

type wireAudioFeatures struct {
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

type audioFeaturesPayload struct {
	AudioFeatures []*wireAudioFeatures `json:"audio_features"`
}

type searchPayload struct {
	Tracks struct {
		Items []wireTrack `json:"items"`
	} `json:"tracks"`
}

func normalizeArtist(a wireArtist) models.Artist {
	return models.Artist{ID: a.ID, URI: a.URI, Name: a.Name, Genres: a.Genres}
}

func normalizeTrack(t wireTrack) models.Track {
	track := models.Track{
		ID:         t.ID,
		URI:        t.URI,
		Name:       t.Name,
		Album:      models.Album{ID: t.Album.ID, URI: t.Album.URI, Name: t.Album.Name},
		DurationMS: t.DurationMS,
		Popularity: t.Popularity,
		Explicit:   t.Explicit,
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, normalizeArtist(a))
	}
	return track
}

func normalizeAudioFeatures(f wireAudioFeatures) models.AudioFeatures {
	return models.AudioFeatures{
		ID:               f.ID,
		URI:              f.URI,
		Danceability:     f.Danceability,
		Energy:           f.Energy,
		Loudness:         f.Loudness,
		Tempo:            f.Tempo,
		Valence:          f.Valence,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Liveness:         f.Liveness,
		Speechiness:      f.Speechiness,
	}
}

func normalizeDevice(d wireDevice) models.PlayerDevice {
	return models.PlayerDevice{
		ID:            d.ID,
		Name:          d.Name,
		Type:          d.Type,
		IsActive:      d.IsActive,
		IsRestricted:  d.IsRestricted,
		VolumePercent: d.VolumePercent,
	}
}

// trackState derives the playback state from the playing flag and the track
// URI. Advertisement URIs win over the playing flag.
func trackState(uri string, isPlaying bool) models.TrackStatus {
	if strings.HasPrefix(uri, adURIPrefix) {
		return models.StatusAdvertisement
	}
	if isPlaying {
		return models.StatusPlaying
	}
	return models.StatusPaused
}

// highestFrequencyGenre returns the most frequent entry of genres, breaking
// ties by first appearance.
func highestFrequencyGenre(genres []string) string {
	if len(genres) == 0 {
		return ""
	}

	counts := make(map[string]int, len(genres))
	best := genres[0]
	for _, g := range genres {
		counts[g]++
		if counts[g] > counts[best] {
			best = g
		}
	}
	return best
}
