package player

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/cache"
	"github.com/desertthunder/pbx/internal/client"
	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/shared"
)

// LikedSongsPlaylistName is the reserved name of the virtual liked-songs
// playlist. The remote service has no playlist endpoint for it, so play
// commands targeting it omit context scoping.
const LikedSongsPlaylistName = "Liked Songs"

const (
	cacheKeyDevices = "devices"
	cacheKeyContext = "player-context"
	artistKeyPrefix = "artist_"
	trackKeyPrefix  = "track_"

	deviceTTL  = 15 * time.Second
	contextTTL = 15 * time.Second
	artistTTL  = time.Hour
	trackTTL   = time.Hour

	// The artists endpoint caps batch requests at 50 ids.
	artistBatchSize = 50

	// Recommendation seeds cap at 5 per kind.
	maxSeeds = 5
)

// RemoteAPI is the slice of the remote client the orchestrator consumes.
type RemoteAPI interface {
	Get(ctx context.Context, path string, query url.Values) *client.Response
	Put(ctx context.Context, path string, body any, query url.Values) *client.Response
}

// Service composes cache, client, and refresh protocol into domain
// operations. One Service exists per session.
type Service struct {
	api     RemoteAPI
	cache   *cache.Store
	creds   *auth.Store
	refresh auth.Refresher
	desktop DesktopPlayer
	openURL func(string) error
	logger  *log.Logger
}

// Opts contains the dependencies for constructing a [Service].
type Opts struct {
	API       RemoteAPI
	Cache     *cache.Store
	Creds     *auth.Store
	Refresher auth.Refresher
	Desktop   DesktopPlayer
	OpenURL   func(string) error
	Logger    *log.Logger
}

// NewService creates a Service from opts. Cache, browser launcher, and
// logger default when nil.
func NewService(opts Opts) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.New()
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Service{
		api:     opts.API,
		cache:   opts.Cache,
		creds:   opts.Creds,
		refresh: opts.Refresher,
		desktop: opts.Desktop,
		openURL: opts.OpenURL,
		logger:  opts.Logger,
	}
}

// withRefresh runs call, performing at most one refresh-and-retry cycle when
// the remote service reports an expired token. A second expired response or a
// failed refresh is terminal.
func (s *Service) withRefresh(ctx context.Context, call func() *client.Response) *client.Response {
	resp := call()
	if resp.Tag != client.TagExpired {
		return resp
	}

	if err := s.refresh.Refresh(ctx); err != nil {
		s.logger.Warn("token refresh failed", "error", err)
		return &client.Response{Tag: client.TagError, Err: err}
	}

	resp = call()
	if resp.Tag == client.TagExpired {
		return &client.Response{StatusCode: resp.StatusCode, Tag: client.TagError, Err: shared.ErrTokenExpired}
	}
	return resp
}

func respErr(resp *client.Response) error {
	if resp.Err != nil {
		return resp.Err
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
}

// Devices returns the available playback devices, or an empty slice when
// none are registered or the call fails. bypassCache forces a fresh fetch;
// device state is the one read whose staleness routinely matters.
func (s *Service) Devices(ctx context.Context, bypassCache bool) []models.PlayerDevice {
	return s.devices(ctx, bypassCache).Or(nil)
}

func (s *Service) devices(ctx context.Context, bypassCache bool) models.Lookup[[]models.PlayerDevice] {
	if !s.creds.Authorized() {
		return models.None[[]models.PlayerDevice]()
	}

	if bypassCache {
		s.cache.Invalidate(cacheKeyDevices)
	} else if cached, ok := cache.Value[[]models.PlayerDevice](s.cache, cacheKeyDevices); ok {
		return models.Some(cached)
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/me/player/devices", nil)
	})
	if resp.Tag != client.TagOK {
		return models.Fail[[]models.PlayerDevice](respErr(resp))
	}

	var payload devicesPayload
	if err := resp.Decode(&payload); err != nil {
		return models.Fail[[]models.PlayerDevice](err)
	}

	devices := make([]models.PlayerDevice, 0, len(payload.Devices))
	for _, d := range payload.Devices {
		devices = append(devices, normalizeDevice(d))
	}

	if len(devices) == 0 {
		return models.None[[]models.PlayerDevice]()
	}

	s.cache.Set(cacheKeyDevices, devices, deviceTTL)
	return models.Some(devices)
}

// CurrentTrack returns the currently playing track. When nothing is playing
// the returned track has [models.StatusNotAssigned] state.
func (s *Service) CurrentTrack(ctx context.Context) models.Track {
	return s.currentTrack(ctx).Or(models.Track{})
}

func (s *Service) currentTrack(ctx context.Context) models.Lookup[models.Track] {
	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/me/player/currently-playing", nil)
	})
	if resp.Tag != client.TagOK {
		return models.Fail[models.Track](respErr(resp))
	}

	var payload currentlyPlayingPayload
	if err := resp.Decode(&payload); err != nil || payload.Item == nil {
		// 204-style empty body: nothing is playing, a normal state.
		return models.None[models.Track]()
	}

	track := normalizeTrack(*payload.Item)
	track.ProgressMS = payload.ProgressMS
	track.State = trackState(track.URI, payload.IsPlaying)
	return models.Some(track)
}

// Context returns the current playback snapshot, cached for 15 seconds since
// it changes continuously but is rate-limited to poll.
func (s *Service) Context(ctx context.Context, bypassCache bool) models.PlayerContext {
	return s.playerContext(ctx, bypassCache).Or(models.PlayerContext{})
}

func (s *Service) playerContext(ctx context.Context, bypassCache bool) models.Lookup[models.PlayerContext] {
	if bypassCache {
		s.cache.Invalidate(cacheKeyContext)
	} else if cached, ok := cache.Value[models.PlayerContext](s.cache, cacheKeyContext); ok {
		return models.Some(cached)
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/me/player", nil)
	})
	if resp.Tag != client.TagOK {
		return models.Fail[models.PlayerContext](respErr(resp))
	}

	var payload playerContextPayload
	if err := resp.Decode(&payload); err != nil || payload.Item == nil {
		return models.None[models.PlayerContext]()
	}

	track := normalizeTrack(*payload.Item)
	track.ProgressMS = payload.ProgressMS
	track.State = trackState(track.URI, payload.IsPlaying)

	pc := models.PlayerContext{
		Device:       normalizeDevice(payload.Device),
		Track:        track,
		IsPlaying:    payload.IsPlaying,
		ProgressMS:   payload.ProgressMS,
		ShuffleState: payload.ShuffleState,
		RepeatState:  payload.RepeatState,
		Timestamp:    payload.Timestamp,
	}

	// Snapshots without a device are transient; don't pin them.
	if pc.Device.ID != "" {
		s.cache.Set(cacheKeyContext, pc, contextTTL)
	}
	return models.Some(pc)
}

// TrackByID fetches a single track, enriching artists when includeArtists is
// set. Results are cached for an hour.
func (s *Service) TrackByID(ctx context.Context, id string, includeArtists bool) models.Track {
	id = IDFromURI(id)
	key := trackKeyPrefix + id

	if cached, ok := cache.Value[models.Track](s.cache, key); ok {
		return cached
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/tracks/"+id, nil)
	})
	if resp.Tag != client.TagOK {
		return models.Track{}
	}

	var payload wireTrack
	if err := resp.Decode(&payload); err != nil {
		return models.Track{}
	}

	track := normalizeTrack(payload)
	if includeArtists {
		enriched := []models.Track{track}
		s.enrichArtists(ctx, enriched)
		track = enriched[0]
	}

	s.cache.Set(key, track, trackTTL)
	return track
}

// TracksByIDs fetches multiple tracks in one call, optionally enriching
// their artists in batched artist lookups.
func (s *Service) TracksByIDs(ctx context.Context, ids []string, includeArtists bool) []models.Track {
	if len(ids) == 0 {
		return nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(IDsFromURIs(ids), ","))

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/tracks", query)
	})
	if resp.Tag != client.TagOK {
		return nil
	}

	var payload tracksPayload
	if err := resp.Decode(&payload); err != nil {
		return nil
	}

	tracks := make([]models.Track, 0, len(payload.Tracks))
	for _, t := range payload.Tracks {
		tracks = append(tracks, normalizeTrack(t))
	}

	if includeArtists {
		s.enrichArtists(ctx, tracks)
	}
	return tracks
}

// enrichArtists replaces the thin artist stubs on tracks with fully
// populated artist records and derives a genre from the primary artist.
func (s *Service) enrichArtists(ctx context.Context, tracks []models.Track) {
	idSet := make(map[string]struct{})
	var ids []string
	for _, t := range tracks {
		for _, a := range t.Artists {
			if _, seen := idSet[a.ID]; !seen && a.ID != "" {
				idSet[a.ID] = struct{}{}
				ids = append(ids, a.ID)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	artists := s.ArtistsByIDs(ctx, ids)
	byID := make(map[string]models.Artist, len(artists))
	for _, a := range artists {
		byID[a.ID] = a
	}

	for i := range tracks {
		for j, stub := range tracks[i].Artists {
			if full, ok := byID[stub.ID]; ok {
				tracks[i].Artists[j] = full
			}
		}
		if tracks[i].Genre == "" && len(tracks[i].Artists) > 0 {
			tracks[i].Genre = highestFrequencyGenre(tracks[i].Artists[0].Genres)
		}
	}
}

// ArtistByID fetches a single artist, cached for an hour.
func (s *Service) ArtistByID(ctx context.Context, id string) models.Artist {
	id = IDFromURI(id)
	key := artistKeyPrefix + id

	if cached, ok := cache.Value[models.Artist](s.cache, key); ok {
		return cached
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/artists/"+id, nil)
	})
	if resp.Tag != client.TagOK {
		return models.Artist{}
	}

	var payload wireArtist
	if err := resp.Decode(&payload); err != nil {
		return models.Artist{}
	}

	artist := normalizeArtist(payload)
	s.cache.Set(key, artist, artistTTL)
	return artist
}

// ArtistsByIDs fetches artists in batches of at most 50 ids per call,
// merging the results without duplicates.
func (s *Service) ArtistsByIDs(ctx context.Context, ids []string) []models.Artist {
	ids = IDsFromURIs(ids)

	var merged []models.Artist
	seen := make(map[string]struct{}, len(ids))

	for start := 0; start < len(ids); start += artistBatchSize {
		end := min(start+artistBatchSize, len(ids))

		query := url.Values{}
		query.Set("ids", strings.Join(ids[start:end], ","))

		resp := s.withRefresh(ctx, func() *client.Response {
			return s.api.Get(ctx, "/v1/artists", query)
		})
		if resp.Tag != client.TagOK {
			continue
		}

		var payload artistsPayload
		if err := resp.Decode(&payload); err != nil {
			continue
		}

		for _, a := range payload.Artists {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			merged = append(merged, normalizeArtist(a))
		}
	}

	return merged
}

// RecentlyPlayed returns up to limit tracks from playback history.
func (s *Service) RecentlyPlayed(ctx context.Context, limit int) []models.Track {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/me/player/recently-played", query)
	})
	if resp.Tag != client.TagOK {
		return nil
	}

	var payload recentlyPlayedPayload
	if err := resp.Decode(&payload); err != nil {
		return nil
	}

	tracks := make([]models.Track, 0, len(payload.Items))
	for _, item := range payload.Items {
		tracks = append(tracks, normalizeTrack(item.Track))
	}
	return tracks
}

// Recommendations returns seeded recommendations. Seed lists are truncated
// to the service's limit of five per kind.
func (s *Service) Recommendations(ctx context.Context, seeds models.RecommendationSeeds) []models.Track {
	query := url.Values{}

	if seeds.Limit > 0 {
		query.Set("limit", strconv.Itoa(seeds.Limit))
	}
	if seeds.Market != "" {
		query.Set("market", seeds.Market)
	}

	minPop, targetPop := seeds.MinPopularity, seeds.TargetPopularity
	if minPop <= 0 {
		minPop = 20
	}
	if targetPop <= 0 {
		targetPop = 90
	}
	query.Set("min_popularity", strconv.Itoa(minPop))
	query.Set("target_popularity", strconv.Itoa(targetPop))

	if tracks := capSeeds(IDsFromURIs(seeds.Tracks)); len(tracks) > 0 {
		query.Set("seed_tracks", strings.Join(tracks, ","))
	}
	if artists := capSeeds(IDsFromURIs(seeds.Artists)); len(artists) > 0 {
		query.Set("seed_artists", strings.Join(artists, ","))
	}
	if genres := capSeeds(seeds.Genres); len(genres) > 0 {
		query.Set("seed_genres", strings.Join(genres, ","))
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/recommendations", query)
	})
	if resp.Tag != client.TagOK {
		return nil
	}

	var payload tracksPayload
	if err := resp.Decode(&payload); err != nil {
		return nil
	}

	tracks := make([]models.Track, 0, len(payload.Tracks))
	for _, t := range payload.Tracks {
		tracks = append(tracks, normalizeTrack(t))
	}
	return tracks
}

func capSeeds(seeds []string) []string {
	if len(seeds) > maxSeeds {
		return seeds[:maxSeeds]
	}
	return seeds
}

// SetRepeat toggles repeat between "track" and "off".
func (s *Service) SetRepeat(ctx context.Context, on bool) error {
	state := "off"
	if on {
		state = "track"
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Put(ctx, "/v1/me/player/repeat", map[string]string{"state": state}, nil)
	})
	if resp.Tag != client.TagOK {
		return respErr(resp)
	}
	return nil
}

// Me returns the authenticated user's id, used to scope playlist context
// URIs and to key persisted sessions.
func (s *Service) Me(ctx context.Context) (string, error) {
	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/me", nil)
	})
	if resp.Tag != client.TagOK {
		return "", respErr(resp)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&payload); err != nil {
		return "", err
	}
	return payload.ID, nil
}

// AudioFeatures fetches the audio analysis for up to 100 tracks in one call.
// Tracks the service has no analysis for are skipped.
func (s *Service) AudioFeatures(ctx context.Context, ids []string) []models.AudioFeatures {
	if len(ids) == 0 {
		return nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(IDsFromURIs(ids), ","))

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/audio-features", query)
	})
	if resp.Tag != client.TagOK {
		return nil
	}

	var payload audioFeaturesPayload
	if err := resp.Decode(&payload); err != nil {
		return nil
	}

	features := make([]models.AudioFeatures, 0, len(payload.AudioFeatures))
	for _, f := range payload.AudioFeatures {
		// Null entries stand in for tracks without analysis.
		if f != nil {
			features = append(features, normalizeAudioFeatures(*f))
		}
	}
	return features
}

// SearchTrack resolves a track from its artist and title through the search
// endpoint. Used as the fallback identification path when only a desktop
// window title is known.
func (s *Service) SearchTrack(ctx context.Context, artist, title string) models.Track {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("artist:%s track:%s", artist, title))
	query.Set("type", "track")
	query.Set("limit", "2")
	query.Set("offset", "0")

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Get(ctx, "/v1/search", query)
	})
	if resp.Tag != client.TagOK {
		return models.Track{}
	}

	var payload searchPayload
	if err := resp.Decode(&payload); err != nil || len(payload.Tracks.Items) == 0 {
		return models.Track{}
	}

	return normalizeTrack(payload.Tracks.Items[0])
}

// Play issues a play command built from opts. The liked-songs sentinel name
// drops playlist-context scoping since the virtual playlist has no
// addressable identifier.
func (s *Service) Play(ctx context.Context, opts models.PlaybackOptions) error {
	playlistID := opts.PlaylistID
	if playlistID == LikedSongsPlaylistName {
		playlistID = ""
	}

	query := url.Values{}
	if opts.DeviceID != "" {
		query.Set("device_id", opts.DeviceID)
	}

	body := map[string]any{}
	switch {
	case playlistID != "":
		body["context_uri"] = UserURI(opts.UserID) + ":playlist:" + IDFromURI(playlistID)
		if opts.TrackID != "" {
			body["offset"] = map[string]string{"uri": TrackURI(opts.TrackID)}
		} else {
			body["offset"] = map[string]int{"position": opts.OffsetPosition}
		}
	case opts.TrackID != "":
		body["uris"] = []string{TrackURI(opts.TrackID)}
	}

	resp := s.withRefresh(ctx, func() *client.Response {
		return s.api.Put(ctx, "/v1/me/player/play", body, query)
	})
	if resp.Tag != client.TagOK {
		return respErr(resp)
	}
	return nil
}

// LaunchWebPlayer opens the web player on the most specific resource opts
// names: album, track, playlist, or the browse page.
func (s *Service) LaunchWebPlayer(opts models.PlaybackOptions) error {
	return s.openURL(WebPlayerURL(opts))
}

// WebPlayerURL builds the web player URL for opts.
func WebPlayerURL(opts models.PlaybackOptions) string {
	const base = "https://open.spotify.com"
	switch {
	case opts.AlbumID != "":
		return base + "/album/" + IDFromURI(opts.AlbumID)
	case opts.TrackID != "":
		return base + "/track/" + IDFromURI(opts.TrackID)
	case opts.PlaylistID != "" && opts.PlaylistID != LikedSongsPlaylistName:
		return base + "/playlist/" + IDFromURI(opts.PlaylistID)
	default:
		return base + "/browse"
	}
}
