package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/cache"
	"github.com/desertthunder/pbx/internal/client"
	"github.com/desertthunder/pbx/internal/models"
)

type recordedCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// fakeAPI scripts responses per path and records every call.
type fakeAPI struct {
	calls   []recordedCall
	handler func(call recordedCall) *client.Response
}

func (f *fakeAPI) Get(ctx context.Context, path string, query url.Values) *client.Response {
	call := recordedCall{Method: http.MethodGet, Path: path, Query: query}
	f.calls = append(f.calls, call)
	return f.handler(call)
}

func (f *fakeAPI) Put(ctx context.Context, path string, body any, query url.Values) *client.Response {
	call := recordedCall{Method: http.MethodPut, Path: path, Query: query, Body: body}
	f.calls = append(f.calls, call)
	return f.handler(call)
}

func (f *fakeAPI) count(path string) int {
	n := 0
	for _, c := range f.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

type fakeRefresher struct {
	calls int
	err   error
	store *auth.Store
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.store != nil {
		f.store.SetAccessToken("refreshed")
	}
	return nil
}

func ok(body string) *client.Response {
	return &client.Response{StatusCode: 200, Tag: client.TagOK, Body: json.RawMessage(body)}
}

func expired() *client.Response {
	return &client.Response{StatusCode: 401, Tag: client.TagExpired}
}

func newTestService(api *fakeAPI, refresher auth.Refresher) (*Service, *auth.Store, *cache.Store) {
	store := auth.NewStore(auth.Credential{AccessToken: "at", RefreshToken: "rt", UserID: "user_1"})
	c := cache.New()
	svc := NewService(Opts{API: api, Cache: c, Creds: store, Refresher: refresher})
	return svc, store, c
}

func TestDevices(t *testing.T) {
	devicesBody := `{"devices":[{"id":"dev_1","name":"Desk","type":"Computer","is_active":true,"volume_percent":80}]}`

	t.Run("CacheHitSkipsClient", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(devicesBody) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		first := svc.Devices(context.Background(), false)
		second := svc.Devices(context.Background(), false)

		if len(first) != 1 || len(second) != 1 {
			t.Fatalf("expected one device, got %d then %d", len(first), len(second))
		}
		if got := api.count("/v1/me/player/devices"); got != 1 {
			t.Errorf("expected exactly one remote call, got %d", got)
		}
	})

	t.Run("BypassInvalidatesAndRefetches", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(devicesBody) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		svc.Devices(context.Background(), false)
		svc.Devices(context.Background(), true)

		if got := api.count("/v1/me/player/devices"); got != 2 {
			t.Errorf("expected two remote calls with bypass, got %d", got)
		}
	})

	t.Run("EmptyListIsNotCached", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(`{"devices":[]}`) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		if got := svc.Devices(context.Background(), false); len(got) != 0 {
			t.Fatalf("expected empty device list, got %v", got)
		}
		svc.Devices(context.Background(), false)

		if got := api.count("/v1/me/player/devices"); got != 2 {
			t.Errorf("empty result should not be cached, got %d calls", got)
		}
	})

	t.Run("UnauthorizedReturnsEmpty", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(devicesBody) }}
		svc := NewService(Opts{API: api, Creds: auth.NewStore(auth.Credential{}), Refresher: &fakeRefresher{}})

		if got := svc.Devices(context.Background(), false); len(got) != 0 {
			t.Errorf("expected no devices without a token, got %v", got)
		}
		if len(api.calls) != 0 {
			t.Error("no remote call should happen without a token")
		}
	})
}

func TestRefreshProtocol(t *testing.T) {
	devicesBody := `{"devices":[{"id":"dev_1","name":"Desk","type":"Computer"}]}`

	t.Run("ExpiredTriggersOneRefreshAndRetry", func(t *testing.T) {
		calls := 0
		api := &fakeAPI{handler: func(recordedCall) *client.Response {
			calls++
			if calls == 1 {
				return expired()
			}
			return ok(devicesBody)
		}}
		refresher := &fakeRefresher{}
		svc, _, _ := newTestService(api, refresher)

		devices := svc.Devices(context.Background(), false)
		if len(devices) != 1 {
			t.Fatalf("expected retry to succeed, got %v", devices)
		}
		if refresher.calls != 1 {
			t.Errorf("expected exactly one refresh, got %d", refresher.calls)
		}
		if got := api.count("/v1/me/player/devices"); got != 2 {
			t.Errorf("expected original call plus one retry, got %d", got)
		}
	})

	t.Run("SecondExpiredIsTerminal", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return expired() }}
		refresher := &fakeRefresher{}
		svc, _, _ := newTestService(api, refresher)

		devices := svc.Devices(context.Background(), false)
		if len(devices) != 0 {
			t.Errorf("expected empty result, got %v", devices)
		}
		if refresher.calls != 1 {
			t.Errorf("expected exactly one refresh, got %d", refresher.calls)
		}
		if got := api.count("/v1/me/player/devices"); got != 2 {
			t.Errorf("expected exactly two calls, no loop, got %d", got)
		}
	})

	t.Run("FailedRefreshSkipsRetry", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return expired() }}
		refresher := &fakeRefresher{err: errors.New("revoked")}
		svc, _, _ := newTestService(api, refresher)

		svc.Devices(context.Background(), false)
		if got := api.count("/v1/me/player/devices"); got != 1 {
			t.Errorf("no retry should follow a failed refresh, got %d calls", got)
		}
	})
}

func TestCurrentTrack(t *testing.T) {
	t.Run("Playing", func(t *testing.T) {
		body := `{"is_playing":true,"progress_ms":4200,"item":{"id":"t1","uri":"spotify:track:t1","name":"Like A Rolling Stone","duration_ms":370000,"artists":[{"id":"a1","name":"Bob Dylan"}],"album":{"id":"al1","name":"Highway 61 Revisited"}}}`
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(body) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		track := svc.CurrentTrack(context.Background())
		if track.State != models.StatusPlaying {
			t.Errorf("expected playing state, got %v", track.State)
		}
		if track.ProgressMS != 4200 {
			t.Errorf("expected progress 4200, got %d", track.ProgressMS)
		}
		if track.Artist() != "Bob Dylan" {
			t.Errorf("expected primary artist, got %s", track.Artist())
		}
	})

	t.Run("Paused", func(t *testing.T) {
		body := `{"is_playing":false,"item":{"id":"t1","uri":"spotify:track:t1","name":"x"}}`
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(body) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		if got := svc.CurrentTrack(context.Background()).State; got != models.StatusPaused {
			t.Errorf("expected paused, got %v", got)
		}
	})

	t.Run("Advertisement", func(t *testing.T) {
		body := `{"is_playing":true,"item":{"id":"ad","uri":"spotify:ad:xyz","name":"ad"}}`
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(body) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		if got := svc.CurrentTrack(context.Background()).State; got != models.StatusAdvertisement {
			t.Errorf("expected advertisement, got %v", got)
		}
	})

	t.Run("NothingPlaying", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok("") }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		track := svc.CurrentTrack(context.Background())
		if track.State != models.StatusNotAssigned {
			t.Errorf("nothing playing should yield the default state, got %v", track.State)
		}
	})
}

func TestPlayerContext(t *testing.T) {
	body := `{"device":{"id":"dev_1","name":"Desk"},"is_playing":true,"progress_ms":100,"item":{"id":"t1","uri":"spotify:track:t1","name":"x"}}`

	t.Run("CachedForSubsequentReads", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(body) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		svc.Context(context.Background(), false)
		pc := svc.Context(context.Background(), false)

		if pc.Device.ID != "dev_1" {
			t.Errorf("unexpected context %+v", pc)
		}
		if got := api.count("/v1/me/player"); got != 1 {
			t.Errorf("expected one remote call, got %d", got)
		}
	})

	t.Run("DevicelessSnapshotNotCached", func(t *testing.T) {
		noDevice := `{"device":{"id":""},"is_playing":false,"item":{"id":"t1","uri":"u","name":"x"}}`
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(noDevice) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		svc.Context(context.Background(), false)
		svc.Context(context.Background(), false)

		if got := api.count("/v1/me/player"); got != 2 {
			t.Errorf("deviceless snapshot should not be cached, got %d calls", got)
		}
	})
}

func TestArtists(t *testing.T) {
	t.Run("BatchesOfFifty", func(t *testing.T) {
		api := &fakeAPI{handler: func(call recordedCall) *client.Response {
			requested := strings.Split(call.Query.Get("ids"), ",")
			artists := make([]string, 0, len(requested))
			for _, id := range requested {
				artists = append(artists, fmt.Sprintf(`{"id":%q,"name":"artist %s"}`, id, id))
			}
			return ok(`{"artists":[` + strings.Join(artists, ",") + `]}`)
		}}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		ids := make([]string, 120)
		for i := range ids {
			ids[i] = fmt.Sprintf("artist_%03d", i)
		}

		merged := svc.ArtistsByIDs(context.Background(), ids)

		if got := api.count("/v1/artists"); got != 3 {
			t.Fatalf("expected 3 batched calls for 120 ids, got %d", got)
		}

		sizes := []int{}
		for _, c := range api.calls {
			sizes = append(sizes, len(strings.Split(c.Query.Get("ids"), ",")))
		}
		want := []int{50, 50, 20}
		for i, size := range sizes {
			if size != want[i] {
				t.Errorf("batch %d: expected %d ids, got %d", i, want[i], size)
			}
		}

		if len(merged) != 120 {
			t.Errorf("expected 120 unique artists, got %d", len(merged))
		}
		seen := map[string]bool{}
		for _, a := range merged {
			if seen[a.ID] {
				t.Errorf("duplicate artist %s in merged result", a.ID)
			}
			seen[a.ID] = true
		}
	})

	t.Run("ArtistByIDCached", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response {
			return ok(`{"id":"a1","name":"Bob Dylan","genres":["folk","rock","folk"]}`)
		}}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		svc.ArtistByID(context.Background(), "a1")
		artist := svc.ArtistByID(context.Background(), "spotify:artist:a1")

		if artist.Name != "Bob Dylan" {
			t.Errorf("unexpected artist %+v", artist)
		}
		if got := api.count("/v1/artists/a1"); got != 1 {
			t.Errorf("expected one remote call across id and uri forms, got %d", got)
		}
	})
}

func TestTracks(t *testing.T) {
	t.Run("EnrichesArtistsAndGenre", func(t *testing.T) {
		api := &fakeAPI{handler: func(call recordedCall) *client.Response {
			if call.Path == "/v1/tracks" {
				return ok(`{"tracks":[{"id":"t1","uri":"spotify:track:t1","name":"x","artists":[{"id":"a1","name":"Bob Dylan"}]}]}`)
			}
			return ok(`{"artists":[{"id":"a1","name":"Bob Dylan","genres":["rock","folk","folk"]}]}`)
		}}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		tracks := svc.TracksByIDs(context.Background(), []string{"spotify:track:t1"}, true)
		if len(tracks) != 1 {
			t.Fatalf("expected one track, got %d", len(tracks))
		}
		if tracks[0].Genre != "folk" {
			t.Errorf("expected highest-frequency genre folk, got %q", tracks[0].Genre)
		}
		if len(tracks[0].Artists) != 1 || len(tracks[0].Artists[0].Genres) == 0 {
			t.Error("expected artist stub replaced with populated record")
		}
	})

	t.Run("SingleTrackEnrichment", func(t *testing.T) {
		api := &fakeAPI{handler: func(call recordedCall) *client.Response {
			if call.Path == "/v1/tracks/t1" {
				return ok(`{"id":"t1","uri":"spotify:track:t1","name":"x","artists":[{"id":"a1","name":"Bob Dylan"}]}`)
			}
			return ok(`{"artists":[{"id":"a1","name":"Bob Dylan","genres":["rock","folk","folk"]}]}`)
		}}
		svc, _, c := newTestService(api, &fakeRefresher{})

		track := svc.TrackByID(context.Background(), "t1", true)
		if track.Genre != "folk" {
			t.Errorf("expected derived genre folk, got %q", track.Genre)
		}
		if len(track.Artists) != 1 || len(track.Artists[0].Genres) == 0 {
			t.Error("expected artist stub replaced with populated record")
		}

		cached, ok := cache.Value[models.Track](c, "track_t1")
		if !ok || cached.Genre != "folk" {
			t.Errorf("expected the enriched track cached, got %+v", cached)
		}
	})

	t.Run("RecentlyPlayedLimit", func(t *testing.T) {
		api := &fakeAPI{handler: func(call recordedCall) *client.Response {
			if call.Query.Get("limit") != "10" {
				t.Errorf("expected limit=10, got %v", call.Query)
			}
			return ok(`{"items":[{"track":{"id":"t1","uri":"u","name":"x"}}]}`)
		}}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		tracks := svc.RecentlyPlayed(context.Background(), 10)
		if len(tracks) != 1 {
			t.Errorf("expected one track, got %d", len(tracks))
		}
	})
}

func TestRecommendations(t *testing.T) {
	api := &fakeAPI{handler: func(call recordedCall) *client.Response {
		return ok(`{"tracks":[{"id":"r1","uri":"u","name":"rec"}]}`)
	}}
	svc, _, _ := newTestService(api, &fakeRefresher{})

	seeds := models.RecommendationSeeds{
		Tracks:  []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"},
		Genres:  []string{"rock"},
		Artists: []string{"spotify:artist:a1"},
		Limit:   40,
	}

	tracks := svc.Recommendations(context.Background(), seeds)
	if len(tracks) != 1 {
		t.Fatalf("expected one recommendation, got %d", len(tracks))
	}

	call := api.calls[0]
	if got := strings.Split(call.Query.Get("seed_tracks"), ","); len(got) != 5 {
		t.Errorf("expected seed tracks capped at 5, got %d", len(got))
	}
	if got := call.Query.Get("seed_artists"); got != "a1" {
		t.Errorf("expected artist uri converted to id, got %q", got)
	}
	if call.Query.Get("min_popularity") != "20" || call.Query.Get("target_popularity") != "90" {
		t.Errorf("expected default popularity bounds, got %v", call.Query)
	}
}

func TestPlay(t *testing.T) {
	t.Run("TrackOnly", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(`{}`) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		err := svc.Play(context.Background(), models.PlaybackOptions{DeviceID: "dev_1", TrackID: "t1"})
		if err != nil {
			t.Fatalf("play failed: %v", err)
		}

		call := api.calls[0]
		if call.Query.Get("device_id") != "dev_1" {
			t.Errorf("expected device scoping, got %v", call.Query)
		}
		body := call.Body.(map[string]any)
		uris := body["uris"].([]string)
		if len(uris) != 1 || uris[0] != "spotify:track:t1" {
			t.Errorf("expected track uri body, got %v", body)
		}
		if _, hasContext := body["context_uri"]; hasContext {
			t.Error("track-only play must not carry a context uri")
		}
	})

	t.Run("PlaylistContext", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(`{}`) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		err := svc.Play(context.Background(), models.PlaybackOptions{
			DeviceID:   "dev_1",
			PlaylistID: "pl_9",
			UserID:     "user_1",
			TrackID:    "t1",
		})
		if err != nil {
			t.Fatalf("play failed: %v", err)
		}

		body := api.calls[0].Body.(map[string]any)
		if body["context_uri"] != "spotify:user:user_1:playlist:pl_9" {
			t.Errorf("unexpected context uri %v", body["context_uri"])
		}
		offset := body["offset"].(map[string]string)
		if offset["uri"] != "spotify:track:t1" {
			t.Errorf("expected track offset, got %v", offset)
		}
	})

	t.Run("LikedSongsSentinelOmitsContext", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(`{}`) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		err := svc.Play(context.Background(), models.PlaybackOptions{
			DeviceID:   "dev_1",
			PlaylistID: LikedSongsPlaylistName,
			UserID:     "user_1",
			TrackID:    "t1",
		})
		if err != nil {
			t.Fatalf("play failed: %v", err)
		}

		body := api.calls[0].Body.(map[string]any)
		if _, hasContext := body["context_uri"]; hasContext {
			t.Error("liked songs must omit context-uri scoping")
		}
		if _, hasURIs := body["uris"]; !hasURIs {
			t.Error("liked songs play should fall back to the direct track uri")
		}
	})
}

func TestWebPlayerURL(t *testing.T) {
	tc := []struct {
		name string
		opts models.PlaybackOptions
		want string
	}{
		{name: "album", opts: models.PlaybackOptions{AlbumID: "spotify:album:al1"}, want: "https://open.spotify.com/album/al1"},
		{name: "track", opts: models.PlaybackOptions{TrackID: "t1"}, want: "https://open.spotify.com/track/t1"},
		{name: "playlist", opts: models.PlaybackOptions{PlaylistID: "pl1"}, want: "https://open.spotify.com/playlist/pl1"},
		{name: "liked songs falls back to browse", opts: models.PlaybackOptions{PlaylistID: LikedSongsPlaylistName}, want: "https://open.spotify.com/browse"},
		{name: "empty", opts: models.PlaybackOptions{}, want: "https://open.spotify.com/browse"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := WebPlayerURL(tt.opts); got != tt.want {
				t.Errorf("WebPlayerURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDesktopFallback(t *testing.T) {
	t.Run("SplitWindowTitle", func(t *testing.T) {
		artist, song, ok := SplitWindowTitle("Dexys Midnight Runners - Come On Eileen")
		if !ok {
			t.Fatal("expected parseable title")
		}
		if artist != "Dexys Midnight Runners" || song != "Come On Eileen" {
			t.Errorf("unexpected parts %q / %q", artist, song)
		}

		if _, _, ok := SplitWindowTitle("no separator here"); ok {
			t.Error("expected failure without separator")
		}
	})

	t.Run("TrackFromWindowTitle", func(t *testing.T) {
		api := &fakeAPI{handler: func(call recordedCall) *client.Response {
			q := call.Query.Get("q")
			if !strings.Contains(q, "artist:Bob Dylan") || !strings.Contains(q, "track:Hurricane") {
				t.Errorf("unexpected search query %q", q)
			}
			return ok(`{"tracks":{"items":[{"id":"t1","uri":"spotify:track:t1","name":"Hurricane"}]}}`)
		}}
		store := auth.NewStore(auth.Credential{AccessToken: "at"})
		svc := NewService(Opts{
			API:       api,
			Creds:     store,
			Refresher: &fakeRefresher{},
			Desktop:   &stubDesktop{title: "Bob Dylan - Hurricane"},
		})

		track := svc.TrackFromWindowTitle(context.Background())
		if track.ID != "t1" {
			t.Fatalf("expected resolved track, got %+v", track)
		}
		if track.State != models.StatusPlaying {
			t.Errorf("window-title track should read as playing, got %v", track.State)
		}
	})

	t.Run("NoTitleYieldsDefault", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(`{}`) }}
		store := auth.NewStore(auth.Credential{AccessToken: "at"})
		svc := NewService(Opts{
			API:       api,
			Creds:     store,
			Refresher: &fakeRefresher{},
			Desktop:   &stubDesktop{err: errors.New("not running")},
		})

		track := svc.TrackFromWindowTitle(context.Background())
		if track.ID != "" || track.State != models.StatusNotAssigned {
			t.Errorf("expected default track, got %+v", track)
		}
		if len(api.calls) != 0 {
			t.Error("no search should be issued without a title")
		}
	})
}

func TestAudioFeatures(t *testing.T) {
	body := `{"audio_features":[{"id":"t1","tempo":173.4,"energy":0.66,"danceability":0.43},null]}`

	t.Run("NormalizesAndSkipsNullEntries", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(body) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		features := svc.AudioFeatures(context.Background(), []string{"t1", "spotify:track:t2"})

		if len(features) != 1 {
			t.Fatalf("expected the null entry to be skipped, got %d features", len(features))
		}
		if features[0].ID != "t1" || features[0].Tempo != 173.4 {
			t.Errorf("unexpected features %+v", features[0])
		}
		if got := api.calls[0].Query.Get("ids"); got != "t1,t2" {
			t.Errorf("expected bare ids in query, got %q", got)
		}
	})

	t.Run("EmptyInputSkipsClient", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response { return ok(body) }}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		if features := svc.AudioFeatures(context.Background(), nil); features != nil {
			t.Errorf("expected nil, got %v", features)
		}
		if len(api.calls) != 0 {
			t.Errorf("expected no remote calls, got %d", len(api.calls))
		}
	})
}

func TestMe(t *testing.T) {
	t.Run("ReturnsProfileID", func(t *testing.T) {
		api := &fakeAPI{handler: func(recordedCall) *client.Response {
			return ok(`{"id":"user_42","display_name":"Someone"}`)
		}}
		svc, _, _ := newTestService(api, &fakeRefresher{})

		id, err := svc.Me(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "user_42" {
			t.Errorf("expected user_42, got %q", id)
		}
		if got := api.count("/v1/me"); got != 1 {
			t.Errorf("expected one profile call, got %d", got)
		}
	})

	t.Run("RefreshesOnExpired", func(t *testing.T) {
		first := true
		api := &fakeAPI{handler: func(recordedCall) *client.Response {
			if first {
				first = false
				return expired()
			}
			return ok(`{"id":"user_42"}`)
		}}
		refresher := &fakeRefresher{}
		svc, _, _ := newTestService(api, refresher)

		id, err := svc.Me(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "user_42" || refresher.calls != 1 {
			t.Errorf("expected refreshed retry, got id=%q refreshes=%d", id, refresher.calls)
		}
	})
}

type stubDesktop struct {
	title string
	err   error
}

func (s *stubDesktop) Running(ctx context.Context) bool { return s.err == nil }

func (s *stubDesktop) WindowTitle(ctx context.Context) (string, error) {
	return s.title, s.err
}
