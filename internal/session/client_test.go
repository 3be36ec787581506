package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tidalbridge/internal/core"
)

func newTestClient(t *testing.T, api http.Handler) *Client {
	t.Helper()

	cfg := core.DefaultConfig().Tidal
	c := New(&cfg, nil, zap.NewNop())

	if api != nil {
		srv := httptest.NewServer(api)
		t.Cleanup(srv.Close)
		c.apiBase = srv.URL
	}
	return c
}

func TestNew_AppliesDefaultCredentials(t *testing.T) {
	cfg := core.DefaultConfig().Tidal
	cfg.ClientID = ""
	cfg.ClientSecret = ""

	c := New(&cfg, nil, zap.NewNop())

	if c.oauth.ClientID == "" || c.oauth.ClientSecret == "" {
		t.Error("empty configured credentials should fall back to defaults")
	}
	if c.oauth.ClientID == cfg.ClientID {
		t.Error("client ID should differ from the empty configured value")
	}
}

func TestNew_KeepsConfiguredCredentials(t *testing.T) {
	cfg := core.DefaultConfig().Tidal
	cfg.ClientID = "my-id"
	cfg.ClientSecret = "my-secret"

	c := New(&cfg, nil, zap.NewNop())

	if c.oauth.ClientID != "my-id" || c.oauth.ClientSecret != "my-secret" {
		t.Errorf("configured credentials not kept: %q/%q", c.oauth.ClientID, c.oauth.ClientSecret)
	}
}

func TestLoginLink_CompletesOnApproval(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/device_authorization", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":               "devcode",
			"user_code":                 "ABCDE",
			"verification_uri":          "link.tidal.com",
			"verification_uri_complete": "link.tidal.com/ABCDE",
			"expires_in":                300,
			"interval":                  1,
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"token_type":    "Bearer",
			"refresh_token": "refresh",
			"expires_in":    3600,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, nil)
	c.oauth.Endpoint = oauth2.Endpoint{
		TokenURL:      srv.URL + "/token",
		DeviceAuthURL: srv.URL + "/device_authorization",
		AuthStyle:     oauth2.AuthStyleInParams,
	}

	link, handle, err := c.LoginLink(context.Background())
	if err != nil {
		t.Fatalf("LoginLink() error: %v", err)
	}
	if link.URI != "link.tidal.com/ABCDE" {
		t.Errorf("link.URI = %q", link.URI)
	}
	if c.CheckLogin() {
		t.Error("session must not be logged in before the approval resolves")
	}

	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("login handle never completed")
	}
	if handle.Err() != nil {
		t.Fatalf("handle.Err() = %v", handle.Err())
	}
	if !c.CheckLogin() {
		t.Error("session should be logged in after the poll resolves")
	}
}

func TestGet_RequiresLogin(t *testing.T) {
	c := newTestClient(t, nil)

	if err := c.get(context.Background(), "/sessions", nil, &struct{}{}); err == nil {
		t.Error("catalog access without a token should fail")
	}
}

func TestUserPlaylists_KeepsCatalogOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"userId": 42})
	})
	mux.HandleFunc("/users/42/playlists", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"uuid": "aaa", "title": "Playlist-101"},
				{"uuid": "bbb", "title": "Playlist-222"},
			},
		})
	})

	c := newTestClient(t, mux)
	c.setToken(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"})

	lists, err := c.UserPlaylists(context.Background())
	if err != nil {
		t.Fatalf("UserPlaylists() error: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("got %d playlists, want 2", len(lists))
	}
	if lists[0].URI != "tidal:playlist:aaa" || lists[0].Name != "Playlist-101" {
		t.Errorf("lists[0] = %+v", lists[0])
	}
	if lists[1].URI != "tidal:playlist:bbb" || lists[1].Name != "Playlist-222" {
		t.Errorf("lists[1] = %+v", lists[1])
	}
}

func TestStreamURL_MissingTrackMapsToErrNoStream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tracks/123/streamUrl", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})

	c := newTestClient(t, mux)
	c.setToken(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"})

	_, err := c.StreamURL(context.Background(), "tidal:track:123")
	if !errors.Is(err, core.ErrNoStream) {
		t.Errorf("err = %v, want core.ErrNoStream", err)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Beyoncé", "beyonce"},
		{"  The   Weeknd ", "the weeknd"},
		{"MØ", "mø"},
		{"Sigur Rós Ágætis", "sigur ros agætis"},
	}

	for _, tt := range tests {
		if got := normalizeQuery(tt.in); got != tt.expected {
			t.Errorf("normalizeQuery(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestBrowse_RootListsDirectories(t *testing.T) {
	c := newTestClient(t, nil)

	// The root listing is static and must not require a catalog round trip.
	refs, err := c.Browse(context.Background(), "tidal:directory")
	if err != nil {
		t.Fatalf("Browse() error: %v", err)
	}

	expected := []struct {
		uri  string
		name string
	}{
		{"tidal:my_albums", "My Albums"},
		{"tidal:my_artists", "My Artists"},
		{"tidal:my_playlists", "My Playlists"},
		{"tidal:my_tracks", "My Tracks"},
		{"tidal:moods", "Moods"},
		{"tidal:mixes", "Mixes"},
		{"tidal:genres", "Genres"},
	}
	if len(refs) != len(expected) {
		t.Fatalf("got %d root entries, want %d: %+v", len(refs), len(expected), refs)
	}
	for i, want := range expected {
		if refs[i].Type != "directory" || refs[i].URI != want.uri || refs[i].Name != want.name {
			t.Errorf("refs[%d] = %+v, want directory %q %q", i, refs[i], want.uri, want.name)
		}
	}
}

func TestStreamURL_LoginSentinelShortCircuits(t *testing.T) {
	c := newTestClient(t, nil)

	// No token is set; the sentinel must resolve before any catalog access.
	_, err := c.StreamURL(context.Background(), "tidal:track:login")
	if !errors.Is(err, core.ErrNoStream) {
		t.Errorf("err = %v, want core.ErrNoStream", err)
	}
}

func TestLookup_SkipsLoginSentinels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tracks/1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "title": "Track-1"})
	})

	c := newTestClient(t, mux)
	c.setToken(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"})

	tracks, err := c.Lookup(context.Background(), []string{"tidal:track:login", "tidal:track:1"})
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Name != "Track-1" {
		t.Errorf("Lookup() = %+v, want only the real track", tracks)
	}
}
