package uris

import "testing"

func TestCategory(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"tidal:my_albums", "directory"},
		{"tidal:moods", "directory"},
		{"tidal:album:id", "album"},
		{"tidal:artist:id", "artist"},
		{"tidal:playlist:id", "playlist"},
		{"tidal:mood:id", "mood"},
		{"tidal:genre:id", "genre"},
		{"tidal:mix:id", "mix"},
		{"tidal:track:1:2:3", "track"},
	}

	for _, tt := range tests {
		if got := Category(tt.uri); got != tt.expected {
			t.Errorf("Category(%q) = %q, want %q", tt.uri, got, tt.expected)
		}
	}
}

func TestLoginSentinel(t *testing.T) {
	if got := Login(KindTrack); got != "tidal:track:login" {
		t.Errorf("Login(track) = %q, want tidal:track:login", got)
	}

	if !IsLogin("tidal:playlist:login") {
		t.Error("IsLogin should report true for sentinel URIs")
	}

	if IsLogin("tidal:track:1234567") {
		t.Error("IsLogin should report false for catalog URIs")
	}
}

func TestID(t *testing.T) {
	id, ok := ID("tidal:track:1:2:3")
	if !ok || id != "1:2:3" {
		t.Errorf("ID(tidal:track:1:2:3) = %q, %v; want 1:2:3, true", id, ok)
	}

	if _, ok := ID("tidal:my_albums"); ok {
		t.Error("ID should report false for directory URIs")
	}
}
