package loginwall

import (
	"reflect"
	"testing"
)

const testLink = "link.tidal/URI"

func TestMessage(t *testing.T) {
	expected := "Please visit https://link.tidal/URI to log in."
	if got := Message(testLink); got != expected {
		t.Errorf("Message() = %q, want %q", got, expected)
	}

	// Links that already carry a scheme are not rewritten.
	if got := Message("https://link.tidal/URI"); got != expected {
		t.Errorf("Message() with scheme = %q, want %q", got, expected)
	}
}

func TestBrowseRefs(t *testing.T) {
	tests := []struct {
		refType string
		uri     string
	}{
		{"directory", "tidal:my_albums"},
		{"directory", "tidal:my_artists"},
		{"directory", "tidal:my_playlists"},
		{"directory", "tidal:my_tracks"},
		{"directory", "tidal:moods"},
		{"directory", "tidal:mixes"},
		{"directory", "tidal:genres"},
		{"album", "tidal:album:id"},
		{"artist", "tidal:artist:id"},
		{"playlist", "tidal:playlist:id"},
		{"mood", "tidal:mood:id"},
		{"genre", "tidal:genre:id"},
		{"mix", "tidal:mix:id"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			refs := BrowseRefs(tt.uri, testLink)
			if len(refs) != 1 {
				t.Fatalf("expected exactly one ref, got %d", len(refs))
			}
			ref := refs[0]
			if ref.Type != tt.refType {
				t.Errorf("ref.Type = %q, want %q", ref.Type, tt.refType)
			}
			if ref.URI != tt.uri {
				t.Errorf("ref.URI = %q, want %q", ref.URI, tt.uri)
			}
			if ref.Name != Message(testLink) {
				t.Errorf("ref.Name = %q, want login instructions", ref.Name)
			}
		})
	}
}

func TestTrackSentinel(t *testing.T) {
	track := Track(testLink)

	if track.URI != "tidal:track:login" {
		t.Errorf("track.URI = %q, want tidal:track:login", track.URI)
	}
	if track.Name != "Please visit https://link.tidal/URI to log in." {
		t.Errorf("track.Name = %q", track.Name)
	}
}

func TestPlaylistContainsOnePlaceholderTrack(t *testing.T) {
	pl := Playlist(testLink)

	if pl.URI != "tidal:playlist:login" {
		t.Errorf("playlist.URI = %q, want tidal:playlist:login", pl.URI)
	}
	if len(pl.Tracks) != 1 {
		t.Fatalf("expected one placeholder track, got %d", len(pl.Tracks))
	}
	if !reflect.DeepEqual(pl.Tracks[0], Track(testLink)) {
		t.Error("playlist track should equal the placeholder track")
	}
}

func TestSearchBundlesOneMatchPerKind(t *testing.T) {
	result := Search(testLink)

	if len(result.Albums) != 1 || result.Albums[0].URI != "tidal:album:login" {
		t.Errorf("unexpected albums: %+v", result.Albums)
	}
	if len(result.Artists) != 1 || result.Artists[0].URI != "tidal:artist:login" {
		t.Errorf("unexpected artists: %+v", result.Artists)
	}
	if len(result.Tracks) != 1 || result.Tracks[0].URI != "tidal:track:login" {
		t.Errorf("unexpected tracks: %+v", result.Tracks)
	}
}

func TestImagesEncodeQRCode(t *testing.T) {
	images := Images([]string{"tidal:playlist:uri"}, testLink)

	imgs, ok := images["tidal:playlist:uri"]
	if !ok || len(imgs) != 1 {
		t.Fatalf("expected one image for the requested uri, got %+v", images)
	}

	img := imgs[0]
	expected := "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=https%3A%2F%2Flink.tidal%2FURI"
	if img.URI != expected {
		t.Errorf("image URI = %q, want %q", img.URI, expected)
	}
	if img.Width != 150 || img.Height != 150 {
		t.Errorf("image dimensions = %dx%d, want 150x150", img.Width, img.Height)
	}
}

func TestDistinct(t *testing.T) {
	values := Distinct(testLink)
	if len(values) != 1 || values[0] != Message(testLink) {
		t.Errorf("Distinct() = %v", values)
	}
}

func TestBuildersAreIdempotent(t *testing.T) {
	if !reflect.DeepEqual(Search(testLink), Search(testLink)) {
		t.Error("repeated Search placeholders should be identical")
	}
	if !reflect.DeepEqual(Playlist(testLink), Playlist(testLink)) {
		t.Error("repeated Playlist placeholders should be identical")
	}
	if !reflect.DeepEqual(BrowseRefs("tidal:album:id", testLink), BrowseRefs("tidal:album:id", testLink)) {
		t.Error("repeated BrowseRefs placeholders should be identical")
	}
}
