// Package uris provides helpers for building and classifying tidal: URIs.
package uris

import "strings"

// Scheme is the URI scheme this backend registers with the host.
const Scheme = "tidal"

// LoginID is the reserved identifier marking placeholder entities that stand
// in for real catalog data while a login is pending. It never collides with a
// catalog identifier because TIDAL IDs are numeric or UUIDs.
const LoginID = "login"

// Entity kinds used in typed URIs (tidal:<kind>:<id>).
const (
	KindTrack    = "track"
	KindAlbum    = "album"
	KindArtist   = "artist"
	KindPlaylist = "playlist"
	KindMood     = "mood"
	KindGenre    = "genre"
	KindMix      = "mix"
)

// Root is the top-level browse URI the host starts from.
const Root = Scheme + ":directory"

// RootDirectory is one top-level browse entry.
type RootDirectory struct {
	URI  string
	Name string
}

// RootDirectories are the top-level browse entries exposed to the host, in
// display order.
var RootDirectories = []RootDirectory{
	{Scheme + ":my_albums", "My Albums"},
	{Scheme + ":my_artists", "My Artists"},
	{Scheme + ":my_playlists", "My Playlists"},
	{Scheme + ":my_tracks", "My Tracks"},
	{Scheme + ":moods", "Moods"},
	{Scheme + ":mixes", "Mixes"},
	{Scheme + ":genres", "Genres"},
}

// Build returns a typed URI of the form tidal:<kind>:<id>.
func Build(kind, id string) string {
	return Scheme + ":" + kind + ":" + id
}

// Login returns the sentinel URI for the given entity kind, e.g.
// tidal:track:login.
func Login(kind string) string {
	return Build(kind, LoginID)
}

// IsLogin reports whether the URI carries the login sentinel identifier.
func IsLogin(uri string) bool {
	return strings.HasSuffix(uri, ":"+LoginID)
}

// Category returns the browse category of a URI: two-segment URIs
// (tidal:my_albums) are directories, typed URIs (tidal:album:id) report
// their kind.
func Category(uri string) string {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 {
		return "directory"
	}
	return parts[1]
}

// ID returns the identifier segment of a typed URI. The second return is
// false for directory URIs, which have no identifier.
func ID(uri string) (string, bool) {
	parts := strings.SplitN(uri, ":", 3)
	if len(parts) < 3 {
		return "", false
	}
	return parts[2], true
}
