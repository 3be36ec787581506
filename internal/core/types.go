// Package core holds the domain model, configuration and the contracts
// between the backend, the session client and the provider facades.
package core

import "time"

// Ref is a lightweight browse reference the host renders in its directory
// listings.
type Ref struct {
	Type string
	URI  string
	Name string
}

type Artist struct {
	URI  string
	Name string
}

type Album struct {
	URI     string
	Name    string
	Artists []Artist
}

type Track struct {
	URI     string
	Name    string
	Artists []Artist
	Album   *Album
	Length  time.Duration
	TrackNo int
}

type Playlist struct {
	URI          string
	Name         string
	Tracks       []Track
	LastModified time.Time
}

type Image struct {
	URI    string
	Width  int
	Height int
}

// SearchResult bundles matches per entity kind, mirroring the host's search
// reply shape.
type SearchResult struct {
	Albums  []Album
	Artists []Artist
	Tracks  []Track
}

// PlaylistRef converts a playlist into its browse reference.
func PlaylistRef(p Playlist) Ref {
	return Ref{Type: "playlist", URI: p.URI, Name: p.Name}
}
