package session

import (
	"strconv"
	"strings"
	"time"

	"tidalbridge/internal/core"
	"tidalbridge/pkg/uris"
)

// Wire shapes of the v1 catalog API. Only the fields this backend consumes
// are declared.

type page[T any] struct {
	Items []T `json:"items"`
}

// favoriteItem wraps favorites listings, which nest the entity under "item".
type favoriteItem[T any] struct {
	Item T `json:"item"`
}

type artistDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type albumDTO struct {
	ID      int64       `json:"id"`
	Title   string      `json:"title"`
	Cover   string      `json:"cover"`
	Artists []artistDTO `json:"artists"`
}

type trackDTO struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Duration    int         `json:"duration"`
	TrackNumber int         `json:"trackNumber"`
	Artists     []artistDTO `json:"artists"`
	Album       *albumDTO   `json:"album"`
}

type playlistDTO struct {
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"lastUpdated"`
	SquareImage string    `json:"squareImage"`
}

// categoryDTO covers moods and genres, which share a shape.
type categoryDTO struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type mixDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (a artistDTO) toArtist() core.Artist {
	return core.Artist{
		URI:  uris.Build(uris.KindArtist, strconv.FormatInt(a.ID, 10)),
		Name: a.Name,
	}
}

func (a albumDTO) toAlbum() core.Album {
	album := core.Album{
		URI:  uris.Build(uris.KindAlbum, strconv.FormatInt(a.ID, 10)),
		Name: a.Title,
	}
	for _, artist := range a.Artists {
		album.Artists = append(album.Artists, artist.toArtist())
	}
	return album
}

func (t trackDTO) toTrack() core.Track {
	track := core.Track{
		URI:     uris.Build(uris.KindTrack, strconv.FormatInt(t.ID, 10)),
		Name:    t.Title,
		Length:  time.Duration(t.Duration) * time.Second,
		TrackNo: t.TrackNumber,
	}
	for _, artist := range t.Artists {
		track.Artists = append(track.Artists, artist.toArtist())
	}
	if t.Album != nil {
		album := t.Album.toAlbum()
		track.Album = &album
	}
	return track
}

func (p playlistDTO) toPlaylist() core.Playlist {
	return core.Playlist{
		URI:          uris.Build(uris.KindPlaylist, p.UUID),
		Name:         p.Title,
		LastModified: p.LastUpdated,
	}
}

func (a artistDTO) toRef() core.Ref {
	artist := a.toArtist()
	return core.Ref{Type: uris.KindArtist, URI: artist.URI, Name: artist.Name}
}

func (a albumDTO) toRef() core.Ref {
	album := a.toAlbum()
	return core.Ref{Type: uris.KindAlbum, URI: album.URI, Name: album.Name}
}

func (t trackDTO) toRef() core.Ref {
	track := t.toTrack()
	return core.Ref{Type: uris.KindTrack, URI: track.URI, Name: track.Name}
}

func (p playlistDTO) toRef() core.Ref {
	return core.Ref{Type: uris.KindPlaylist, URI: uris.Build(uris.KindPlaylist, p.UUID), Name: p.Title}
}

func (c categoryDTO) toRef(kind string) core.Ref {
	return core.Ref{Type: kind, URI: uris.Build(kind, c.Path), Name: c.Name}
}

func (m mixDTO) toRef() core.Ref {
	return core.Ref{Type: uris.KindMix, URI: uris.Build(uris.KindMix, m.ID), Name: m.Title}
}

// imageURL builds a resources URL from a cover/picture UUID, which the API
// delivers dash-separated.
func imageURL(id string, size int) string {
	path := strings.ReplaceAll(id, "-", "/")
	return "https://resources.tidal.com/images/" + path + "/" + strconv.Itoa(size) + "x" + strconv.Itoa(size) + ".jpg"
}
