// Package loginwall substitutes placeholder catalog entities while a
// device-link login is pending, so the host keeps rendering something
// meaningful instead of an error.
package loginwall

import (
	"fmt"
	"net/url"
	"strings"

	"tidalbridge/internal/core"
	"tidalbridge/pkg/uris"
)

const (
	qrEndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	qrSize     = 150
)

// Message is the display name carried by every placeholder entity.
func Message(link string) string {
	return fmt.Sprintf("Please visit %s to log in.", fullLink(link))
}

// fullLink normalizes a verification link to an absolute https URL.
func fullLink(link string) string {
	if strings.Contains(link, "://") {
		return link
	}
	return "https://" + link
}

// Track returns the placeholder track shown for lookups while logged out.
func Track(link string) core.Track {
	return core.Track{
		URI:  uris.Login(uris.KindTrack),
		Name: Message(link),
	}
}

func Album(link string) core.Album {
	return core.Album{
		URI:  uris.Login(uris.KindAlbum),
		Name: Message(link),
	}
}

func Artist(link string) core.Artist {
	return core.Artist{
		URI:  uris.Login(uris.KindArtist),
		Name: Message(link),
	}
}

// Playlist returns the placeholder playlist, containing exactly one
// placeholder track so the host renders a non-empty listing.
func Playlist(link string) *core.Playlist {
	return &core.Playlist{
		URI:    uris.Login(uris.KindPlaylist),
		Name:   Message(link),
		Tracks: []core.Track{Track(link)},
	}
}

// BrowseRefs echoes the requested URI back as a single reference whose type
// matches the requested category, carrying the login instructions as name.
func BrowseRefs(uri, link string) []core.Ref {
	return []core.Ref{{
		Type: uris.Category(uri),
		URI:  uri,
		Name: Message(link),
	}}
}

// PlaylistRefs is the placeholder playlist listing.
func PlaylistRefs(link string) []core.Ref {
	return []core.Ref{{
		Type: uris.KindPlaylist,
		URI:  uris.Login(uris.KindPlaylist),
		Name: Message(link),
	}}
}

// Search returns one placeholder match per entity kind.
func Search(link string) *core.SearchResult {
	return &core.SearchResult{
		Albums:  []core.Album{Album(link)},
		Artists: []core.Artist{Artist(link)},
		Tracks:  []core.Track{Track(link)},
	}
}

// QRImage renders the verification link as a QR code image record, fixed at
// 150x150 so hosts with small artwork slots can still display it.
func QRImage(link string) core.Image {
	return core.Image{
		URI:    fmt.Sprintf("%s?size=%dx%d&data=%s", qrEndpoint, qrSize, qrSize, url.QueryEscape(fullLink(link))),
		Width:  qrSize,
		Height: qrSize,
	}
}

// Images maps every requested URI to the QR image of the login link.
func Images(requested []string, link string) map[string][]core.Image {
	img := QRImage(link)
	images := make(map[string][]core.Image, len(requested))
	for _, uri := range requested {
		images[uri] = []core.Image{img}
	}
	return images
}

// Distinct is the placeholder distinct-value set: a single entry carrying
// the login instructions.
func Distinct(link string) []string {
	return []string{Message(link)}
}

// RefreshResult maps the refreshed URI to the placeholder playlist.
func RefreshResult(uri, link string) map[string]*core.Playlist {
	return map[string]*core.Playlist{uri: Playlist(link)}
}
