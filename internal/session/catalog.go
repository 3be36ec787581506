package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tidalbridge/internal/core"
	"tidalbridge/pkg/uris"
)

const imageSize = 320

// Browse lists the children of a directory or typed URI.
func (c *Client) Browse(ctx context.Context, uri string) ([]core.Ref, error) {
	if uris.Category(uri) == "directory" {
		return c.browseDirectory(ctx, uri)
	}
	return c.browseEntity(ctx, uri)
}

func (c *Client) browseDirectory(ctx context.Context, uri string) ([]core.Ref, error) {
	switch uri {
	case uris.Root:
		refs := make([]core.Ref, 0, len(uris.RootDirectories))
		for _, dir := range uris.RootDirectories {
			refs = append(refs, core.Ref{Type: "directory", URI: dir.URI, Name: dir.Name})
		}
		return refs, nil
	case "tidal:my_albums":
		var reply page[favoriteItem[albumDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/albums", &reply); err != nil {
			return nil, err
		}
		refs := make([]core.Ref, 0, len(reply.Items))
		for _, item := range reply.Items {
			refs = append(refs, item.Item.toRef())
		}
		return refs, nil
	case "tidal:my_artists":
		var reply page[favoriteItem[artistDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/artists", &reply); err != nil {
			return nil, err
		}
		refs := make([]core.Ref, 0, len(reply.Items))
		for _, item := range reply.Items {
			refs = append(refs, item.Item.toRef())
		}
		return refs, nil
	case "tidal:my_tracks":
		var reply page[favoriteItem[trackDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/tracks", &reply); err != nil {
			return nil, err
		}
		refs := make([]core.Ref, 0, len(reply.Items))
		for _, item := range reply.Items {
			refs = append(refs, item.Item.toRef())
		}
		return refs, nil
	case "tidal:my_playlists":
		lists, err := c.UserPlaylists(ctx)
		if err != nil {
			return nil, err
		}
		refs := make([]core.Ref, 0, len(lists))
		for _, pl := range lists {
			refs = append(refs, core.PlaylistRef(pl))
		}
		return refs, nil
	case "tidal:moods":
		return c.categories(ctx, "/moods", uris.KindMood)
	case "tidal:genres":
		return c.categories(ctx, "/genres", uris.KindGenre)
	case "tidal:mixes":
		var reply page[favoriteItem[mixDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/mixes", &reply); err != nil {
			return nil, err
		}
		refs := make([]core.Ref, 0, len(reply.Items))
		for _, item := range reply.Items {
			refs = append(refs, item.Item.toRef())
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unknown directory %q", uri)
	}
}

func (c *Client) browseEntity(ctx context.Context, uri string) ([]core.Ref, error) {
	id, ok := uris.ID(uri)
	if !ok {
		return nil, fmt.Errorf("malformed uri %q", uri)
	}

	switch uris.Category(uri) {
	case uris.KindAlbum:
		return c.trackRefs(ctx, "/albums/"+id+"/tracks")
	case uris.KindMix:
		return c.trackRefs(ctx, "/mixes/"+id+"/tracks")
	case uris.KindArtist:
		var reply page[albumDTO]
		if err := c.get(ctx, "/artists/"+id+"/albums", nil, &reply); err != nil {
			return nil, err
		}
		refs := make([]core.Ref, 0, len(reply.Items))
		for _, album := range reply.Items {
			refs = append(refs, album.toRef())
		}
		return refs, nil
	case uris.KindPlaylist:
		return c.trackRefs(ctx, "/playlists/"+id+"/tracks")
	case uris.KindMood:
		return c.playlistRefs(ctx, "/moods/"+id+"/playlists")
	case uris.KindGenre:
		return c.playlistRefs(ctx, "/genres/"+id+"/playlists")
	default:
		return nil, fmt.Errorf("unsupported uri %q", uri)
	}
}

// Lookup resolves URIs to their playable tracks.
func (c *Client) Lookup(ctx context.Context, requested []string) ([]core.Track, error) {
	var tracks []core.Track
	for _, uri := range requested {
		// Hosts may re-submit placeholder URIs kept from the logged-out
		// window; the sentinel never resolves to a catalog entity.
		if uris.IsLogin(uri) {
			continue
		}
		id, ok := uris.ID(uri)
		if !ok {
			return nil, fmt.Errorf("malformed uri %q", uri)
		}

		switch uris.Category(uri) {
		case uris.KindTrack:
			var track trackDTO
			if err := c.get(ctx, "/tracks/"+id, nil, &track); err != nil {
				return nil, err
			}
			tracks = append(tracks, track.toTrack())
		case uris.KindAlbum:
			more, err := c.tracks(ctx, "/albums/"+id+"/tracks")
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, more...)
		case uris.KindPlaylist:
			more, err := c.tracks(ctx, "/playlists/"+id+"/tracks")
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, more...)
		case uris.KindArtist:
			more, err := c.tracks(ctx, "/artists/"+id+"/toptracks")
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, more...)
		default:
			return nil, fmt.Errorf("unsupported uri %q", uri)
		}
	}
	return tracks, nil
}

// Search runs a catalog search over artists, albums and tracks.
func (c *Client) Search(ctx context.Context, query string) (*core.SearchResult, error) {
	params := url.Values{}
	params.Set("query", normalizeQuery(query))
	params.Set("types", "ARTISTS,ALBUMS,TRACKS")

	var reply struct {
		Artists page[artistDTO] `json:"artists"`
		Albums  page[albumDTO]  `json:"albums"`
		Tracks  page[trackDTO]  `json:"tracks"`
	}
	if err := c.get(ctx, "/search", params, &reply); err != nil {
		return nil, err
	}

	result := &core.SearchResult{}
	for _, artist := range reply.Artists.Items {
		result.Artists = append(result.Artists, artist.toArtist())
	}
	for _, album := range reply.Albums.Items {
		result.Albums = append(result.Albums, album.toAlbum())
	}
	for _, track := range reply.Tracks.Items {
		result.Tracks = append(result.Tracks, track.toTrack())
	}
	return result, nil
}

// Images returns artwork for a URI.
func (c *Client) Images(ctx context.Context, uri string) ([]core.Image, error) {
	id, ok := uris.ID(uri)
	if !ok {
		return nil, fmt.Errorf("malformed uri %q", uri)
	}

	var imageID string
	switch uris.Category(uri) {
	case uris.KindAlbum:
		var album albumDTO
		if err := c.get(ctx, "/albums/"+id, nil, &album); err != nil {
			return nil, err
		}
		imageID = album.Cover
	case uris.KindArtist:
		var artist artistDTO
		if err := c.get(ctx, "/artists/"+id, nil, &artist); err != nil {
			return nil, err
		}
		imageID = artist.Picture
	case uris.KindPlaylist:
		var playlist playlistDTO
		if err := c.get(ctx, "/playlists/"+id, nil, &playlist); err != nil {
			return nil, err
		}
		imageID = playlist.SquareImage
	case uris.KindTrack:
		var track trackDTO
		if err := c.get(ctx, "/tracks/"+id, nil, &track); err != nil {
			return nil, err
		}
		if track.Album != nil {
			imageID = track.Album.Cover
		}
	default:
		return nil, fmt.Errorf("unsupported uri %q", uri)
	}

	if imageID == "" {
		return nil, nil
	}
	return []core.Image{{URI: imageURL(imageID, imageSize), Width: imageSize, Height: imageSize}}, nil
}

// Distinct returns the unique values of a browse field across the user's
// favorites.
func (c *Client) Distinct(ctx context.Context, field string) ([]string, error) {
	switch strings.ToLower(field) {
	case "artist", "albumartist":
		var reply page[favoriteItem[artistDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/artists", &reply); err != nil {
			return nil, err
		}
		return uniqueNames(reply.Items, func(a artistDTO) string { return a.Name }), nil
	case "album":
		var reply page[favoriteItem[albumDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/albums", &reply); err != nil {
			return nil, err
		}
		return uniqueNames(reply.Items, func(a albumDTO) string { return a.Title }), nil
	case "track":
		var reply page[favoriteItem[trackDTO]]
		if err := c.getWithUser(ctx, "/users/%s/favorites/tracks", &reply); err != nil {
			return nil, err
		}
		return uniqueNames(reply.Items, func(t trackDTO) string { return t.Title }), nil
	default:
		return nil, nil
	}
}

// UserPlaylists lists the user's playlists in the order the catalog yields
// them.
func (c *Client) UserPlaylists(ctx context.Context) ([]core.Playlist, error) {
	var reply page[playlistDTO]
	if err := c.getWithUser(ctx, "/users/%s/playlists", &reply); err != nil {
		return nil, err
	}

	lists := make([]core.Playlist, 0, len(reply.Items))
	for _, pl := range reply.Items {
		lists = append(lists, pl.toPlaylist())
	}
	return lists, nil
}

// Playlist fetches a playlist with its tracks.
func (c *Client) Playlist(ctx context.Context, uri string) (*core.Playlist, error) {
	id, ok := uris.ID(uri)
	if !ok {
		return nil, fmt.Errorf("malformed uri %q", uri)
	}

	var dto playlistDTO
	if err := c.get(ctx, "/playlists/"+id, nil, &dto); err != nil {
		return nil, err
	}
	playlist := dto.toPlaylist()

	tracks, err := c.tracks(ctx, "/playlists/"+id+"/tracks")
	if err != nil {
		return nil, err
	}
	playlist.Tracks = tracks
	return &playlist, nil
}

// StreamURL resolves a track to its stream URL. Missing streams map to
// core.ErrNoStream so the playback facade can swallow them.
func (c *Client) StreamURL(ctx context.Context, uri string) (string, error) {
	if uris.IsLogin(uri) {
		return "", core.ErrNoStream
	}
	id, ok := uris.ID(uri)
	if !ok || uris.Category(uri) != uris.KindTrack {
		return "", fmt.Errorf("not a track uri: %q", uri)
	}

	params := url.Values{}
	params.Set("soundQuality", c.cfg.Quality)

	var reply struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, "/tracks/"+id+"/streamUrl", params, &reply); err != nil {
		if errors.Is(err, errNotFound) {
			return "", core.ErrNoStream
		}
		return "", err
	}
	if reply.URL == "" {
		return "", core.ErrNoStream
	}
	return reply.URL, nil
}

// getWithUser expands a one-verb path template with the session's user ID.
func (c *Client) getWithUser(ctx context.Context, pathTemplate string, out any) error {
	userID, err := c.user(ctx)
	if err != nil {
		return err
	}
	return c.get(ctx, fmt.Sprintf(pathTemplate, userID), nil, out)
}

func (c *Client) tracks(ctx context.Context, path string) ([]core.Track, error) {
	var reply page[trackDTO]
	if err := c.get(ctx, path, nil, &reply); err != nil {
		return nil, err
	}
	tracks := make([]core.Track, 0, len(reply.Items))
	for _, track := range reply.Items {
		tracks = append(tracks, track.toTrack())
	}
	return tracks, nil
}

func (c *Client) trackRefs(ctx context.Context, path string) ([]core.Ref, error) {
	var reply page[trackDTO]
	if err := c.get(ctx, path, nil, &reply); err != nil {
		return nil, err
	}
	refs := make([]core.Ref, 0, len(reply.Items))
	for _, track := range reply.Items {
		refs = append(refs, track.toRef())
	}
	return refs, nil
}

func (c *Client) playlistRefs(ctx context.Context, path string) ([]core.Ref, error) {
	var reply page[playlistDTO]
	if err := c.get(ctx, path, nil, &reply); err != nil {
		return nil, err
	}
	refs := make([]core.Ref, 0, len(reply.Items))
	for _, pl := range reply.Items {
		refs = append(refs, pl.toRef())
	}
	return refs, nil
}

func (c *Client) categories(ctx context.Context, path, kind string) ([]core.Ref, error) {
	var reply []categoryDTO
	if err := c.get(ctx, path, nil, &reply); err != nil {
		return nil, err
	}
	refs := make([]core.Ref, 0, len(reply))
	for _, category := range reply {
		refs = append(refs, category.toRef(kind))
	}
	return refs, nil
}

func uniqueNames[T any](items []favoriteItem[T], name func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		n := name(item.Item)
		if _, dup := seen[n]; dup || n == "" {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}
