// Package playlists implements the playlist listing/lookup facade.
package playlists

import (
	"context"

	"go.uber.org/zap"

	"tidalbridge/internal/core"
	"tidalbridge/internal/loginwall"
)

type Provider struct {
	backend core.Backend
	logger  *zap.Logger
}

func New(backend core.Backend, logger *zap.Logger) *Provider {
	return &Provider{backend: backend, logger: logger}
}

func (p *Provider) Lookup(ctx context.Context, uri string) (*core.Playlist, error) {
	return loginwall.Guard(p.backend,
		loginwall.Playlist,
		func() (*core.Playlist, error) { return p.backend.Session().Playlist(ctx, uri) })
}

func (p *Provider) Refresh(ctx context.Context, uri string) (map[string]*core.Playlist, error) {
	return loginwall.Guard(p.backend,
		func(link string) map[string]*core.Playlist { return loginwall.RefreshResult(uri, link) },
		func() (map[string]*core.Playlist, error) {
			playlist, err := p.backend.Session().Playlist(ctx, uri)
			if err != nil {
				return nil, err
			}
			return map[string]*core.Playlist{uri: playlist}, nil
		})
}

// AsList returns the user's playlists as browse references. Live listings
// keep the collaborator's order; no sorting happens here.
func (p *Provider) AsList(ctx context.Context) ([]core.Ref, error) {
	return loginwall.Guard(p.backend,
		loginwall.PlaylistRefs,
		func() ([]core.Ref, error) {
			lists, err := p.backend.Session().UserPlaylists(ctx)
			if err != nil {
				return nil, err
			}
			refs := make([]core.Ref, 0, len(lists))
			for _, pl := range lists {
				refs = append(refs, core.PlaylistRef(pl))
			}
			return refs, nil
		})
}

var _ core.PlaylistsProvider = (*Provider)(nil)
