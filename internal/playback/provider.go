// Package playback translates catalog URIs into playable stream URIs.
package playback

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tidalbridge/internal/audiocache"
	"tidalbridge/internal/core"
	"tidalbridge/internal/loginwall"
	"tidalbridge/internal/store"
)

type Provider struct {
	backend core.Backend
	cache   *audiocache.Cache
	streams *store.StreamCache
	logger  *zap.Logger
}

func New(backend core.Backend, cache *audiocache.Cache, streams *store.StreamCache, logger *zap.Logger) *Provider {
	return &Provider{
		backend: backend,
		cache:   cache,
		streams: streams,
		logger:  logger,
	}
}

// TranslateURI resolves a track URI to a playable stream URI. While logged
// out it serves the cached placeholder audio instead; an empty result with a
// nil error means no stream is available.
func (p *Provider) TranslateURI(ctx context.Context, uri string) (string, error) {
	return loginwall.Guard(p.backend,
		func(link string) string {
			local, ok := p.cache.Resolve(ctx, link)
			if !ok {
				return ""
			}
			return local
		},
		func() (string, error) { return p.liveStream(ctx, uri) })
}

func (p *Provider) liveStream(ctx context.Context, uri string) (string, error) {
	if p.streams.Unresolvable(uri) {
		return "", nil
	}
	if url, ok := p.streams.URL(uri); ok {
		return url, nil
	}

	url, err := p.backend.Session().StreamURL(ctx, uri)
	if err != nil {
		if errors.Is(err, core.ErrNoStream) {
			p.streams.MarkUnresolvable(uri)
			p.logger.Warn("No stream for track", zap.String("uri", uri))
			return "", nil
		}
		return "", err
	}

	p.streams.Put(uri, url)
	return url, nil
}

var _ core.PlaybackProvider = (*Provider)(nil)
