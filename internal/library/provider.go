// Package library implements the catalog browse/lookup/search facade.
package library

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

func (p *Provider) Browse(ctx context.Context, uri string) ([]core.Ref, error) {
	return loginwall.Guard(p.backend,
		func(link string) []core.Ref { return loginwall.BrowseRefs(uri, link) },
		func() ([]core.Ref, error) { return p.backend.Session().Browse(ctx, uri) })
}

func (p *Provider) Lookup(ctx context.Context, uris []string) ([]core.Track, error) {
	return loginwall.Guard(p.backend,
		func(link string) []core.Track { return []core.Track{loginwall.Track(link)} },
		func() ([]core.Track, error) { return p.backend.Session().Lookup(ctx, uris) })
}

func (p *Provider) Search(ctx context.Context, query string) (*core.SearchResult, error) {
	return loginwall.Guard(p.backend,
		loginwall.Search,
		func() (*core.SearchResult, error) { return p.backend.Session().Search(ctx, query) })
}

func (p *Provider) GetImages(ctx context.Context, uris []string) (map[string][]core.Image, error) {
	return loginwall.Guard(p.backend,
		func(link string) map[string][]core.Image { return loginwall.Images(uris, link) },
		func() (map[string][]core.Image, error) { return p.liveImages(ctx, uris) })
}

func (p *Provider) GetDistinct(ctx context.Context, field string) ([]string, error) {
	return loginwall.Guard(p.backend,
		loginwall.Distinct,
		func() ([]string, error) { return p.backend.Session().Distinct(ctx, field) })
}

func (p *Provider) liveImages(ctx context.Context, uris []string) (map[string][]core.Image, error) {
	images := make(map[string][]core.Image, len(uris))
	for _, uri := range uris {
		imgs, err := p.backend.Session().Images(ctx, uri)
		if err != nil {
			p.logger.Warn("Failed to fetch images", zap.String("uri", uri), zap.Error(err))
			continue
		}
		images[uri] = imgs
	}
	return images, nil
}

var _ core.LibraryProvider = (*Provider)(nil)
