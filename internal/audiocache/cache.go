// Package audiocache keeps a per-login-link copy of the placeholder audio
// asset on disk, so playback translation has something to hand the host
// while login is pending. The cache is a stopgap: the file is removed as
// soon as a provider call observes the session authenticated.
package audiocache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// downloadTimeout bounds the one-shot placeholder asset download.
	downloadTimeout = 30 * time.Second

	cacheDirName = "login_audio"
	fileSuffix   = ".ogg"
)

type Cache struct {
	dir      string
	assetURL string
	client   *http.Client
	logger   *zap.Logger
}

// New creates a cache rooted at <dataDir>/login_audio. The directory is
// created lazily on the first successful download.
func New(dataDir, assetURL string, logger *zap.Logger) *Cache {
	return &Cache{
		dir:      filepath.Join(dataDir, cacheDirName),
		assetURL: assetURL,
		client:   &http.Client{Timeout: downloadTimeout},
		logger:   logger,
	}
}

// Resolve returns the local file URI of the cached placeholder audio for the
// given verification link, downloading the asset first if needed. A false
// result means no stream is available; the failure is logged, never raised,
// and not retried within the call.
func (c *Cache) Resolve(ctx context.Context, link string) (string, bool) {
	path := c.Path(link)

	if _, err := os.Stat(path); err == nil {
		return fileURI(path), true
	}

	body, err := c.download(ctx)
	if err != nil {
		c.logger.Warn("Placeholder audio download failed", zap.Error(err))
		return "", false
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("Failed to create audio cache directory", zap.Error(err))
		return "", false
	}

	// Concurrent writers for the same link may race here; last writer wins
	// and the content is always the same fixed asset.
	if err := os.WriteFile(path, body, 0o644); err != nil {
		c.logger.Warn("Failed to write placeholder audio", zap.Error(err))
		return "", false
	}

	c.logger.Info("Cached placeholder audio", zap.String("path", path))
	return fileURI(path), true
}

// Reclaim removes the cached file for the given link. Missing files are not
// an error, so repeated calls after login succeeds are harmless.
func (c *Cache) Reclaim(link string) {
	path := c.Path(link)
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to remove placeholder audio", zap.Error(err))
		}
		return
	}
	c.logger.Info("Reclaimed placeholder audio", zap.String("path", path))
}

// Path returns the cache file path derived from the verification link's
// unique suffix.
func (c *Cache) Path(link string) string {
	return filepath.Join(c.dir, linkSuffix(link)+fileSuffix)
}

// linkSuffix extracts the unique trailing segment of a verification link.
func linkSuffix(link string) string {
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		link = link[i+1:]
	}
	return link
}

func (c *Cache) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.assetURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("placeholder asset returned status %d", resp.StatusCode)
	}

	// Buffer the full asset before touching disk so a transport failure
	// mid-body never leaves a partial file behind.
	return io.ReadAll(resp.Body)
}

func fileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs
}
