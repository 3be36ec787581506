// Package backend owns the single TIDAL session and its login state. All
// provider facades hold a reference to the backend and consult it before
// every operation.
package backend

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mdp/qrterminal/v3"
	"go.uber.org/zap"

	"tidalbridge/internal/audiocache"
	"tidalbridge/internal/core"
)

type Backend struct {
	cfg     *core.Config
	session core.Session
	cache   *audiocache.Cache
	logger  *zap.Logger

	// authed is written only by the login poll goroutine (or the blocking
	// eager login); provider calls read it as a point-in-time snapshot.
	authed atomic.Bool

	mutex sync.RWMutex
	login *core.LoginHandle
	link  string

	// connectMu serializes the lazy blocking login so concurrent provider
	// calls trigger it at most once.
	connectMu sync.Mutex
}

func New(cfg *core.Config, session core.Session, cache *audiocache.Cache, logger *zap.Logger) *Backend {
	return &Backend{
		cfg:     cfg,
		session: session,
		cache:   cache,
		logger:  logger,
	}
}

// Start brings the session up according to the configured login method.
// The deferred link method never blocks: it requests a verification link,
// prints it (and its QR code), and leaves a goroutine waiting for the
// out-of-band approval. Start itself returns immediately.
func (b *Backend) Start(ctx context.Context) error {
	if b.session.CheckLogin() {
		b.authed.Store(true)
		b.logger.Info("Session already authenticated")
		return nil
	}

	if b.cfg.Tidal.LoginMethod == core.LoginMethodLink {
		// An eager connect would block startup on an approval that may
		// never come, so the link method always implies lazy connect.
		b.cfg.Tidal.LazyConnect = true
		return b.startLinkLogin(ctx)
	}

	if b.cfg.Tidal.LazyConnect {
		return nil
	}

	if err := b.session.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	b.authed.Store(true)
	return nil
}

func (b *Backend) startLinkLogin(ctx context.Context) error {
	link, handle, err := b.session.LoginLink(ctx)
	if err != nil {
		return fmt.Errorf("failed to request device authorization: %w", err)
	}

	b.mutex.Lock()
	b.link = link.URI
	b.login = handle
	b.mutex.Unlock()

	b.logger.Info("Waiting for login, visit the verification link",
		zap.String("link", link.URI),
		zap.Duration("expires_in", link.ExpiresIn))
	qrterminal.GenerateHalfBlock(link.URI, qrterminal.L, os.Stdout)

	go b.awaitLogin(ctx, handle)
	return nil
}

// awaitLogin is the sole writer of the authenticated transition. Provider
// calls racing a completion see either the old or the new snapshot; none of
// them ever block here.
func (b *Backend) awaitLogin(ctx context.Context, handle *core.LoginHandle) {
	select {
	case <-ctx.Done():
		b.mutex.Lock()
		b.login = nil
		b.mutex.Unlock()
		return
	case <-handle.Done():
	}

	b.mutex.Lock()
	b.login = nil
	b.mutex.Unlock()

	if err := handle.Err(); err != nil {
		// Fatal for this process: the link expired or was rejected, and
		// there is no automatic retry. Placeholders keep being served.
		b.logger.Error("Device authorization failed, restart to log in", zap.Error(err))
		return
	}

	b.authed.Store(true)
	b.logger.Info("Login completed, serving live catalog")
}

// Connect performs the deferred blocking login of the lazy oauth path. The
// guard invokes it on every provider call; it is a no-op unless lazy connect
// is configured with the oauth method and the session is still logged out.
// Link logins resolve out of band instead and are never blocked on here.
func (b *Backend) Connect() {
	if b.authed.Load() || !b.cfg.Tidal.LazyConnect || b.cfg.Tidal.LoginMethod != core.LoginMethodOAuth {
		return
	}

	b.connectMu.Lock()
	defer b.connectMu.Unlock()
	if b.authed.Load() {
		return
	}

	if b.session.CheckLogin() {
		b.authed.Store(true)
		return
	}
	if err := b.session.Login(context.Background()); err != nil {
		// Placeholders keep being served; the next provider call retries.
		b.logger.Error("Lazy login failed", zap.Error(err))
		return
	}
	b.authed.Store(true)
	b.logger.Info("Lazy login completed, serving live catalog")
}

// LoggedIn reports whether the session is authenticated.
func (b *Backend) LoggedIn() bool {
	return b.authed.Load() || b.session.CheckLogin()
}

// LoggingIn reports whether a device-authorization poll is in flight.
func (b *Backend) LoggingIn() bool {
	b.mutex.RLock()
	handle := b.login
	b.mutex.RUnlock()
	return handle != nil && handle.Running()
}

// VerificationLink returns the pending login link, or "" when no deferred
// login was started.
func (b *Backend) VerificationLink() string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.link
}

// ReclaimLoginAudio removes the placeholder audio cached for the pending
// link. The guard calls it on every authenticated provider call; only the
// first one finds a file.
func (b *Backend) ReclaimLoginAudio() {
	link := b.VerificationLink()
	if link == "" {
		return
	}
	b.cache.Reclaim(link)
}

// Session returns the backing session. Callers must check LoggedIn first.
func (b *Backend) Session() core.Session {
	return b.session
}

// LazyConnect reports the effective lazy-connect setting after Start may
// have coerced it.
func (b *Backend) LazyConnect() bool {
	return b.cfg.Tidal.LazyConnect
}

var _ core.Backend = (*Backend)(nil)
