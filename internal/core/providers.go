package core

import (
	"context"
	"errors"
	"time"
)

// ErrNoStream is returned by Session.StreamURL when the catalog has no
// playable stream for a URI. The playback facade translates it into an empty
// result instead of surfacing it to the host.
var ErrNoStream = errors.New("no stream available")

// LinkLogin describes a pending device-authorization request.
type LinkLogin struct {
	// URI is the verification link the user must visit on another device.
	// It may be carried without a scheme (e.g. "link.tidal.com/ABCDE").
	URI string
	// ExpiresIn is how long the link stays valid.
	ExpiresIn time.Duration
}

// Session is the external TIDAL session this backend drives. Catalog and
// playlist accessors must only be called once CheckLogin reports true.
type Session interface {
	// CheckLogin reports whether the session holds valid credentials.
	CheckLogin() bool
	// LoginLink starts a device-authorization request and returns the
	// verification link together with a handle completing when the
	// out-of-band approval resolves. It never blocks on the approval.
	LoginLink(ctx context.Context) (*LinkLogin, *LoginHandle, error)
	// Login performs a blocking credential login, reusing cached
	// credentials when available.
	Login(ctx context.Context) error

	Browse(ctx context.Context, uri string) ([]Ref, error)
	Lookup(ctx context.Context, uris []string) ([]Track, error)
	Search(ctx context.Context, query string) (*SearchResult, error)
	Images(ctx context.Context, uri string) ([]Image, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	UserPlaylists(ctx context.Context) ([]Playlist, error)
	Playlist(ctx context.Context, uri string) (*Playlist, error)
	StreamURL(ctx context.Context, uri string) (string, error)
}

// Backend is the shared login state the provider facades consult before
// every operation.
type Backend interface {
	// Connect performs the deferred blocking login of the lazy oauth
	// path. It is a no-op while a link login is pending or once the
	// session is authenticated.
	Connect()
	// LoggedIn reports whether the session is authenticated. It is a
	// point-in-time snapshot and never blocks on an in-flight login.
	LoggedIn() bool
	// LoggingIn reports whether a device-authorization poll is in flight.
	LoggingIn() bool
	// VerificationLink returns the pending login link, or "" when no
	// deferred login was started.
	VerificationLink() string
	// ReclaimLoginAudio removes the placeholder audio cached during the
	// unauthenticated window. Invoked lazily on the first provider call
	// after login succeeds.
	ReclaimLoginAudio()
	// Session returns the backing session. Callers must check LoggedIn
	// first.
	Session() Session
}

// LibraryProvider answers the host's catalog queries.
type LibraryProvider interface {
	Browse(ctx context.Context, uri string) ([]Ref, error)
	Lookup(ctx context.Context, uris []string) ([]Track, error)
	Search(ctx context.Context, query string) (*SearchResult, error)
	GetImages(ctx context.Context, uris []string) (map[string][]Image, error)
	GetDistinct(ctx context.Context, field string) ([]string, error)
}

// PlaylistsProvider answers the host's playlist queries.
type PlaylistsProvider interface {
	Lookup(ctx context.Context, uri string) (*Playlist, error)
	Refresh(ctx context.Context, uri string) (map[string]*Playlist, error)
	AsList(ctx context.Context) ([]Ref, error)
}

// PlaybackProvider translates catalog URIs into playable stream URIs. An
// empty result with a nil error means no stream is available.
type PlaybackProvider interface {
	TranslateURI(ctx context.Context, uri string) (string, error)
}
