// Package session implements the TIDAL session the backend drives: the
// device-authorization login flow and the catalog accessors used once
// authenticated.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tidalbridge/internal/authstore"
	"tidalbridge/internal/core"
)

const (
	defaultAPIBase  = "https://api.tidal.com/v1"
	defaultAuthBase = "https://auth.tidal.com/v1/oauth2"

	// Fallback client credentials used when none are configured, the same
	// pair media-player integrations ship by default.
	defaultClientID     = "zU4XHVVkc2tDPo4t"
	defaultClientSecret = "VJKhDFqJPqvsPVNBV6ukXTJmwlvbttP7wlMlrc72se4="

	requestTimeout = 15 * time.Second
	countryCode    = "US"
)

// errNotFound marks a 404 from the catalog.
var errNotFound = errors.New("not found")

type Client struct {
	cfg     core.TidalConfig
	oauth   *oauth2.Config
	store   *authstore.Store
	logger  *zap.Logger
	http    *http.Client
	apiBase string

	mutex  sync.RWMutex
	token  *oauth2.Token
	userID string
}

// New creates a session client. store may be nil to disable credential
// caching. Cached credentials are picked up immediately so a restarted
// backend resumes without a new login.
func New(cfg *core.TidalConfig, store *authstore.Store, logger *zap.Logger) *Client {
	clientID, clientSecret := cfg.ClientID, cfg.ClientSecret
	if clientID == "" || clientSecret == "" {
		clientID, clientSecret = defaultClientID, defaultClientSecret
	}

	c := &Client{
		cfg:    *cfg,
		store:  store,
		logger: logger,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"r_usr", "w_usr"},
			Endpoint: oauth2.Endpoint{
				TokenURL:      defaultAuthBase + "/token",
				DeviceAuthURL: defaultAuthBase + "/device_authorization",
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		http:    &http.Client{Timeout: requestTimeout},
		apiBase: defaultAPIBase,
	}

	if store != nil {
		if tok, err := store.Load(); err != nil {
			logger.Warn("Failed to load cached credentials", zap.Error(err))
		} else if tok != nil {
			c.token = tok
			logger.Info("Loaded cached credentials")
		}
	}

	return c
}

// CheckLogin reports whether the session holds a usable token.
func (c *Client) CheckLogin() bool {
	tok := c.currentToken()
	return tok != nil && tok.Valid()
}

// LoginLink starts a device-authorization request. The returned handle
// completes when the user approves (or the link expires); the accompanying
// goroutine is the only place the token transitions to authenticated.
func (c *Client) LoginLink(ctx context.Context) (*core.LinkLogin, *core.LoginHandle, error) {
	da, err := c.oauth.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device authorization request failed: %w", err)
	}

	handle := core.NewLoginHandle()
	go func() {
		tok, err := c.oauth.DeviceAccessToken(ctx, da)
		if err == nil {
			c.setToken(tok)
			c.persist(tok)
		}
		handle.Complete(err)
	}()

	link := da.VerificationURIComplete
	if link == "" {
		link = da.VerificationURI
	}
	return &core.LinkLogin{URI: link, ExpiresIn: time.Until(da.Expiry)}, handle, nil
}

// Login performs a blocking login: refresh cached credentials when possible,
// otherwise run the device flow to completion. A failed login leaves any
// previously cached credentials untouched.
func (c *Client) Login(ctx context.Context) error {
	if c.CheckLogin() {
		return nil
	}

	if tok := c.currentToken(); tok != nil && tok.RefreshToken != "" {
		fresh, err := c.oauth.TokenSource(ctx, tok).Token()
		if err == nil {
			c.setToken(fresh)
			c.persist(fresh)
			return nil
		}
		c.logger.Warn("Cached credentials rejected, starting device login", zap.Error(err))
	}

	da, err := c.oauth.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("device authorization request failed: %w", err)
	}
	c.logger.Info("Visit the verification link to log in",
		zap.String("link", da.VerificationURIComplete))

	tok, err := c.oauth.DeviceAccessToken(ctx, da)
	if err != nil {
		return fmt.Errorf("device authorization failed: %w", err)
	}

	c.setToken(tok)
	c.persist(tok)
	return nil
}

func (c *Client) currentToken() *oauth2.Token {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.token
}

func (c *Client) setToken(tok *oauth2.Token) {
	c.mutex.Lock()
	c.token = tok
	c.mutex.Unlock()
}

func (c *Client) persist(tok *oauth2.Token) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(tok); err != nil {
		c.logger.Warn("Failed to cache credentials", zap.Error(err))
	}
}

// get performs an authenticated catalog request and decodes the JSON reply.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	tok := c.currentToken()
	if tok == nil {
		return errors.New("session is not logged in")
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("countryCode", countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, errNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// user returns the session's user ID, fetched once and cached.
func (c *Client) user(ctx context.Context) (string, error) {
	c.mutex.RLock()
	id := c.userID
	c.mutex.RUnlock()
	if id != "" {
		return id, nil
	}

	var info struct {
		UserID int64 `json:"userId"`
	}
	if err := c.get(ctx, "/sessions", nil, &info); err != nil {
		return "", fmt.Errorf("failed to resolve session user: %w", err)
	}

	id = strconv.FormatInt(info.UserID, 10)
	c.mutex.Lock()
	c.userID = id
	c.mutex.Unlock()
	return id, nil
}

var _ core.Session = (*Client)(nil)
