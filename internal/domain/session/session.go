package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cofre/internal/domain/user"
	"cofre/internal/shared/auth"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// PublicPaths are reachable without a session. A present session is sent
// away from them to DashboardPath.
var PublicPaths = []string{"/login", "/register", "/forgot-password", "/reset-password"}

type Reason string

const (
	ReasonUser         Reason = "user"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonExpired      Reason = "expired"
)

var (
	ErrNoSession    = errors.New("no session")
	ErrTokenExpired = errors.New("session token expired")
	ErrEmptyToken   = errors.New("token is required")
)

// TokenStore persists the session token across process runs. Load returns
// an empty token when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (token string, expiresAt time.Time, err error)
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Clear(ctx context.Context) error
}

// Flusher drops every cached entity. *cache.Store implements it.
type Flusher interface {
	Clear()
}

// Resetter restores transient UI state to its defaults.
type Resetter interface {
	Reset()
}

// Navigator receives the redirect issued when a session ends.
type Navigator interface {
	Redirect(path string)
}

// Gate is the process-wide session. Its presence enables every entity
// fetch; Logout is the barrier that tears the session down.
type Gate struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	user      *user.User

	tokens TokenStore
	cache  Flusher
	ui     Resetter
	nav    Navigator
	maxAge time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

type Options struct {
	Tokens TokenStore
	Cache  Flusher
	UI     Resetter
	Nav    Navigator
	MaxAge time.Duration
	Logger zerolog.Logger
}

func NewGate(opts Options) *Gate {
	return &Gate{
		tokens: opts.Tokens,
		cache:  opts.Cache,
		ui:     opts.UI,
		nav:    opts.Nav,
		maxAge: opts.MaxAge,
		log:    opts.Logger.With().Str("component", "session").Logger(),
		now:    time.Now,
	}
}

// Restore loads a persisted token. An expired token is cleared and reported
// as ErrTokenExpired.
func (g *Gate) Restore(ctx context.Context) error {
	token, expiresAt, err := g.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session token: %w", err)
	}
	if token == "" {
		return ErrNoSession
	}
	if auth.Expired(expiresAt, g.now()) {
		if err := g.tokens.Clear(ctx); err != nil {
			g.log.Warn().Err(err).Msg("failed to clear expired session token")
		}
		return ErrTokenExpired
	}

	g.mu.Lock()
	g.token = token
	g.expiresAt = expiresAt
	g.mu.Unlock()

	g.log.Debug().Time("expires_at", expiresAt).Msg("session restored")
	return nil
}

// Start begins a session with token. The session ends at the token's exp
// claim or after the configured max age, whichever is sooner. Starting over
// a different session drops the cache first.
func (g *Gate) Start(ctx context.Context, token string, u *user.User) error {
	if token == "" {
		return ErrEmptyToken
	}
	now := g.now()
	expiresAt := auth.SessionExpiry(token, now, g.maxAge)
	if auth.Expired(expiresAt, now) {
		return ErrTokenExpired
	}
	if err := g.tokens.Save(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	// The previous session's entries go before the new token is visible,
	// so no read under the new token can see them.
	g.mu.Lock()
	replaced := g.token != "" && g.token != token
	if replaced {
		g.token = ""
		g.user = nil
	}
	g.mu.Unlock()
	if replaced && g.cache != nil {
		g.cache.Clear()
	}

	g.mu.Lock()
	g.token = token
	g.expiresAt = expiresAt
	g.user = nil
	if u != nil {
		cp := *u
		g.user = &cp
	}
	g.mu.Unlock()

	g.log.Info().Time("expires_at", expiresAt).Msg("session started")
	return nil
}

// Present reports whether a live token is held. It never calls into the
// cache store.
func (g *Gate) Present() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != "" && !auth.Expired(g.expiresAt, g.now())
}

// Token returns the live token, or "" without a session.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if auth.Expired(g.expiresAt, g.now()) {
		return ""
	}
	return g.token
}

// ExpiresAt returns when the current session ends.
func (g *Gate) ExpiresAt() time.Time {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.expiresAt
}

// User returns the cached profile. It may be nil while a token is present.
func (g *Gate) User() *user.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return nil
	}
	cp := *g.user
	return &cp
}

// SetUser stores the profile. It is ignored without a session so a late
// response cannot resurrect a logged out user.
func (g *Gate) SetUser(u user.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == "" {
		return
	}
	g.user = &u
}

// LoggedIn reports whether both a token and a profile are held.
func (g *Gate) LoggedIn() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != "" && g.user != nil && !auth.Expired(g.expiresAt, g.now())
}

// Logout ends the session. In order: the in-memory token is dropped, the
// persisted token is cleared, the cache is cleared, UI state is reset and
// the navigator is sent to LoginPath. Every step runs even when clearing
// the persisted token fails; that error is returned.
func (g *Gate) Logout(ctx context.Context, reason Reason) error {
	g.mu.Lock()
	g.token = ""
	g.expiresAt = time.Time{}
	g.user = nil
	g.mu.Unlock()

	var err error
	if clearErr := g.tokens.Clear(ctx); clearErr != nil {
		err = fmt.Errorf("failed to clear session token: %w", clearErr)
		g.log.Error().Err(clearErr).Msg("failed to clear persisted session token")
	}
	if g.cache != nil {
		g.cache.Clear()
	}
	if g.ui != nil {
		g.ui.Reset()
	}
	if g.nav != nil {
		g.nav.Redirect(LoginPath)
	}

	g.log.Info().Str("reason", string(reason)).Msg("session ended")
	return err
}

// HandleUnauthorized is the hook the REST client calls on a 401.
func (g *Gate) HandleUnauthorized(ctx context.Context) {
	if err := g.Logout(ctx, ReasonUnauthorized); err != nil {
		g.log.Warn().Err(err).Msg("logout after unauthorized response incomplete")
	}
}

// CheckExpiry ends an expired session. It reports whether a logout ran.
func (g *Gate) CheckExpiry(ctx context.Context) bool {
	g.mu.RLock()
	expired := g.token != "" && auth.Expired(g.expiresAt, g.now())
	g.mu.RUnlock()
	if !expired {
		return false
	}
	if err := g.Logout(ctx, ReasonExpired); err != nil {
		g.log.Warn().Err(err).Msg("logout after expiry incomplete")
	}
	return true
}

// Guard resolves navigation to path. It returns the redirect target, or ""
// when navigation may proceed.
func (g *Gate) Guard(path string) string {
	present := g.Present()
	if IsPublic(path) {
		if present {
			return DashboardPath
		}
		return ""
	}
	if !present {
		return LoginPath
	}
	return ""
}

func IsPublic(path string) bool {
	for _, p := range PublicPaths {
		if p == path {
			return true
		}
	}
	return false
}
