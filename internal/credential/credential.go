// Package credential supplies bearer tokens for the supplier backend.
package credential

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoCredential is returned when no token is configured and none can be
// acquired.
var ErrNoCredential = eris.New("credential: none configured")

// Provider supplies the bearer token for backend calls. It satisfies
// resilience.Credentials.
type Provider interface {
	Current(ctx context.Context) (string, error)
	Invalidate()
	Refresh(ctx context.Context) (string, error)
}

// StaticProvider serves a fixed token. Refresh cannot produce a new one, so
// it returns the same token and the retry that follows fails terminally.
type StaticProvider struct {
	token string
}

// NewStatic returns a StaticProvider for token.
func NewStatic(token string) *StaticProvider {
	return &StaticProvider{token: strings.TrimSpace(token)}
}

func (s *StaticProvider) Current(context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoCredential
	}
	return s.token, nil
}

func (s *StaticProvider) Invalidate() {}

func (s *StaticProvider) Refresh(ctx context.Context) (string, error) {
	return s.Current(ctx)
}

// Authenticator exchanges account credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// LoginProvider logs in with email and password and caches the token until
// it is invalidated or its JWT exp claim has passed.
type LoginProvider struct {
	auth     Authenticator
	email    string
	password string
	skew     time.Duration
	now      func() time.Time

	mu    sync.Mutex
	token string
}

// LoginOption configures a LoginProvider.
type LoginOption func(*LoginProvider)

// WithSkew treats tokens as expired this long before their exp claim.
func WithSkew(d time.Duration) LoginOption {
	return func(p *LoginProvider) { p.skew = d }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) LoginOption {
	return func(p *LoginProvider) { p.now = now }
}

// WithToken seeds the cache with a previously issued token.
func WithToken(token string) LoginOption {
	return func(p *LoginProvider) { p.token = strings.TrimSpace(token) }
}

// NewLogin returns a LoginProvider that authenticates through auth.
func NewLogin(auth Authenticator, email, password string, opts ...LoginOption) *LoginProvider {
	p := &LoginProvider{
		auth:     auth,
		email:    email,
		password: password,
		skew:     30 * time.Second,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Current returns the cached token, logging in when none is cached or the
// cached one has expired.
func (p *LoginProvider) Current(ctx context.Context) (string, error) {
	p.mu.Lock()
	tok := p.token
	p.mu.Unlock()

	if tok != "" && !Expired(tok, p.now(), p.skew) {
		return tok, nil
	}
	return p.Refresh(ctx)
}

// Invalidate drops the cached token.
func (p *LoginProvider) Invalidate() {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
}

// Refresh logs in and caches the new token.
func (p *LoginProvider) Refresh(ctx context.Context) (string, error) {
	if p.email == "" || p.password == "" {
		return "", ErrNoCredential
	}
	tok, err := p.auth.Login(ctx, p.email, p.password)
	if err != nil {
		return "", eris.Wrap(err, "credential: login")
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", eris.New("credential: login returned an empty token")
	}

	p.mu.Lock()
	p.token = tok
	p.mu.Unlock()

	zap.L().Debug("credential: acquired token", zap.String("email", p.email))
	return tok, nil
}

// Expired reports whether token is a JWT whose exp claim is at or before
// now+skew. Tokens that are not JWTs, or carry no exp, never expire here;
// the backend remains the authority and answers 401.
func Expired(token string, now time.Time, skew time.Duration) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Add(skew).Before(claims.ExpiresAt.Time)
}
