package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/resilience"
)

var _ resilience.Credentials = (*LoginProvider)(nil)
var _ resilience.Credentials = (*StaticProvider)(nil)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "buyer@example.com",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

type fakeAuth struct {
	tokens []string
	err    error
	calls  int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if email != "buyer@example.com" || password != "pw" {
		return "", errors.New("bad credentials")
	}
	tok := f.tokens[0]
	if len(f.tokens) > 1 {
		f.tokens = f.tokens[1:]
	}
	return tok, nil
}

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	p := NewStatic(" abc ")
	tok, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	p.Invalidate()
	tok, err = p.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = NewStatic("").Current(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestLoginProvider_CachesToken(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{tokens: []string{"opaque-1", "opaque-2"}}
	p := NewLogin(auth, "buyer@example.com", "pw")

	tok, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-1", tok)

	tok, err = p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-1", tok)
	assert.Equal(t, 1, auth.calls)

	p.Invalidate()
	tok, err = p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-2", tok)
	assert.Equal(t, 2, auth.calls)
}

func TestLoginProvider_ExpiredTokenIsAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := signed(t, now.Add(-time.Minute))
	fresh := signed(t, now.Add(time.Hour))

	auth := &fakeAuth{tokens: []string{fresh}}
	p := NewLogin(auth, "buyer@example.com", "pw",
		WithToken(stale),
		WithClock(func() time.Time { return now }),
	)

	tok, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, tok)
	assert.Equal(t, 1, auth.calls)
}

func TestLoginProvider_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewLogin(&fakeAuth{}, "", "").Refresh(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = NewLogin(&fakeAuth{err: errors.New("invalid credentials")}, "buyer@example.com", "pw").Current(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential: login")

	_, err = NewLogin(&fakeAuth{tokens: []string{" "}}, "buyer@example.com", "pw").Current(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty token")
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		skew  time.Duration
		want  bool
	}{
		{"opaque", "not-a-jwt", 0, false},
		{"future", signed(t, now.Add(time.Hour)), 0, false},
		{"past", signed(t, now.Add(-time.Second)), 0, true},
		{"inside skew", signed(t, now.Add(10*time.Second)), 30 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expired(tt.token, now, tt.skew))
		})
	}
}
