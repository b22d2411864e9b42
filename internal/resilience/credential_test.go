package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreds struct {
	token       string
	currentErr  error
	refreshErr  error
	invalidated int
	refreshed   int
}

func (f *fakeCreds) Current(context.Context) (string, error) {
	return f.token, f.currentErr
}

func (f *fakeCreds) Invalidate() { f.invalidated++ }

func (f *fakeCreds) Refresh(context.Context) (string, error) {
	f.refreshed++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.token = "fresh"
	return f.token, nil
}

func TestWithCredential_Success(t *testing.T) {
	creds := &fakeCreds{token: "t1"}
	calls := 0

	v, err := WithCredential(context.Background(), creds, "test", func(_ context.Context, tok string) (string, error) {
		calls++
		return "ok:" + tok, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok:t1", v)
	assert.Equal(t, 1, calls)
	assert.Zero(t, creds.invalidated)
}

func TestWithCredential_RetriesOnceAfterRefresh(t *testing.T) {
	creds := &fakeCreds{token: "stale"}
	var seen []string

	v, err := WithCredential(context.Background(), creds, "test", func(_ context.Context, tok string) (int, error) {
		seen = append(seen, tok)
		if tok == "stale" {
			return 0, NewUnauthorizedError(errors.New("401"))
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, []string{"stale", "fresh"}, seen)
	assert.Equal(t, 1, creds.invalidated)
	assert.Equal(t, 1, creds.refreshed)
}

func TestWithCredential_SecondFailureIsTerminal(t *testing.T) {
	creds := &fakeCreds{token: "stale"}
	calls := 0

	_, err := WithCredential(context.Background(), creds, "test", func(context.Context, string) (int, error) {
		calls++
		return 0, NewUnauthorizedError(errors.New("401"))
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, IsTerminalUnauthorized(err))
	assert.Equal(t, 1, creds.invalidated)
}

func TestWithCredential_RefreshFailure(t *testing.T) {
	creds := &fakeCreds{token: "stale", refreshErr: errors.New("bad password")}
	calls := 0

	_, err := WithCredential(context.Background(), creds, "test", func(context.Context, string) (int, error) {
		calls++
		return 0, NewUnauthorizedError(errors.New("401"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, IsTerminalUnauthorized(err))
	assert.Contains(t, err.Error(), "bad password")
}

func TestWithCredential_OtherErrorsNotRetried(t *testing.T) {
	creds := &fakeCreds{token: "t"}
	calls := 0
	boom := errors.New("500")

	_, err := WithCredential(context.Background(), creds, "test", func(context.Context, string) (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Zero(t, creds.invalidated)
}

func TestWithCredential_NoCredential(t *testing.T) {
	creds := &fakeCreds{currentErr: errors.New("no login configured")}

	_, err := WithCredential(context.Background(), creds, "profile", func(context.Context, string) (int, error) {
		t.Fatal("fn must not run")
		return 0, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile: acquire credential")
}
