package resilience

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Credentials is the credential capability used by WithCredential.
type Credentials interface {
	// Current returns the active token, acquiring one if none is cached.
	Current(ctx context.Context) (string, error)
	// Invalidate discards the cached token.
	Invalidate()
	// Refresh acquires a new token.
	Refresh(ctx context.Context) (string, error)
}

// WithCredential runs fn with the current token. If fn fails with an
// authorization error, the credential is invalidated once, refreshed, and
// fn is retried exactly once. A second authorization failure is returned
// as a terminal UnauthorizedError. Other errors are returned unchanged.
func WithCredential[T any](ctx context.Context, creds Credentials, op string, fn func(ctx context.Context, token string) (T, error)) (T, error) {
	var zero T

	token, err := creds.Current(ctx)
	if err != nil {
		return zero, eris.Wrapf(err, "%s: acquire credential", op)
	}

	val, err := fn(ctx, token)
	if err == nil || !IsUnauthorized(err) {
		return val, err
	}

	zap.L().Warn("credential rejected, refreshing once",
		zap.String("operation", op),
		zap.Error(err),
	)
	creds.Invalidate()

	token, rerr := creds.Refresh(ctx)
	if rerr != nil {
		return zero, &UnauthorizedError{Err: eris.Wrapf(rerr, "%s: refresh credential", op), Terminal: true}
	}

	val, err = fn(ctx, token)
	if err != nil && IsUnauthorized(err) {
		return zero, &UnauthorizedError{Err: err, Terminal: true}
	}
	return val, err
}
