package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/credential"
	"github.com/sells-group/sourcing-cli/internal/db"
	"github.com/sells-group/sourcing-cli/internal/history"
	"github.com/sells-group/sourcing-cli/internal/material"
	"github.com/sells-group/sourcing-cli/internal/monitoring"
	"github.com/sells-group/sourcing-cli/internal/resilience"
	"github.com/sells-group/sourcing-cli/internal/session"
	"github.com/sells-group/sourcing-cli/internal/store"
	"github.com/sells-group/sourcing-cli/pkg/sentrichain"
)

// sessionEnv holds the store, backend client and session used by the
// commands that talk to the backend.
type sessionEnv struct {
	Store    store.Store
	Client   sentrichain.Client
	Session  *session.Session
	Recorder *monitoring.Recorder
}

// Close releases resources held by the environment.
func (e *sessionEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

// initStore opens the configured key-value store.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, store.Options{
		Driver: cfg.Store.Driver,
		DSN:    cfg.Store.DatabaseURL,
		Pool: &db.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		},
		Redis: store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// initHistory wraps st with the configured history settings.
func initHistory(st store.Store) *history.Store {
	return history.New(st,
		history.WithKey(cfg.History.Key),
		history.WithCapacity(cfg.History.Capacity),
	)
}

// initClient builds the backend client with its credential provider. A
// configured token takes precedence over email and password.
func initClient(rec *monitoring.Recorder) sentrichain.Client {
	opts := []sentrichain.Option{
		sentrichain.WithBaseURL(cfg.Backend.BaseURL),
		sentrichain.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second}),
		sentrichain.WithRateLimit(cfg.Backend.RateLimitRPS, cfg.Backend.RateLimitBurst),
		sentrichain.WithObserver(rec.ObserveUpstream),
	}

	// Login itself carries no token, so the unauthenticated client serves
	// as the login provider's authenticator.
	auth := sentrichain.NewClient(opts...)

	var creds resilience.Credentials
	if cfg.Backend.Token != "" {
		creds = credential.NewStatic(cfg.Backend.Token)
	} else {
		creds = credential.NewLogin(auth, cfg.Backend.Email, cfg.Backend.Password)
	}
	return sentrichain.NewClient(append(opts, sentrichain.WithCredentials(creds))...)
}

// initSession sets up the store, backend client and session. Callers should
// defer env.Close().
func initSession(ctx context.Context) (*sessionEnv, error) {
	if err := cfg.Validate("backend"); err != nil {
		return nil, err
	}

	idx, err := material.Load(cfg.Materials.OverridePath)
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	rec := monitoring.NewRecorder()
	client := initClient(rec)
	sess := session.New(client, st,
		session.WithIndex(idx),
		session.WithHistory(initHistory(st)),
		session.WithRecorder(rec),
		session.WithLimit(cfg.Recommend.Limit),
		session.WithLocalScoring(cfg.Recommend.Local),
	)

	zap.L().Debug("session ready",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("store", cfg.Store.Driver),
		zap.Int("materials", idx.Len()),
	)
	return &sessionEnv{Store: st, Client: client, Session: sess, Recorder: rec}, nil
}
