// Package sentrichain is a client for the supplier risk backend: account
// login, the buyer onboarding profile, the supplier corpus and overview,
// recommendations, and per-supplier analysis.
package sentrichain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/resilience"
)

const defaultBaseURL = "http://localhost:8000"

// Operation names, used in errors and metrics.
const (
	OpLogin           = "login"
	OpGetProfile      = "get_profile"
	OpSaveProfile     = "save_profile"
	OpSuppliers       = "suppliers"
	OpOverview        = "overview"
	OpRecommendations = "recommendations"
	OpAnalyze         = "analyze"
)

// fallbackMessages are shown when the backend gives no detail.
var fallbackMessages = map[string]string{
	OpLogin:           "login failed",
	OpGetProfile:      "failed to load company profile",
	OpSaveProfile:     "failed to save company profile",
	OpSuppliers:       "failed to load suppliers",
	OpOverview:        "failed to load supplier overview",
	OpRecommendations: "failed to load recommendations",
	OpAnalyze:         "failed to analyze supplier",
}

// Client talks to the supplier risk backend.
type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context) (*model.OnboardProfile, error)
	SaveProfile(ctx context.Context, p model.OnboardProfile) (*model.OnboardProfile, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	Overview(ctx context.Context) (*model.SupplierOverview, error)
	Recommendations(ctx context.Context) (*model.RecommendationResponse, error)
	Analyze(ctx context.Context, supplierID int) (*model.AnalyzeResponse, error)
}

// APIError is an upstream failure. Message is the backend's detail when it
// sent one, otherwise a generic description of the failed operation.
type APIError struct {
	Op         string
	StatusCode int
	Message    string

	// Err is the transport failure when no response arrived.
	Err error
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("sentrichain: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("sentrichain: %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

// Observer receives one call per completed HTTP request. Status is 0 when
// the request never got a response.
type Observer func(op string, status int, elapsed time.Duration)

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default backend URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithCredentials sets the token source for authorized calls.
func WithCredentials(creds resilience.Credentials) Option {
	return func(c *httpClient) {
		c.creds = creds
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithObserver registers a per-request callback.
func WithObserver(o Observer) Option {
	return func(c *httpClient) {
		c.observe = o
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	creds   resilience.Credentials
	limiter *rate.Limiter
	observe Observer
}

// NewClient creates a backend client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Onboarded   bool   `json:"onboarded"`
}

func (c *httpClient) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	body := loginRequest{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}
	if _, err := c.do(ctx, OpLogin, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{Op: OpLogin, StatusCode: http.StatusOK, Message: "response carried no access token"}
	}
	return out.AccessToken, nil
}

// GetProfile returns nil, nil when the account has not onboarded yet.
func (c *httpClient) GetProfile(ctx context.Context) (*model.OnboardProfile, error) {
	return authorized(ctx, c, OpGetProfile, func(ctx context.Context, token string) (*model.OnboardProfile, error) {
		var p model.OnboardProfile
		status, err := c.do(ctx, OpGetProfile, http.MethodGet, "/auth/onboard", token, nil, &p)
		if status == http.StatusNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func (c *httpClient) SaveProfile(ctx context.Context, p model.OnboardProfile) (*model.OnboardProfile, error) {
	return authorized(ctx, c, OpSaveProfile, func(ctx context.Context, token string) (*model.OnboardProfile, error) {
		var saved model.OnboardProfile
		if _, err := c.do(ctx, OpSaveProfile, http.MethodPost, "/auth/onboard", token, p, &saved); err != nil {
			return nil, err
		}
		return &saved, nil
	})
}

type suppliersResponse struct {
	Suppliers []model.Supplier `json:"suppliers"`
	Count     int              `json:"count"`
}

func (c *httpClient) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return authorized(ctx, c, OpSuppliers, func(ctx context.Context, token string) ([]model.Supplier, error) {
		var out suppliersResponse
		if _, err := c.do(ctx, OpSuppliers, http.MethodGet, "/api/suppliers", token, nil, &out); err != nil {
			return nil, err
		}
		if out.Suppliers == nil {
			out.Suppliers = []model.Supplier{}
		}
		return out.Suppliers, nil
	})
}

func (c *httpClient) Overview(ctx context.Context) (*model.SupplierOverview, error) {
	return authorized(ctx, c, OpOverview, func(ctx context.Context, token string) (*model.SupplierOverview, error) {
		var out model.SupplierOverview
		if _, err := c.do(ctx, OpOverview, http.MethodGet, "/api/suppliers-overview", token, nil, &out); err != nil {
			return nil, err
		}
		out.Link()
		return &out, nil
	})
}

func (c *httpClient) Recommendations(ctx context.Context) (*model.RecommendationResponse, error) {
	return authorized(ctx, c, OpRecommendations, func(ctx context.Context, token string) (*model.RecommendationResponse, error) {
		var out model.RecommendationResponse
		if _, err := c.do(ctx, OpRecommendations, http.MethodGet, "/api/recommend", token, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *httpClient) Analyze(ctx context.Context, supplierID int) (*model.AnalyzeResponse, error) {
	return authorized(ctx, c, OpAnalyze, func(ctx context.Context, token string) (*model.AnalyzeResponse, error) {
		var out model.AnalyzeResponse
		path := fmt.Sprintf("/api/suppliers/%d/analyze", supplierID)
		if _, err := c.do(ctx, OpAnalyze, http.MethodGet, path, token, nil, &out); err != nil {
			return nil, err
		}
		if out.SupplierID == 0 {
			out.SupplierID = supplierID
		}
		return &out, nil
	})
}

// authorized runs fn under the credential refresh policy. Without
// configured credentials fn runs once with no token.
func authorized[T any](ctx context.Context, c *httpClient, op string, fn func(context.Context, string) (T, error)) (T, error) {
	if c.creds == nil {
		return fn(ctx, "")
	}
	return resilience.WithCredential(ctx, c.creds, "sentrichain: "+op, fn)
}

// do sends one request and decodes a 2xx JSON body into out. It returns the
// response status (0 if none) alongside any error.
func (c *httpClient) do(ctx context.Context, op, method, path, token string, in, out any) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, eris.Wrapf(err, "sentrichain: %s: rate limit wait", op)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, eris.Wrapf(err, "sentrichain: %s: marshal request", op)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, eris.Wrapf(err, "sentrichain: %s: create request", op)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.report(op, 0, start)
		return 0, resilience.NewTransientError(&APIError{Op: op, Message: fallbackMessages[op], Err: err}, 0)
	}
	defer resp.Body.Close() //nolint:errcheck
	c.report(op, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, eris.Wrapf(err, "sentrichain: %s: read response", op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(op, resp.StatusCode, respBody)
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, eris.Wrapf(err, "sentrichain: %s: unmarshal response", op)
		}
	}
	return resp.StatusCode, nil
}

func (c *httpClient) report(op string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(op, status, time.Since(start))
	}
}

// statusError builds the error for a non-2xx response. 401 is wrapped as
// an authorization failure; 408, 429, and 5xx as transient.
func statusError(op string, status int, body []byte) error {
	msg := detail(body)
	if msg == "" {
		msg = fallbackMessages[op]
	}
	apiErr := &APIError{Op: op, StatusCode: status, Message: msg}

	switch {
	case status == http.StatusUnauthorized:
		return resilience.NewUnauthorizedError(apiErr)
	case resilience.IsTransientHTTPStatus(status):
		return resilience.NewTransientError(apiErr, status)
	default:
		return apiErr
	}
}

// detail extracts the backend's "detail" field. It is either a string or a
// list of validation errors with "msg" fields.
func detail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// Message returns the user-facing message of err: the APIError message
// when err wraps one, otherwise err's own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
