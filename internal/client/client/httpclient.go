package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/client/models"
	"github.com/dmitrijs2005/medcasegen/internal/client/tokenstore"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 10 * time.Second

type HTTPClient struct {
	baseURL *url.URL
	timeout time.Duration
	base    http.RoundTripper
	store   tokenstore.Store
	nav     Navigator
	logger  logging.Logger
	http    *http.Client
}

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport sets the round tripper that performs the actual requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) { c.base = rt }
}

func WithNavigator(n Navigator) Option {
	return func(c *HTTPClient) { c.nav = n }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (for example "http://localhost:4000/api").
func NewHTTPClient(baseURL string, store tokenstore.Store, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: need http(s)://host", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		timeout: DefaultTimeout,
		base:    http.DefaultTransport,
		store:   store,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = c.newHTTP()
	return c, nil
}

// Bind returns a copy of c that reads and clears tokens in store and
// reports rejected credentials to nav. The underlying transport is shared.
func (c *HTTPClient) Bind(store tokenstore.Store, nav Navigator) *HTTPClient {
	cp := *c
	cp.store = store
	cp.nav = nav
	cp.http = cp.newHTTP()
	return &cp
}

func (c *HTTPClient) newHTTP() *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &responseGuard{
			store:  c.store,
			nav:    c.nav,
			logger: c.logger,
			next:   &authorizer{store: c.store, next: c.base},
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.login(ctx, "/auth/login", email, password)
}

func (c *HTTPClient) AdminLogin(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.login(ctx, "/auth/admin-login", email, password)
}

func (c *HTTPClient) login(ctx context.Context, path, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, path, credentials{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	if res.Session.AccessToken == "" {
		return nil, ErrMissingToken
	}

	c.store.Save(ctx, res.Session.AccessToken)
	return &res, nil
}

// Logout revokes the session on the server and clears the local token.
// The local token is cleared even when the call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		// a 401 has already cleared the store
		c.store.Clear(ctx)
	}
	return err
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email, redirectTo string) error {
	body := struct {
		Email      string `json:"email"`
		RedirectTo string `json:"redirectTo,omitempty"`
	}{Email: email, RedirectTo: redirectTo}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", body, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}{Token: token, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) (*models.User, error) {
	var res struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", r, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var res struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *HTTPClient) ListCases(ctx context.Context) ([]models.CaseSummary, error) {
	var res struct {
		Cases []models.CaseSummary `json:"cases"`
	}
	if err := c.do(ctx, http.MethodGet, "/cases", nil, &res); err != nil {
		return nil, err
	}
	return res.Cases, nil
}

func (c *HTTPClient) GetCase(ctx context.Context, id string) (*models.CaseDetail, error) {
	var res models.CaseDetail
	if err := c.do(ctx, http.MethodGet, "/cases/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StartSimulation opens a session on the case, or resumes the running one;
// created tells which.
func (c *HTTPClient) StartSimulation(ctx context.Context, caseID string) (*models.Simulation, bool, error) {
	body := struct {
		CaseID string `json:"case_id"`
	}{CaseID: caseID}

	var res models.Simulation
	status, err := c.doStatus(ctx, http.MethodPost, "/simulations/start", body, &res)
	if err != nil {
		return nil, false, err
	}
	return &res, status == http.StatusCreated, nil
}

func (c *HTTPClient) ListSimulations(ctx context.Context) ([]models.Simulation, error) {
	var res struct {
		Simulations []models.Simulation `json:"simulations"`
	}
	if err := c.do(ctx, http.MethodGet, "/simulations", nil, &res); err != nil {
		return nil, err
	}
	return res.Simulations, nil
}

func (c *HTTPClient) GetSimulation(ctx context.Context, id string) (*models.Simulation, error) {
	var res models.Simulation
	if err := c.do(ctx, http.MethodGet, "/simulations/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendMessage posts the learner's message and returns the patient's answer.
func (c *HTTPClient) SendMessage(ctx context.Context, simulationID, content string) (*models.ChatMessage, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	var res models.ChatMessage
	if err := c.do(ctx, http.MethodPost, "/simulations/"+url.PathEscape(simulationID)+"/message", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) EndSimulation(ctx context.Context, id string) (*models.Simulation, error) {
	var res models.Simulation
	if err := c.do(ctx, http.MethodPost, "/simulations/"+url.PathEscape(id)+"/end", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	_, err := c.doStatus(ctx, method, path, in, out)
	return err
}

// doStatus performs the call and returns the status of a 2xx answer.
func (c *HTTPClient) doStatus(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "api call failed", "method", method, "path", path, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readAPIError(resp)
		c.logger.Debug(ctx, "api call rejected", "method", method, "path", path, "status", resp.StatusCode)
		return resp.StatusCode, apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
