// Package apiclient talks to the KickZone REST backend on behalf of a signed-in operator.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const maxErrorBody = 64 << 10

// Observer receives one call per upstream round trip.
type Observer interface {
	ObserveUpstream(method, path string, status int, elapsed time.Duration)
}

// Request describes one backend call. Path is relative to the base URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
}

// Client sends authenticated requests to the backend. The bearer token comes
// from the TokenStore bound to the request context.
type Client struct {
	baseURL  string
	http     *http.Client
	refresh  *http.Client
	logger   *slog.Logger
	observer Observer
	mutated  []MutationHook
	group    singleflight.Group
}

// MutationHook runs after a state-changing call (any method but GET, HEAD
// and OPTIONS) succeeded. Authentication calls under /auth/ are excluded.
type MutationHook func(ctx context.Context, method, path string)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the client used for intercepted calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRefreshClient replaces the bare client used for token refresh.
func WithRefreshClient(hc *http.Client) Option {
	return func(c *Client) { c.refresh = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithObserver reports every upstream call to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithMutationHook adds fn to the hooks run after successful mutations.
func WithMutationHook(fn MutationHook) Option {
	return func(c *Client) { c.mutated = append(c.mutated, fn) }
}

// New builds a Client for baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		refresh: &http.Client{Timeout: timeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root all paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req with the stored bearer token. A 401 triggers one refresh with
// the stored refresh token followed by one retry with the new access token.
// When no refresh is possible the session keys are cleared and a
// *SessionExpiredError is returned, also when the store held no access
// token. Non-2xx responses become *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		buf, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: buffer body: %w", err)
		}
		body = buf
	}

	store := TokensFromContext(ctx)
	token := ""
	if store != nil {
		token = store.Get(KeyToken)
	}

	resp, err := c.send(ctx, req, body, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return c.finish(ctx, req, resp)
	}

	// A 401 from the auth endpoints is a rejected credential, not an
	// expired session.
	original := readAPIError(resp)
	if store == nil || isAuthPath(req.Path) {
		return nil, original
	}

	if refreshToken := store.Get(KeyRefreshToken); refreshToken != "" {
		fresh, err := c.refreshAccessToken(ctx, refreshToken)
		if err == nil && fresh != "" {
			store.Set(KeyToken, fresh)
			retry, err := c.send(ctx, req, body, fresh)
			if err != nil {
				return nil, err
			}
			return c.finish(ctx, req, retry)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("token refresh failed", slog.Any("error", err))
	}

	ClearSession(store)
	if counter, ok := c.observer.(interface{ SessionExpired() }); ok {
		counter.SessionExpired()
	}
	return nil, &SessionExpiredError{Err: original}
}

// finish checks the status and runs the mutation hooks on success.
func (c *Client) finish(ctx context.Context, req Request, resp *http.Response) (*http.Response, error) {
	resp, err := checkStatus(resp)
	if err != nil {
		return nil, err
	}
	if len(c.mutated) > 0 && isMutation(req) {
		for _, fn := range c.mutated {
			fn(ctx, req.Method, req.Path)
		}
	}
	return resp, nil
}

func isMutation(req Request) bool {
	switch req.Method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return !isAuthPath(req.Path)
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(strings.TrimPrefix(path, "/"), "auth/")
}

func (c *Client) send(ctx context.Context, req Request, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path, req.Query), reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.observer != nil {
		c.observer.ObserveUpstream(req.Method, req.Path, status, elapsed)
	}
	c.logger.Debug("api request", "method", req.Method, "path", req.Path, "status", status, "elapsed", elapsed)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", req.Method, req.Path, err)
	}
	return resp, nil
}

type refreshPayload struct {
	Token string `json:"token"`
}

// refreshAccessToken exchanges a refresh token for a new access token.
// Concurrent callers holding the same refresh token share one backend call.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	ch := c.group.DoChan(refreshToken, func() (interface{}, error) {
		return c.postRefresh(context.WithoutCancel(ctx), refreshToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) postRefresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(refreshPayload{Token: refreshToken})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/auth/refresh", nil), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.refresh.Do(httpReq)
	if c.observer != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.observer.ObserveUpstream(http.MethodPost, "/auth/refresh", status, time.Since(start))
	}
	if err != nil {
		return "", fmt.Errorf("apiclient: refresh: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", newAPIError(resp.StatusCode, body)
	}
	var out refreshPayload
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("apiclient: decode refresh: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("apiclient: refresh returned no token")
	}
	return out.Token, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func checkStatus(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}
	return nil, readAPIError(resp)
}

func readAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newAPIError(resp.StatusCode, body)
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON issues a POST with in encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, in, out)
}

// PutJSON issues a PUT with in encoded as JSON.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, in, out)
}

// PatchJSON issues a PATCH; in may be nil.
func (c *Client) PatchJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, in, out)
}

// Delete issues a DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetRaw issues a GET and returns the undecoded body.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s: %w", path, err)
	}
	return data, nil
}

// SendMultipart submits form with the given method.
func (c *Client) SendMultipart(ctx context.Context, method, path string, form *MultipartForm, out any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: bytes.NewReader(body), ContentType: contentType})
	if err != nil {
		return err
	}
	return decodeBody(resp, path, out)
}

// Blob is a binary download. The caller closes Body.
type Blob struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// GetBlob downloads a binary resource.
func (c *Client) GetBlob(ctx context.Context, path string) (*Blob, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return &Blob{Body: resp.Body, ContentType: resp.Header.Get("Content-Type"), ContentLength: resp.ContentLength}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req := Request{Method: method, Path: path, Query: query}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", path, err)
		}
		req.Body = bytes.NewReader(payload)
		req.ContentType = "application/json"
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return decodeBody(resp, path, out)
}

func decodeBody(resp *http.Response, path string, out any) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read %s: %w", path, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("apiclient: decode %s: %w", path, err)
	}
	return nil
}
