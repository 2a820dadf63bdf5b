// Package client is the configured handle to the FinanceHub backend. Every
// service talks to the backend through one Client, which carries the service
// URL, the public API key and the current session token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"financehub/entities"

	"github.com/pkg/errors"
)

const (
	dialTimeout = 10 * time.Second
	reqTimeout  = 30 * time.Second
)

// ErrNotConfigured is returned by every call on a client built without a
// service URL or API key.
var ErrNotConfigured = errors.New("remote data client is not configured")

type Config struct {
	URL    string
	APIKey string
	// HTTPClient replaces the default transport; its RoundTripper is wrapped
	// so the API key and session headers are still set.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu      sync.RWMutex
	session *entities.Session
}

// New never fails: missing settings yield a client whose calls all return
// ErrNotConfigured.
func New(cfg Config) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
	}

	base := cfg.HTTPClient
	if base == nil {
		netDialer := &net.Dialer{Timeout: dialTimeout}
		base = &http.Client{
			Transport: &http.Transport{DialContext: netDialer.DialContext},
			Timeout:   reqTimeout,
		}
	}
	underlying := base.Transport
	if underlying == nil {
		underlying = http.DefaultTransport
	}
	c.http = &http.Client{
		Transport: &authenticatedTransport{client: c, underlyingTransport: underlying},
		Timeout:   base.Timeout,
	}
	return c
}

// Configured reports whether both the URL and the API key were supplied.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) SetSession(s *entities.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Session returns the current session or nil.
func (c *Client) Session() *entities.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) ClearSession() {
	c.SetSession(nil)
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

type authenticatedTransport struct {
	client              *Client
	underlyingTransport http.RoundTripper
}

// RoundTrip adds the API key and, when signed in, the bearer token.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("apikey", t.client.apiKey)
	if token := t.client.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.underlyingTransport.RoundTrip(req)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// RPC invokes a named server-side procedure.
func (c *Client) RPC(ctx context.Context, name string, params, out interface{}) error {
	return c.Post(ctx, "/rest/v1/rpc/"+name, params, out)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s %s response", method, path)
	}

	if resp.StatusCode >= 400 {
		return handleAPIError(resp, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s data", method, path)
	}
	return nil
}
