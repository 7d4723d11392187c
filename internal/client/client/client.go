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
	"strings"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
)

// Client talks to one microblog server. It is safe for concurrent use once
// the token is set.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}

	c := &Client{baseURL: u, http: &http.Client{Timeout: timeout}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

// HTTPClient exposes the transport, e.g. for uploads to presigned URLs.
func (c *Client) HTTPClient() *http.Client { return c.http }

type envelope struct {
	Error bool            `json:"error"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
	User  json.RawMessage `json:"user"`
}

// do sends one request and returns the decoded envelope of a successful
// response. path segments must already be escaped.
func (c *Client) do(ctx context.Context, method, path string, auth bool, body any) (*envelope, error) {
	if auth && c.token == "" {
		return nil, ErrNotLoggedIn
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 || env.Error {
		return nil, &APIError{Status: resp.StatusCode, Msg: env.Msg}
	}
	return &env, nil
}

// decodeData unmarshals the data member into dst.
func decodeData(env *envelope, dst any) error {
	if len(env.Data) == 0 {
		return errors.New("response has no data")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
