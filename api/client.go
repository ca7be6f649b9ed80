package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	Logger "github.com/debatify/debatify-go/utils/log"
)

const DefaultTimeout = 10 * time.Second

// TokenSource yields the current bearer token, empty when logged out. The
// session store implements this; the client never persists tokens itself.
type TokenSource interface {
	Token() string
}

// Client is a thin wrapper over a resty client bound to the API base URL.
// It attaches the bearer token on every call that has one available and
// translates non-2xx responses into *Error with the server message passed
// through verbatim.
type Client struct {
	rc     *resty.Client
	tokens TokenSource
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc, tokens: tokens}
}

// SetTimeout overrides the default request timeout for all subsequent calls.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.rc.SetTimeout(d)
	return c
}

func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

type requestConfig struct {
	query   url.Values
	timeout time.Duration
}

type RequestOption func(*requestConfig)

// WithQuery appends a query parameter to the request URL.
func WithQuery(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.query == nil {
			rc.query = url.Values{}
		}
		rc.query.Set(key, value)
	}
}

// WithTimeout bounds a single call tighter than the client default. Call
// sites observed between 5s (polls, search) and 15s (uploads).
func WithTimeout(d time.Duration) RequestOption {
	return func(rc *requestConfig) {
		rc.timeout = d
	}
}

func (c *Client) Get(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, opts ...RequestOption) error {
	cfg := requestConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	req := c.rc.R().SetContext(ctx)
	if tok := c.token(); tok != "" {
		req.SetHeader("Authorization", "Bearer "+tok)
	}
	if len(cfg.query) > 0 {
		req.SetQueryParamsFromValues(cfg.query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if isTimeoutError(err) {
			return &Error{Timeout: true}
		}
		return errors.Wrapf(err, "%s %s failed", method, path)
	}

	if resp.IsError() {
		return &Error{
			StatusCode: resp.StatusCode(),
			Message:    serverMessage(resp.Body()),
		}
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			Logger.LogV2.Error("undecodable response body from " + path)
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return os.IsTimeout(err)
}

// serverMessage pulls the conventional {"message": "..."} field out of an
// error body. Anything else is treated as an empty message.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
