package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TokenSource supplies the stored bearer token, empty when unauthenticated.
// The session store implements it.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	APIURL      string
	LoginAPIURL string
	BotAPIURL   string
	HospitalID  string
	Timeout     time.Duration
	Tokens      TokenSource
	Logger      zerolog.Logger

	// OnUnauthorized fires once per 401 response (expired or revoked token);
	// the caller is expected to clear the session. OnForbidden fires on 403.
	OnUnauthorized func()
	OnForbidden    func()
}

// Client issues requests against the three MedSyn base URLs with normalized
// headers and errors. It is safe for concurrent use.
type Client struct {
	apiBase        string
	loginBase      string
	botBase        string
	hospitalID     string
	tokens         TokenSource
	http           *http.Client
	log            zerolog.Logger
	onUnauthorized func()
	onForbidden    func()
}

func New(opts Options) *Client {
	loginBase := opts.LoginAPIURL
	if loginBase == "" {
		loginBase = opts.APIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiBase:        strings.TrimRight(opts.APIURL, "/"),
		loginBase:      strings.TrimRight(loginBase, "/"),
		botBase:        strings.TrimRight(opts.BotAPIURL, "/"),
		hospitalID:     opts.HospitalID,
		tokens:         opts.Tokens,
		http:           &http.Client{Timeout: timeout},
		log:            opts.Logger,
		onUnauthorized: opts.OnUnauthorized,
		onForbidden:    opts.OnForbidden,
	}
}

type baseURL int

const (
	businessAPI baseURL = iota
	loginAPI
	botAPI
)

func (c *Client) url(base baseURL, endpoint string) string {
	switch base {
	case loginAPI:
		return c.loginBase + "/" + endpoint
	case botAPI:
		return c.botBase + "/" + endpoint
	default:
		return c.apiBase + "/" + endpoint
	}
}

// do issues one request and returns the raw body. Failures of any kind come
// back as *APIError; the central 401/403 interception happens here.
func (c *Client) do(ctx context.Context, method string, base baseURL, endpoint string, headers http.Header, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(base, endpoint), body)
	if err != nil {
		return nil, normalizeTransportError(endpoint, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("request failed")
		return nil, normalizeTransportError(endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalizeTransportError(endpoint, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case http.StatusForbidden:
		if c.onForbidden != nil {
			c.onForbidden()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, normalizeStatusError(endpoint, resp.StatusCode, raw)
	}
	return raw, nil
}

func (c *Client) request(ctx context.Context, method string, base baseURL, endpoint string, headers http.Header, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode request: %v", err), Endpoint: endpoint, Err: err}
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, base, endpoint, headers, body)
}

func decode[T any](endpoint string, raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &APIError{Message: fmt.Sprintf("decode response: %v", err), Endpoint: endpoint, Err: err}
	}
	return out, nil
}

// Get issues an authenticated GET against the business API.
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	raw, err := c.do(ctx, http.MethodGet, businessAPI, endpoint, c.AuthHeaders(), nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// Post issues an authenticated POST against the business API.
func Post[T any](ctx context.Context, c *Client, endpoint string, payload any) (T, error) {
	raw, err := c.request(ctx, http.MethodPost, businessAPI, endpoint, c.AuthHeaders(), payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// PostNoAuth issues an unauthenticated POST against the business API.
func PostNoAuth[T any](ctx context.Context, c *Client, endpoint string, payload any) (T, error) {
	raw, err := c.request(ctx, http.MethodPost, businessAPI, endpoint, c.BaseHeaders(), payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// Delete issues an authenticated DELETE against the business API.
func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	raw, err := c.do(ctx, http.MethodDelete, businessAPI, endpoint, c.AuthHeaders(), nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// GetLogin issues an authenticated GET against the login API.
func GetLogin[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	raw, err := c.do(ctx, http.MethodGet, loginAPI, endpoint, c.AuthHeaders(), nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// PostLogin issues an authenticated POST against the login API.
func PostLogin[T any](ctx context.Context, c *Client, endpoint string, payload any) (T, error) {
	raw, err := c.request(ctx, http.MethodPost, loginAPI, endpoint, c.AuthHeaders(), payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// PostLoginNoAuth issues an unauthenticated POST against the login API.
// Signin itself goes through here.
func PostLoginNoAuth[T any](ctx context.Context, c *Client, endpoint string, payload any) (T, error) {
	raw, err := c.request(ctx, http.MethodPost, loginAPI, endpoint, c.BaseHeaders(), payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](endpoint, raw)
}

// PostMultipart issues an authenticated multipart POST against the business API.
func PostMultipart[T any](ctx context.Context, c *Client, endpoint string, form *MultipartForm) (T, error) {
	return postMultipart[T](ctx, c, businessAPI, endpoint, form)
}

// PostBotMultipart issues an authenticated multipart POST against the bot API.
func PostBotMultipart[T any](ctx context.Context, c *Client, endpoint string, form *MultipartForm) (T, error) {
	return postMultipart[T](ctx, c, botAPI, endpoint, form)
}

func postMultipart[T any](ctx context.Context, c *Client, base baseURL, endpoint string, form *MultipartForm) (T, error) {
	var zero T
	body, contentType, err := form.Encode()
	if err != nil {
		return zero, &APIError{Message: fmt.Sprintf("encode multipart body: %v", err), Endpoint: endpoint, Err: err}
	}

	// Header builder leaves Content-Type out; the boundary-bearing value is
	// set here, at the transport edge, the way the browser did it for the SPA.
	headers := c.MultipartHeaders()
	headers.Set("Content-Type", contentType)

	raw, err := c.do(ctx, http.MethodPost, base, endpoint, headers, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	return decode[T](endpoint, raw)
}
