// Package apiclient is a typed Go client for the SmartCareer REST API.
//
// Every method returns either the decoded data or an *Error whose Kind tells
// the caller what went wrong. Failures the user should hear about (expired
// session, missing resource, server or network trouble) are also reported
// to the configured Notifier in the client's language.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"smartcareer-backend/pkg/i18n"
)

const (
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 32 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	notifier   Notifier
	lang       language.Tag
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLanguage sets the notice language ("ru", "en"). Russian is the default.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.lang = i18n.Parse(lang)
	}
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     NewMemoryTokenStore(),
		notifier:   nopNotifier{},
		lang:       i18n.Supported[0],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the store the client reads the bearer token from.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Meta      json.RawMessage `json:"meta"`
	RequestID string          `json:"requestId"`
}

// call describes one API request. body is JSON-encoded unless it is an
// io.Reader, in which case contentType must be set.
type call struct {
	method      string
	path        string
	query       url.Values
	body        interface{}
	contentType string
	out         interface{}
	meta        interface{}
}

func (c *Client) do(ctx context.Context, cl call) error {
	resp, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	env, err := c.decodeEnvelope(resp)
	if err != nil {
		return err
	}
	if cl.out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, cl.out); err != nil {
			return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "invalid response data", Err: err}
		}
	}
	if cl.meta != nil && len(env.Meta) > 0 && string(env.Meta) != "null" {
		if err := json.Unmarshal(env.Meta, cl.meta); err != nil {
			return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "invalid response meta", Err: err}
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, cl call) (*http.Response, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &Error{Kind: KindNetwork, Message: ctxErr.Error(), Err: ctxErr}
		}
		msg := i18n.Text(c.lang, i18n.NetworkError)
		c.notifier.Notify(Notice{Level: NoticeError, Kind: KindNetwork, Message: msg})
		return nil, &Error{Kind: KindNetwork, Message: msg, Err: err}
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	contentType := cl.contentType
	switch b := cl.body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.lang.String())
	req.Header.Set("X-Request-ID", uuid.NewString())

	creds, err := c.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}
	return req, nil
}

// decodeEnvelope reads the body and turns failures into *Error.
func (c *Client) decodeEnvelope(resp *http.Response) (*envelope, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.fail(resp.StatusCode, "", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		msg := ""
		if decodeErr == nil {
			msg = env.Error
		}
		return nil, c.fail(resp.StatusCode, msg, nil)
	}
	if decodeErr != nil {
		return nil, &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "invalid response envelope", Err: decodeErr}
	}
	if !env.Success {
		return nil, &Error{Kind: KindDecode, Status: resp.StatusCode, Message: firstNonEmpty(env.Error, "unsuccessful response")}
	}
	return &env, nil
}

// fail builds the error for a non-2xx status and applies the side effects:
// 401 drops the stored token, 401/404/5xx raise a notice.
func (c *Client) fail(status int, serverMsg string, cause error) *Error {
	kind := kindForStatus(status)

	noticeKey := ""
	switch kind {
	case KindUnauthorized:
		if err := c.tokens.Clear(); err != nil {
			cause = errors.Join(cause, err)
		}
		noticeKey = i18n.SessionExpired
	case KindNotFound:
		noticeKey = i18n.NotFound
	case KindServer:
		noticeKey = i18n.ServerError
	}

	msg := serverMsg
	if noticeKey != "" {
		notice := i18n.Text(c.lang, noticeKey)
		c.notifier.Notify(Notice{Level: NoticeError, Kind: kind, Message: notice})
		if msg == "" {
			msg = notice
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: kind, Status: status, Message: msg, Err: cause}
}

// download fetches a non-envelope payload. Failures still come back as an
// envelope and are handled like any other call.
func (c *Client) download(ctx context.Context, path string, query url.Values) (*Download, error) {
	resp, err := c.send(ctx, call{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, err := c.decodeEnvelope(resp)
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	d := &Download{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		d.Filename = params["filename"]
	}
	return d, nil
}

// Download is a file returned by the API.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
