// Package client implements the authenticated HTTP surface for the remote
// player API.
//
// The client is stateless with respect to retry policy: it performs exactly
// one request per call, attaches the current bearer token, and classifies the
// outcome with a [Tag]. Recognizing an expired token and mapping it to
// [TagExpired] happens here so no business logic ever inspects the raw 401
// payload; the refresh-and-retry protocol itself belongs to the player
// package.
//
// Requests are paced with a [rate.Limiter] to stay under the service's rate
// limits even when the cache layer above is bypassed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the versioned base path of the remote player API.
const DefaultBaseURL = "https://api.spotify.com"

// Tag classifies a remote response.
type Tag int

const (
	TagOK      Tag = iota // 2xx with a usable body
	TagExpired            // Authorization failure with the expired-token signature
	TagError              // Any other failure, including transport errors
)

func (t Tag) String() string {
	switch t {
	case TagOK:
		return "ok"
	case TagExpired:
		return "expired"
	default:
		return "error"
	}
}

// Response is the classified result of one remote call. Produced fresh per
// call and never persisted.
type Response struct {
	StatusCode int
	Tag        Tag
	Body       json.RawMessage
	Err        error // Transport-level cause when Tag is TagError, else nil
}

// Decode unmarshals the response body into target.
func (r *Response) Decode(target any) error {
	if len(r.Body) == 0 {
		return shared.ErrAPIRequest
	}
	return json.Unmarshal(r.Body, target)
}

// apiError is the error envelope the service wraps failures in.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client issues authenticated requests against the remote player API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *auth.Store
	limiter    *rate.Limiter
	logger     *log.Logger
}

// New creates a Client reading bearer tokens from creds.
//
// baseURL defaults to [DefaultBaseURL] and httpClient to
// [http.DefaultClient].
func New(baseURL string, httpClient *http.Client, creds *auth.Store, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		creds:      creds,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		logger:     logger,
	}
}

// Get performs a GET request against path with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) *Response {
	return c.do(ctx, http.MethodGet, path, nil, query)
}

// Put performs a PUT request with a JSON-encoded body.
func (c *Client) Put(ctx context.Context, path string, body any, query url.Values) *Response {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Response{Tag: TagError, Err: err}
		}
		payload = encoded
	}
	return c.do(ctx, http.MethodPut, path, payload, query)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, query url.Values) *Response {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Response{Tag: TagError, Err: err}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return &Response{Tag: TagError, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.creds.Get().AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return &Response{Tag: TagError, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Response{StatusCode: resp.StatusCode, Tag: TagError, Err: err}
	}

	result := &Response{StatusCode: resp.StatusCode, Body: raw, Tag: classify(resp.StatusCode, raw)}
	c.logger.Debug("remote call", "method", method, "path", path, "status", resp.StatusCode, "tag", result.Tag)
	return result
}

// classify maps a status code and body to a [Tag]. The expired-token
// signature is a 401 whose error message mentions expiry.
func classify(status int, body []byte) Tag {
	if status >= 200 && status < 300 {
		return TagOK
	}

	if status == http.StatusUnauthorized {
		var envelope apiError
		if err := json.Unmarshal(body, &envelope); err == nil {
			if strings.Contains(strings.ToLower(envelope.Error.Message), "expired") {
				return TagExpired
			}
		}
	}

	return TagError
}
