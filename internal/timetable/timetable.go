package timetable

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
)

const (
	DefaultBaseURL    = "https://timetableapi.ptv.vic.gov.au"
	DefaultAPIVersion = "v3"
	DefaultTimeout    = 30 * time.Second

	userAgent    = "ptv-mcp-go"
	maxBodyBytes = 16 << 20
)

// Client issues signed GET requests against the PTV Timetable API
// It holds no mutable state and is safe for concurrent use
type Client struct {
	baseURL    string
	apiVersion string
	devID      string
	devKey     string
	httpClient *http.Client
}

// NewClient creates a new timetable client
// Empty baseURL/apiVersion and a non-positive timeout fall back to the defaults
func NewClient(baseURL, apiVersion, devID, devKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		devID:      devID,
		devKey:     devKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CloseIdleConnections drops pooled keep-alive connections
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Path joins the API version and the escaped path segments, e.g. Path("search", "Flinders St")
// gives "/v3/search/Flinders%20St"
func (c *Client) Path(segments ...string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(c.apiVersion)
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// Sign computes the request signature: uppercase hex HMAC-SHA1 of path+query keyed by the developer key
func Sign(key, request string) string {
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(request))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// SignedURL returns the full request URL with devid and signature appended
// The signed string is exactly the path and query that get sent
func (c *Client) SignedURL(path string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("devid", c.devID)

	request := path + "?" + q.Encode()
	return c.baseURL + request + "&signature=" + Sign(c.devKey, request)
}

// Get fetches path and decodes the JSON body into out
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.fetch(ctx, path, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Upstream("", http.StatusOK, "malformed response body", err)
	}
	return nil
}

// GetRaw fetches path and returns the body untouched, after checking it is JSON
func (c *Client) GetRaw(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	body, err := c.fetch(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, apperr.Upstream("", http.StatusOK, "malformed response body", nil)
	}
	return json.RawMessage(body), nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SignedURL(path, params), nil)
	if err != nil {
		return nil, apperr.Upstream("", 0, "building request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("PTV request failed")
		return nil, apperr.Upstream("", 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(start).String()).
		Msg("PTV request")

	if err != nil {
		return nil, apperr.Upstream("", resp.StatusCode, "reading response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}

// statusError maps a non-2xx response onto the error taxonomy, keeping upstream's message
func statusError(status int, body []byte) error {
	var errResp ErrorResponse
	message := ""
	if json.Unmarshal(body, &errResp) == nil {
		message = errResp.Message
	}

	if status == http.StatusNotFound {
		if message == "" {
			message = "resource not found"
		}
		return &apperr.Error{Kind: apperr.KindNotFound, Status: status, Message: message}
	}

	text := fmt.Sprintf("HTTP %d", status)
	if message != "" {
		text += ": " + message
	}
	return apperr.Upstream("", status, text, nil)
}

// StatusCode returns the upstream HTTP status carried by err, or 0
func StatusCode(err error) int {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Message returns the upstream message carried by err
func Message(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
