package pharmacy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/dsg/pharmacy-finder/library/log"
)

const (
	searchPath          = "/api/direction/search"
	directionPathPrefix = "/api/direction/"
	// logBodyLimit caps the number of response bytes logged for debugging.
	logBodyLimit = 4096
	// maxBodyBytes bounds how much of a backend response is read.
	maxBodyBytes = 1 << 20

	opSearch  = "search pharmacies"
	opResolve = "resolve direction"
)

// Option configures the Client instance.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used to reach the backend.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout sets a request timeout. Without it requests never time out.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			cloned := *c.client
			cloned.Timeout = timeout
			c.client = &cloned
		}
	}
}

// WithLogger overrides the logger used when no contextual logger is present.
func WithLogger(logger logSDK.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDirectHosts sets the hosts whose direction URLs open without resolving.
func WithDirectHosts(hosts []string) Option {
	return func(c *Client) {
		if len(hosts) == 0 {
			return
		}
		c.directHosts = append([]string(nil), hosts...)
	}
}

// Client talks to the pharmacy recommendation backend.
type Client struct {
	baseURL     *url.URL
	client      *http.Client
	directHosts []string
	logger      logSDK.Logger
}

// NewClient builds a Client for the backend at baseURL, which must be an
// absolute http(s) URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("pharmacy backend base url is not configured")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pharmacy backend base url %q", baseURL)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, errors.Errorf("pharmacy backend base url must be an absolute http(s) url, got %q", baseURL)
	}

	c := &Client{
		baseURL:     parsed,
		client:      &http.Client{},
		directHosts: DefaultDirectHosts,
		logger:      log.Logger.Named("pharmacy_client"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// DirectHosts returns the hosts treated as ready map URLs.
func (c *Client) DirectHosts() []string {
	return append([]string(nil), c.directHosts...)
}

// SearchByAddress posts address to the backend and returns the ranked
// results in the order received.
//
// On any failure the returned slice is empty (never nil) and err carries
// the detail: ErrEmptyAddress, *TransportError, *ServerError or *DecodeError.
func (c *Client) SearchByAddress(ctx context.Context, address string) ([]Result, error) {
	if strings.TrimSpace(address) == "" {
		return []Result{}, ErrEmptyAddress
	}

	payload, err := json.Marshal(SearchRequest{Address: address})
	if err != nil {
		return []Result{}, errors.Wrap(err, "marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(searchPath), bytes.NewReader(payload))
	if err != nil {
		return []Result{}, errors.Wrap(err, "create search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(ctx, opSearch, req, zap.String("address", address))
	if err != nil {
		return []Result{}, err
	}

	if !looksLikeJSONArray(body) {
		truncated, _ := truncateForLog(body, logBodyLimit)
		return []Result{}, &DecodeError{Op: opSearch, Body: truncated, Err: errors.New("response is not a json array")}
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		truncated, _ := truncateForLog(body, logBodyLimit)
		return []Result{}, &DecodeError{Op: opSearch, Body: truncated, Err: errors.WithStack(err)}
	}

	return FromRecords(records, c.directHosts), nil
}

// ResolveDirectionURL exchanges a direction id for a map URL. Every
// failure is returned as a *ResolutionError.
func (c *Client) ResolveDirectionURL(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", &ResolutionError{ID: id, Err: ErrEmptyDirectionID}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(directionPathPrefix+url.PathEscape(id)), nil)
	if err != nil {
		return "", &ResolutionError{ID: id, Err: errors.Wrap(err, "create resolve request")}
	}
	req.Header.Set("Accept", "application/json, text/plain")

	body, err := c.do(ctx, opResolve, req, zap.String("direction_id", id))
	if err != nil {
		return "", &ResolutionError{ID: id, Err: err}
	}

	target, err := parseDirectionBody(body)
	if err != nil {
		truncated, _ := truncateForLog(body, logBodyLimit)
		return "", &ResolutionError{ID: id, Err: &DecodeError{Op: opResolve, Body: truncated, Err: err}}
	}

	return target, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	// path is already escaped by the caller
	u.RawPath = strings.TrimRight(u.EscapedPath(), "/") + path
	if unescaped, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = unescaped
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, op string, req *http.Request, fields ...zap.Field) ([]byte, error) {
	logger := c.logger
	if ctx != nil {
		if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
			logger = ctxLogger.Named("pharmacy_client")
		}
	}

	if logger != nil {
		logger.Debug("outgoing http request", append([]zap.Field{
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
		}, fields...)...)
	}

	startAt := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: errors.WithStack(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: errors.Wrap(err, "read response body")}
	}

	truncatedBody, truncated := truncateForLog(body, logBodyLimit)
	if logger != nil {
		logger.Debug("incoming http response", append([]zap.Field{
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncatedBody),
			zap.Bool("body_truncated", truncated),
			zap.Duration("cost", time.Since(startAt)),
		}, fields...)...)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Body: truncatedBody}
	}

	return body, nil
}

// parseDirectionBody accepts either a bare URL or a JSON string.
func parseDirectionBody(body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", errors.New("empty body")
	}

	target := trimmed
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal([]byte(trimmed), &target); err != nil {
			return "", errors.Wrap(err, "unmarshal json string")
		}
		target = strings.TrimSpace(target)
	case '{', '[':
		return "", errors.New("expected a url string, got a json document")
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", errors.Wrapf(err, "parse url %q", target)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", errors.Errorf("not an absolute http(s) url: %q", target)
	}

	return target, nil
}

func looksLikeJSONArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// truncateForLog limits the payload logged for debugging and reports whether truncation occurred.
func truncateForLog(body []byte, limit int) (string, bool) {
	if len(body) <= limit {
		return string(body), false
	}
	return string(body[:limit]), true
}
