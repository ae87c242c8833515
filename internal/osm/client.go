// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/osmx/osmx/internal/log"
	"github.com/osmx/osmx/internal/version"
)

const (
	DefaultOverpassURL  = "https://overpass-api.de/api/interpreter"
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultMaxTries     = 3

	// Overpass may hold a connection for the whole query timeout.
	defaultHTTPTimeout = DefaultQueryTimeout + 30*time.Second
)

// ErrOverpassRemark is returned when Overpass reports a runtime error in the
// remark field of an otherwise successful response.
var ErrOverpassRemark = errors.New("overpass runtime error")

// StatusError is a non-200 response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s returned %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Retryable reports whether the status is worth retrying.
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Cache stores raw response bodies by request key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte) error
}

// Client queries Nominatim and Overpass.
type Client struct {
	overpassURL  string
	nominatimURL string
	userAgent    string
	http         *http.Client
	limiter      *rate.Limiter
	maxTries     uint
	newBackOff   func() backoff.BackOff
	cache        Cache
}

// Option configures a Client.
type Option func(*Client)

func WithOverpassURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.overpassURL = u
		}
	}
}

func WithNominatimURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.nominatimURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRate limits requests to r per second with the given burst. Both
// public services ask for at most one request per second.
func WithRate(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithMaxTries caps the attempts per request, the first one included. Zero
// keeps the default.
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// WithBackOff replaces the retry schedule. f is called once per request.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = f }
}

func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient returns a Client for the public OSM endpoints, modified by opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		overpassURL:  DefaultOverpassURL,
		nominatimURL: DefaultNominatimURL,
		userAgent:    version.UserAgent(),
		http:         &http.Client{Timeout: defaultHTTPTimeout},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 1),
		maxTries:     DefaultMaxTries,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 2 * time.Second
			bo.MaxInterval = 30 * time.Second
			return bo
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode resolves query to a single place.
func (c *Client) Geocode(ctx context.Context, query string) (*Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrPlaceNotFound)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "5")
	target := c.nominatimURL + "/search?" + params.Encode()

	body, err := c.do(ctx, target, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}

	places, err := parsePlaces(query, body)
	if err != nil {
		return nil, err
	}
	p := pickPlace(places)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlaceNotFound, query)
	}
	log.Debugf("geocoded %q to %s", query, p)
	return p, nil
}

// Fetch runs an Overpass QL query.
func (c *Client) Fetch(ctx context.Context, query string) (*Response, error) {
	form := url.Values{"data": {query}}.Encode()
	body, err := c.do(ctx, c.overpassURL+"\n"+query, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overpassURL, strings.NewReader(form))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, checkRemark)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}
	if resp.Remark != "" {
		log.Warnf("overpass remark: %s", resp.Remark)
	}
	log.Debugf("overpass returned %d elements", len(resp.Elements))
	return &resp, nil
}

// Run renders q as Overpass QL and fetches it.
func (c *Client) Run(ctx context.Context, q Query) (*Response, error) {
	ql, err := BuildQuery(q)
	if err != nil {
		return nil, err
	}
	log.Tracef("overpass query:\n%s", ql)
	return c.Fetch(ctx, ql)
}

// checkRemark rejects bodies whose remark reports a runtime error. Such
// responses are HTTP 200 with partial or no data.
func checkRemark(body []byte) error {
	remark := gjson.GetBytes(body, "remark").String()
	if remark != "" && strings.Contains(strings.ToLower(remark), "error") {
		return fmt.Errorf("%w: %s", ErrOverpassRemark, remark)
	}
	return nil
}

// do performs one logical request: cache lookup, then rate-limited attempts
// with backoff. Only bodies that pass validate are cached.
func (c *Client) do(ctx context.Context, cacheKey string, newRequest func() (*http.Request, error), validate func([]byte) error) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			return body, nil
		}
	}

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		req, err := newRequest()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		log.Debugf("%s %s attempt=%d", req.Method, req.URL.Redacted(), attempt)
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			se := &StatusError{
				StatusCode: resp.StatusCode,
				URL:        req.URL.Scheme + "://" + req.URL.Host + req.URL.Path,
				Body:       truncate(strings.TrimSpace(string(body)), 200),
			}
			if se.Retryable() {
				return nil, se
			}
			return nil, backoff.Permanent(se)
		}

		if validate != nil {
			if err := validate(body); err != nil {
				return nil, backoff.Permanent(err)
			}
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Warnf("request failed, retrying in %s: %s", d, err)
		}),
	)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(cacheKey, body); err != nil {
			log.WithError(err).Warnf("failed to cache response")
		}
	}
	return body, nil
}

