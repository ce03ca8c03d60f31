// Package sparql is a small client for the GraphDB SPARQL protocol endpoint,
// used to check what a generated knowledge graph actually contains.
package sparql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultURL is the GraphDB workbench default.
	DefaultURL        = "http://localhost:7200"
	DefaultRepository = "NarbonneKG"

	resultsMediaType = "application/sparql-results+json"
)

type Client struct {
	httpClient       *http.Client
	baseURL          string
	repository       string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// NewClient allows customizing HTTP timeout and retry/backoff behavior.
// Zero values select the defaults (60s, 3 attempts, 500ms, 4s).
func NewClient(baseURL, repository string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if repository == "" {
		repository = DefaultRepository
	}
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		baseURL:          strings.TrimRight(baseURL, "/"),
		repository:       repository,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// Endpoint is the query URL of the repository.
func (c *Client) Endpoint() string {
	return c.baseURL + "/repositories/" + url.PathEscape(c.repository)
}

// Query runs a SELECT or ASK query and decodes the JSON results.
func (c *Client) Query(ctx context.Context, query string) (*Results, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query cannot be empty")
	}
	form := url.Values{"query": {query}}
	var out Results
	err := c.post(ctx, c.Endpoint(), form, resultsMediaType, true, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(&out); err != nil {
			return fmt.Errorf("decode results: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update runs a SPARQL 1.1 update against the repository statements endpoint.
// Updates may not be idempotent, so only 429 responses are retried; a 5xx or a
// timeout is returned at once since the store may already have applied it.
func (c *Client) Update(ctx context.Context, update string) error {
	if strings.TrimSpace(update) == "" {
		return errors.New("update cannot be empty")
	}
	form := url.Values{"update": {update}}
	return c.post(ctx, c.Endpoint()+"/statements", form, "", false, nil)
}

// post sends a form-encoded request, retrying 429 responses with exponential
// backoff. Network timeouts and 5xx responses are retried too when idempotent
// is set. decode is called on a 2xx body.
func (c *Client) post(ctx context.Context, endpoint string, form url.Values, accept string, idempotent bool, decode func(io.Reader) error) error {
	payload := form.Encode()
	maxAttempts := c.retryMaxAttempts
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if accept != "" {
			req.Header.Set("Accept", accept)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if idempotent && isRetryableNetErr(err) && attempt < maxAttempts {
				lastErr = err
				if err := sleep(ctx, withJitter(backoff)); err != nil {
					return err
				}
				backoff *= 2
				continue
			}
			return &UnreachableError{Host: c.baseURL, Err: err}
		}

		retry, wait, err := c.handle(resp, decode)
		if err == nil {
			return nil
		}
		lastErr = err
		if !idempotent {
			var rl *RateLimitError
			retry = retry && errors.As(err, &rl)
		}
		if !retry || attempt >= maxAttempts {
			break
		}
		if wait <= 0 {
			wait = withJitter(backoff)
			if c.retryMaxDelay > 0 && wait > c.retryMaxDelay {
				wait = c.retryMaxDelay
			}
			backoff *= 2
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

// handle consumes resp. It reports whether the request may be retried and,
// when the server asked for it, how long to wait first.
func (c *Client) handle(resp *http.Response, decode func(io.Reader) error) (bool, time.Duration, error) {
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if decode == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return false, 0, nil
		}
		return false, 0, decode(resp.Body)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
		RequestID:  resp.Header.Get("X-Request-Id"),
	}
	err := c.classify(apiErr, resp)
	retryable := resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)
	var wait time.Duration
	if ra := resp.Header.Get("Retry-After"); ra != "" && retryable {
		if secs, perr := parseRetryAfterSeconds(ra); perr == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	return retryable, wait, err
}

func (c *Client) classify(apiErr *APIError, resp *http.Response) error {
	sc := apiErr.StatusCode
	switch {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case sc == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case sc == http.StatusNotFound:
		return &RepositoryNotFoundError{APIError: apiErr, Repository: c.repository}
	case sc == http.StatusBadRequest:
		return &BadRequestError{APIError: apiErr}
	case sc >= 500 && sc <= 599:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// parseRetryAfterSeconds interprets a Retry-After value as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
