// Package pbs implements the fetch-join-classify-flatten pipeline over the
// PBS public data API: a rate-limited retrying client, schedule selection,
// tabular entity fetches, in-memory join indices, free-text classification
// and flattening into the published fact table.
package pbs

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/juju/ratelimit"

	"github.com/cmcmaster1/rheum-biologics-helper/logging"
	"github.com/cmcmaster1/rheum-biologics-helper/metrics"
)

// RetryPolicy is the single retry layer for PBS requests. Transient transport
// errors and 5xx responses consume attempts and wait RetryWait between tries.
// A 429 never consumes an attempt: the server-supplied Retry-After (or
// RateLimitWait when the header is absent) is honored and the request is
// reissued, since the server is pacing us rather than failing.
type RetryPolicy struct {
	MaxAttempts   int
	RetryWait     time.Duration
	RateLimitWait time.Duration
}

// DefaultRetryPolicy mirrors the upstream API guidance: five attempts, a
// short fixed backoff, and a one minute rate-limit wait fallback.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   5,
		RetryWait:     5 * time.Second,
		RateLimitWait: 60 * time.Second,
	}
}

// Client issues requests against the PBS API, pacing all calls through a
// single token bucket. One Client is created per run; the bucket is the only
// synchronization point, so the Client is safe to share if fetches are ever
// parallelized.
type Client struct {
	rest   *resty.Client
	bucket *ratelimit.Bucket
	policy RetryPolicy

	// sleep is swapped out in tests to avoid real backoff waits
	sleep func(time.Duration)
}

// NewClient creates a PBS API client. requestsPerSecond is the global rate
// budget; the bucket holds a single token so calls are spaced evenly rather
// than bursting.
func NewClient(baseURL, subscriptionKey string, requestsPerSecond float64, policy RetryPolicy) *Client {
	rest := resty.New()
	rest.SetBaseURL(baseURL)
	rest.SetHeader("subscription-key", subscriptionKey)
	rest.SetTimeout(5 * time.Minute)

	return &Client{
		rest:   rest,
		bucket: ratelimit.NewBucketWithRate(requestsPerSecond, 1),
		policy: policy,
		sleep:  time.Sleep,
	}
}

// Get fetches an endpoint, honoring the rate budget and the retry policy.
// accept selects the payload shape: "text/csv" for the tabular entity
// endpoints, "application/json" for schedules.
func (c *Client) Get(endpoint string, params map[string]string, accept string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; {
		c.bucket.Wait(1)

		resp, err := c.rest.R().
			SetQueryParams(params).
			SetHeader("Accept", accept).
			Get(endpoint)

		if err != nil {
			lastErr = err
			logging.Warn("PBS request failed, retrying",
				"endpoint", endpoint, "attempt", attempt, "error", err)
			metrics.PBSFetchRetries.Inc()
			attempt++
			c.sleep(c.policy.RetryWait)
			continue
		}

		status := resp.StatusCode()
		metrics.PBSFetchTotals.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

		switch {
		case status == http.StatusTooManyRequests:
			wait := retryAfter(resp, c.policy.RateLimitWait)
			logging.Warn("PBS rate limit exceeded, waiting",
				"endpoint", endpoint, "wait", wait.String())
			c.sleep(wait)
			continue

		case status >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("PBS API returned %d for %s", status, endpoint)
			logging.Warn("PBS server error, retrying",
				"endpoint", endpoint, "attempt", attempt, "status", status)
			metrics.PBSFetchRetries.Inc()
			attempt++
			c.sleep(c.policy.RetryWait)
			continue

		case status >= http.StatusBadRequest:
			// Bad credentials or a bad request won't improve with retries
			return nil, fmt.Errorf("PBS API returned %d for %s", status, endpoint)
		}

		return resp.Body(), nil
	}

	return nil, fmt.Errorf("retry budget exhausted for %s: %w", endpoint, lastErr)
}

// retryAfter reads the Retry-After header as whole seconds, falling back to
// the policy default when it is absent or unparseable.
func retryAfter(resp *resty.Response, fallback time.Duration) time.Duration {
	header := resp.Header().Get("Retry-After")
	if header == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
