package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultUserAgent identifies requests to public geocoding services, which
// reject anonymous clients.
const DefaultUserAgent = "streammap/1.0 (+https://tableflip.dev/streammap)"

// errTimeout marks a request that ran past its deadline.
var errTimeout = errors.New("request timed out")

// httpClient wraps a fasthttp client with JSON decoding and context aware
// deadlines.
type httpClient struct {
	client    *fasthttp.Client
	userAgent string
	timeout   time.Duration
}

func newHTTPClient(c *fasthttp.Client, userAgent string, timeout time.Duration) *httpClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if c == nil {
		c = &fasthttp.Client{
			MaxConnsPerHost:     4,
			MaxIdleConnDuration: 10 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &httpClient{client: c, userAgent: userAgent, timeout: timeout}
}

// getJSON fetches uri and decodes the body into out.
func (h *httpClient) getJSON(ctx context.Context, uri string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(h.userAgent)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(h.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := h.client.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fmt.Errorf("%w: %s", errTimeout, uri)
		}
		return err
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", code, uri)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", uri, err)
	}
	return nil
}
