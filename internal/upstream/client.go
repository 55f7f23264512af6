// Package upstream calls the number-lookup service and classifies its
// answers into the Result union consumed by the bot handlers.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/eliseohh/leakcheckbot/internal/metrics"
)

const (
	defaultBase = "https://osintt.onrender.com/index.php"

	// maxErrBodyRunes caps the upstream body quoted in error messages.
	maxErrBodyRunes = 500
)

// Client issues one best-effort GET per lookup. No retry, no cache, no
// circuit breaking; the caller decides what a failure means.
type Client struct {
	base string
	key  string
	http *http.Client
}

// New returns a Client for the given endpoint. An empty base falls back to
// the public instance; a non-positive timeout falls back to 10 seconds.
func New(base, key string, timeout time.Duration) *Client {
	if base == "" {
		base = defaultBase
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: base,
		key:  key,
		http: &http.Client{Timeout: timeout},
	}
}

// Lookup queries upstream for a normalized number. It always returns a
// Result; errors travel inside the union as KindFailure. The number itself
// is kept out of span attributes and metrics labels.
func (c *Client) Lookup(ctx context.Context, number string) Result {
	tr := otel.Tracer("upstream/Client")
	ctx, span := tr.Start(ctx, "Lookup")
	defer span.End()

	start := time.Now()
	res := c.roundTrip(ctx, number)
	metrics.Lookup(res.Kind.String(), time.Since(start))
	span.SetAttributes(attribute.String("lookup.outcome", res.Kind.String()))
	return res
}

func (c *Client) roundTrip(ctx context.Context, number string) Result {
	q := url.Values{}
	q.Set("num", number)
	q.Set("key", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+q.Encode(), nil)
	if err != nil {
		return failure("upstream request failed: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return failure("upstream request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure("upstream request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return failure("upstream error: %d — %s", resp.StatusCode, truncateRunes(string(body), maxErrBodyRunes))
	}
	return classify(body)
}

func failure(format string, args ...any) Result {
	return Result{Kind: KindFailure, Reason: fmt.Sprintf(format, args...)}
}
