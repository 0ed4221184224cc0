package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/sira-console/internal/observability"
)

const maxResponseBytes = 4 << 20

// Client is the one shared HTTP client every page composes instead of
// redefining its own fetch logic. Requests carry JSON bodies, the cookie jar
// holds the session credential, and responses are normalized into the
// Envelope / Error contract.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// New constructs a portal client for the given base URL.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid portal base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("portal base url must be absolute: %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: parsed,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		logger:  logger.With().Str("component", "portal_client").Logger(),
	}, nil
}

// Get issues a credentialed GET and returns the decoded envelope.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a credentialed POST with a JSON body and returns the decoded envelope.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Do issues a request and normalizes the outcome: transport failures, non-2xx
// statuses and ok:false envelopes all come back as *Error carrying the server
// message when one exists. A non-JSON body is tolerated and treated as a
// failed envelope.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	start := time.Now()
	route := metricRoute(path)

	tracer := otel.Tracer("github.com/noah-isme/sira-console/internal/api")
	ctx, span := tracer.Start(ctx, "portal.request")
	span.SetAttributes(
		attribute.String("portal.method", method),
		attribute.String("portal.route", route),
	)
	defer span.End()

	env, err := c.do(ctx, method, path, body)

	status := "error"
	if err == nil {
		status = "ok"
	} else if apiErr, ok := err.(*Error); ok {
		if apiErr.Status > 0 {
			status = strconv.Itoa(apiErr.Status)
		}
		observability.PortalErrors().WithLabelValues(method, route, string(apiErr.Kind)).Inc()
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, string(apiErr.Kind))
	}

	observability.PortalRequests().WithLabelValues(method, route, status).Inc()
	observability.PortalLatency().WithLabelValues(method, route).Observe(time.Since(start).Seconds())

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("status", status).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("portal request")

	return env, err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	target, err := c.requestURL(path)
	if err != nil {
		return nil, transportError(err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, transportError(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, transportError(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", CorrelationIDFromContext(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(err)
	}

	env, ok := decodeEnvelope(raw)
	if !ok {
		env = &Envelope{OK: false, Error: "Non-JSON response"}
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !success || !env.OK {
		return nil, statusError(resp.StatusCode, env.Error)
	}

	return env, nil
}

// requestURL joins a rooted request path onto the base URL, keeping any base
// subpath (a deployment under /portal must not collapse to the host root) and
// any percent-escaping in the request path.
func (c *Client) requestURL(path string) (*url.URL, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if rel.IsAbs() || rel.Host != "" {
		return nil, fmt.Errorf("request path %q must be relative to the portal base url", path)
	}

	target := *c.baseURL
	target.Path = c.baseURL.Path + rel.Path
	target.RawPath = c.baseURL.EscapedPath() + rel.EscapedPath()
	target.RawQuery = rel.RawQuery
	return &target, nil
}

var numericSegment = regexp.MustCompile(`/\d+`)

// metricRoute reduces a concrete request path to a low-cardinality label:
// query strings dropped, numeric path segments collapsed.
func metricRoute(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return numericSegment.ReplaceAllString(path, "/:id")
}
