// Package gateway is the single path to the remote markets API. Every call
// produces a Result value; no error ever crosses the gateway boundary, so
// callers inspect the status instead of catching failures.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Result is the outcome of one remote call. A transport-level failure is
// reported as Status 0 with the transport error text in Message; a non-2xx
// response carries the server's status and, when present, the error message
// extracted from its body.
type Result struct {
	Status  int
	Body    []byte
	Message string
}

// OK reports whether the call completed with a 2xx status.
func (r Result) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Decode unmarshals a successful result's body into v. Calling Decode on a
// failed result is a programming error and returns the failure as an error.
func (r Result) Decode(v any) error {
	if !r.OK() {
		return r.Err("decode response")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrap(err, "unmarshal response body")
	}
	return nil
}

// Err converts a failed Result into an error for callers that propagate
// failures instead of inspecting status codes. It returns nil for a
// successful Result.
func (r Result) Err(op string) error {
	switch {
	case r.OK():
		return nil
	case r.Status == 0:
		return errors.Errorf("%s: %s", op, r.Message)
	case r.Message != "":
		return errors.Errorf("%s: status %d: %s", op, r.Status, r.Message)
	default:
		return errors.Errorf("%s: status %d", op, r.Status)
	}
}

// Gateway issues requests against a configured base URL.
type Gateway struct {
	base   string
	client *http.Client
}

// Option customises a Gateway.
type Option func(*Gateway)

// WithClient sets the HTTP client used for all calls.
func WithClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// New creates a Gateway for the given base URL.
func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		base:   strings.TrimRight(baseURL, "/"),
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fetch issues a GET for the given relative path.
func (g *Gateway) Fetch(ctx context.Context, path string) Result {
	return g.do(ctx, http.MethodGet, path, nil)
}

// Create issues a POST with a JSON payload.
func (g *Gateway) Create(ctx context.Context, path string, payload any) Result {
	return g.do(ctx, http.MethodPost, path, payload)
}

// Replace issues a PUT with a JSON payload.
func (g *Gateway) Replace(ctx context.Context, path string, payload any) Result {
	return g.do(ctx, http.MethodPut, path, payload)
}

// Remove issues a DELETE for the given relative path.
func (g *Gateway) Remove(ctx context.Context, path string) Result {
	return g.do(ctx, http.MethodDelete, path, nil)
}

func (g *Gateway) do(ctx context.Context, method, path string, payload any) Result {
	lg := zctx.From(ctx)
	url := g.base + path
	lg.Debug("Remote call", zap.String("method", method), zap.String("url", url))

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			lg.Error("Remote call payload encode failed",
				zap.String("method", method), zap.String("url", url), zap.Error(err))
			return Result{Message: "encode payload: " + err.Error()}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		lg.Error("Remote call setup failed",
			zap.String("method", method), zap.String("url", url), zap.Error(err))
		return Result{Message: err.Error()}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		lg.Error("Remote call failed",
			zap.String("method", method), zap.String("url", url), zap.Error(err))
		return Result{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		lg.Error("Remote call read failed",
			zap.String("method", method), zap.String("url", url), zap.Error(err))
		return Result{Message: err.Error()}
	}

	res := Result{Status: resp.StatusCode, Body: raw}
	if !res.OK() {
		res.Message = errorMessage(raw)
		lg.Warn("Remote call rejected",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", res.Status),
			zap.String("message", res.Message),
		)
	}
	return res
}
