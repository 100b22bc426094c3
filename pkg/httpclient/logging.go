package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs one line per outbound request:
// method, URL, status (or transport error), and duration.
func LogRequests(lg *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Duration("duration", time.Since(start)),
			}
			if id := req.Header.Get("X-Request-ID"); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			if err != nil {
				lg.Error("Request failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			lg.Debug("Request", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
