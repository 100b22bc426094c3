package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns a middleware that ensures every outbound request carries
// a unique X-Request-ID header. A caller-provided valid header is reused;
// otherwise a new UUID v4 is generated. Valid values are at most 128 bytes
// of printable ASCII (0x20–0x7E).
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if !isValidRequestID(req.Header.Get("X-Request-ID")) {
				req = req.Clone(req.Context())
				req.Header.Set("X-Request-ID", uuid.New().String())
			}
			return next.RoundTrip(req)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20–0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
