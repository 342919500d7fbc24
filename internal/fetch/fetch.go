package fetch

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Request describes a single GET.
type Request struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

type Response struct {
	URL    string
	Status int
	Body   []byte
}

// Getter performs one HTTP GET and reports the status as-is.
// Non-2xx statuses are not errors; only transport failures are.
type Getter interface {
	Get(ctx context.Context, req Request) (*Response, error)
}

// DefaultHeaders are sent with every request unless overridden.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "es-MX,es;q=0.9,en;q=0.8",
		"Cache-Control":             "no-cache",
		"Pragma":                    "no-cache",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Upgrade-Insecure-Requests": "1",
	}
}

// NewLimiter caps outgoing requests per minute. Zero disables the cap.
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// IsTimeout reports whether err came from a request deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

func mergeHeaders(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
