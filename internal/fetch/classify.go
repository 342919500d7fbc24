package fetch

import (
	"net/http"

	"listing_crawler/internal/domain"
)

// Classify maps a transport result onto the FetchError taxonomy.
// It returns nil for a 2xx response.
func Classify(url string, resp *Response, err error) error {
	if err != nil {
		kind := domain.FetchOther
		if IsTimeout(err) {
			kind = domain.FetchTimeout
		}
		return &domain.FetchError{Kind: kind, URL: url, Err: err}
	}

	switch {
	case resp.Status >= 200 && resp.Status < 300:
		return nil
	// The marketplace answers with 400 or 403 instead of 429 when throttling.
	case resp.Status == http.StatusBadRequest, resp.Status == http.StatusForbidden,
		resp.Status == http.StatusTooManyRequests:
		return &domain.FetchError{Kind: domain.FetchRateLimited, Status: resp.Status, URL: url}
	case resp.Status == http.StatusNotFound, resp.Status == http.StatusGone:
		return &domain.FetchError{Kind: domain.FetchNotFound, Status: resp.Status, URL: url}
	case resp.Status == http.StatusGatewayTimeout, resp.Status == http.StatusRequestTimeout:
		return &domain.FetchError{Kind: domain.FetchTimeout, Status: resp.Status, URL: url}
	default:
		return &domain.FetchError{Kind: domain.FetchOther, Status: resp.Status, URL: url}
	}
}
