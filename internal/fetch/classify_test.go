package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"listing_crawler/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		resp   *Response
		err    error
		want   domain.FetchErrorKind
		wantOK bool
	}{
		{name: "ok", resp: &Response{Status: 200}, wantOK: true},
		{name: "bad request is throttling", resp: &Response{Status: 400}, want: domain.FetchRateLimited},
		{name: "too many requests", resp: &Response{Status: 429}, want: domain.FetchRateLimited},
		{name: "forbidden is throttling", resp: &Response{Status: 403}, want: domain.FetchRateLimited},
		{name: "not found", resp: &Response{Status: 404}, want: domain.FetchNotFound},
		{name: "gateway timeout", resp: &Response{Status: 504}, want: domain.FetchTimeout},
		{name: "server error", resp: &Response{Status: 503}, want: domain.FetchOther},
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: domain.FetchTimeout},
		{name: "transport", err: errors.New("connection reset"), want: domain.FetchOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("https://example.test/page", tt.resp, tt.err)
			if tt.wantOK {
				assert.NoError(t, err)
				return
			}

			var fe *domain.FetchError
			if assert.ErrorAs(t, err, &fe) {
				assert.Equal(t, tt.want, fe.Kind)
				assert.Equal(t, "https://example.test/page", fe.URL)
			}
		})
	}
}
