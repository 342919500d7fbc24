package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/fetch"
)

// SearchSite is the part of a site strategy the page fetcher needs.
type SearchSite interface {
	Name() string
	PageCeiling() int
	SearchURL(d domain.SearchDescriptor, page int) string
	ExtractListings(body []byte) (*domain.SearchPage, error)
}

// PageFetcher fetches and extracts one result page of a descriptor.
type PageFetcher struct {
	getter  fetch.Getter
	site    SearchSite
	timeout time.Duration
	headers map[string]string
}

func NewPageFetcher(getter fetch.Getter, site SearchSite, timeout time.Duration, headers map[string]string) *PageFetcher {
	return &PageFetcher{
		getter:  getter,
		site:    site,
		timeout: timeout,
		headers: headers,
	}
}

// Fetch returns a *domain.FetchError on failure. A page past the site's
// ceiling is an empty final page and costs no request.
func (f *PageFetcher) Fetch(ctx context.Context, d domain.SearchDescriptor, page int) (*domain.Page, error) {
	if page < 1 || page > f.site.PageCeiling() {
		return &domain.Page{}, nil
	}

	url := f.site.SearchURL(d, page)
	resp, err := f.getter.Get(ctx, fetch.Request{URL: url, Headers: f.headers, Timeout: f.timeout})
	if err := fetch.Classify(url, resp, err); err != nil {
		return nil, err
	}

	extracted, err := f.site.ExtractListings(resp.Body)
	if err != nil {
		kind := domain.FetchOther
		if errors.Is(err, domain.ErrBlocked) {
			kind = domain.FetchRateLimited
		}
		return nil, &domain.FetchError{Kind: kind, Status: resp.Status, URL: url, Err: fmt.Errorf("extract: %w", err)}
	}

	operation, _ := d.Facet(domain.FacetOperation)
	for i := range extracted.Listings {
		if extracted.Listings[i].Operation == "" {
			extracted.Listings[i].Operation = operation
		}
	}

	hasNext := len(extracted.Listings) > 0
	if extracted.HasNext != nil {
		hasNext = *extracted.HasNext && hasNext
	}
	if page >= f.site.PageCeiling() {
		hasNext = false
	}

	return &domain.Page{
		Listings:    extracted.Listings,
		Dropped:     extracted.Dropped,
		HasNextPage: hasNext,
	}, nil
}
