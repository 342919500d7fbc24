package crawl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/fetch"
	"listing_crawler/internal/testutil"
)

type stubGetter struct {
	resp *fetch.Response
	err  error
	reqs []fetch.Request
}

func (g *stubGetter) Get(_ context.Context, req fetch.Request) (*fetch.Response, error) {
	g.reqs = append(g.reqs, req)
	return g.resp, g.err
}

type stubSite struct {
	ceiling int
	page    *domain.SearchPage
	err     error
}

func (s *stubSite) Name() string     { return "stub" }
func (s *stubSite) PageCeiling() int { return s.ceiling }

func (s *stubSite) SearchURL(d domain.SearchDescriptor, page int) string {
	return fmt.Sprintf("https://example.test%s?page=%d", d.QueryTemplate(), page)
}

func (s *stubSite) ExtractListings(_ []byte) (*domain.SearchPage, error) {
	return s.page, s.err
}

type PageFetcherTestSuite struct {
	suite.Suite
	getter *stubGetter
	site   *stubSite
	desc   domain.SearchDescriptor
}

func (s *PageFetcherTestSuite) SetupTest() {
	s.getter = &stubGetter{resp: &fetch.Response{Status: 200, Body: []byte("<html></html>")}}
	s.site = &stubSite{
		ceiling: 3,
		page: &domain.SearchPage{
			Listings: listings("MLM-1", "MLM-2"),
			HasNext:  testutil.Ptr(true),
		},
	}
	s.desc = domain.NewSearchDescriptor("/casas/renta/", "Casas en renta", map[domain.Facet]string{
		domain.FacetOperation: "renta",
	})
}

func (s *PageFetcherTestSuite) fetcher() *PageFetcher {
	return NewPageFetcher(s.getter, s.site, 5*time.Second, map[string]string{"Accept-Language": "es-MX"})
}

func TestPageFetcherTestSuite(t *testing.T) {
	suite.Run(t, new(PageFetcherTestSuite))
}

func (s *PageFetcherTestSuite) TestFetch_Success() {
	page, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	s.Require().NoError(err)
	s.Len(page.Listings, 2)
	s.True(page.HasNextPage)
	s.Equal("renta", page.Listings[0].Operation)
	s.Require().Len(s.getter.reqs, 1)
	s.Equal("https://example.test/casas/renta/?page=1", s.getter.reqs[0].URL)
	s.Equal(5*time.Second, s.getter.reqs[0].Timeout)
	s.Equal("es-MX", s.getter.reqs[0].Headers["Accept-Language"])
}

func (s *PageFetcherTestSuite) TestFetch_KeepsExtractedOperation() {
	s.site.page.Listings[0].Operation = "venta"

	page, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	s.Require().NoError(err)
	s.Equal("venta", page.Listings[0].Operation)
	s.Equal("renta", page.Listings[1].Operation)
}

func (s *PageFetcherTestSuite) TestFetch_NoMarkerMeansNoNextPage() {
	s.site.page.HasNext = testutil.Ptr(false)

	page, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	s.Require().NoError(err)
	s.False(page.HasNextPage)
}

func (s *PageFetcherTestSuite) TestFetch_EmptyPageHasNoNext() {
	s.site.page = &domain.SearchPage{HasNext: testutil.Ptr(true)}

	page, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	s.Require().NoError(err)
	s.Empty(page.Listings)
	s.False(page.HasNextPage)
}

func (s *PageFetcherTestSuite) TestFetch_MissingMarkerFallsBackToListings() {
	s.site.page.HasNext = nil

	page, err := s.fetcher().Fetch(context.Background(), s.desc, 2)

	s.Require().NoError(err)
	s.True(page.HasNextPage)
}

func (s *PageFetcherTestSuite) TestFetch_CeilingPageHasNoNext() {
	page, err := s.fetcher().Fetch(context.Background(), s.desc, 3)

	s.Require().NoError(err)
	s.Len(page.Listings, 2)
	s.False(page.HasNextPage)
}

func (s *PageFetcherTestSuite) TestFetch_PastCeilingSkipsRequest() {
	for _, p := range []int{0, 4} {
		page, err := s.fetcher().Fetch(context.Background(), s.desc, p)

		s.Require().NoError(err)
		s.Empty(page.Listings)
		s.False(page.HasNextPage)
	}
	s.Empty(s.getter.reqs)
}

func (s *PageFetcherTestSuite) TestFetch_ClassifiesStatus() {
	tests := []struct {
		status int
		kind   domain.FetchErrorKind
	}{
		{400, domain.FetchRateLimited},
		{429, domain.FetchRateLimited},
		{404, domain.FetchNotFound},
		{504, domain.FetchTimeout},
		{503, domain.FetchOther},
	}

	for _, tt := range tests {
		s.Run(fmt.Sprintf("status %d", tt.status), func() {
			s.getter.resp = &fetch.Response{Status: tt.status}

			_, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

			kind, ok := domain.FetchErrorKindOf(err)
			s.True(ok)
			s.Equal(tt.kind, kind)
		})
	}
}

func (s *PageFetcherTestSuite) TestFetch_TransportTimeout() {
	s.getter.resp = nil
	s.getter.err = context.DeadlineExceeded

	_, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	kind, ok := domain.FetchErrorKindOf(err)
	s.True(ok)
	s.Equal(domain.FetchTimeout, kind)
}

func (s *PageFetcherTestSuite) TestFetch_BlockedPageIsRateLimited() {
	s.site.err = domain.ErrBlocked

	_, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	var fe *domain.FetchError
	s.Require().ErrorAs(err, &fe)
	s.Equal(domain.FetchRateLimited, fe.Kind)
	s.True(domain.IsRateLimited(err))
	s.ErrorIs(err, domain.ErrBlocked)
}

func (s *PageFetcherTestSuite) TestFetch_ExtractFailureIsOther() {
	s.site.err = errors.New("broken markup")

	_, err := s.fetcher().Fetch(context.Background(), s.desc, 1)

	var fe *domain.FetchError
	s.Require().ErrorAs(err, &fe)
	s.Equal(domain.FetchOther, fe.Kind)
	s.Equal(200, fe.Status)
	s.ErrorContains(err, "broken markup")
}
