package mercadolibre

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/source/htmlutil"
)

const (
	Name           = "mercadolibre"
	DefaultBaseURL = "https://inmuebles.mercadolibre.com.mx"
	// The site never serves more than 42 result pages per query.
	PageCeiling = 42
	PageSize    = 48
	country     = "México"
)

var (
	idRe    = regexp.MustCompile(`MLM-?(\d+)`)
	rangeRe = regexp.MustCompile(`(\d+)(?:\s*[-a]\s*(\d+))?`)
)

var attributeSelectors = []string{
	".poly-attributes_list__item",
	".poly-attributes-list__item",
	".ui-search-card-attributes__attribute",
	".ui-search-item__group__element span",
}

type Site struct {
	baseURL string
}

func New(baseURL string) *Site {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Site{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *Site) Name() string     { return Name }
func (s *Site) BaseURL() string  { return s.baseURL }
func (s *Site) PageCeiling() int { return PageCeiling }

// SearchURL pages through results with the _Desde_ offset suffix.
func (s *Site) SearchURL(d domain.SearchDescriptor, page int) string {
	u := s.baseURL + d.QueryTemplate()
	if page > 1 {
		u += fmt.Sprintf("_Desde_%d", (page-1)*PageSize+1)
	}
	return u
}

func (s *Site) ExtractListings(body []byte) (*domain.SearchPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	if blocked(doc) {
		return nil, domain.ErrBlocked
	}

	page := &domain.SearchPage{}
	doc.Find(".ui-search-layout__item").Each(func(_ int, item *goquery.Selection) {
		listing, err := s.extractListing(item)
		if err != nil {
			page.Dropped++
			return
		}
		page.Listings = append(page.Listings, *listing)
	})

	if next := doc.Find(".andes-pagination__button--next"); next.Length() > 0 {
		hasNext := !next.HasClass("andes-pagination__button--disabled")
		page.HasNext = &hasNext
	}

	return page, nil
}

// blocked reports whether the document is the captcha page served
// with status 200 when the site throttles.
func blocked(doc *goquery.Document) bool {
	if doc.Find(".captcha, #captcha, form[action*='captcha'], iframe[src*='recaptcha']").Length() > 0 {
		return true
	}
	return strings.Contains(strings.ToLower(doc.Find("body").Text()), "no eres un robot")
}

func (s *Site) extractListing(item *goquery.Selection) (*domain.Listing, error) {
	href := htmlutil.FirstAttr(item, "href",
		"a.ui-search-result__link",
		"a.ui-search-link",
		"a.poly-component__title",
		"a",
	)

	m := idRe.FindStringSubmatch(href)
	if m == nil {
		return nil, &domain.ExtractionError{Reason: "no listing id in link"}
	}

	title := htmlutil.FirstAttr(item, "title", "img[title]")
	if title == "" {
		title = htmlutil.FirstText(item,
			"h2.ui-search-item__title",
			".ui-search-item__title",
			".poly-component__title",
		)
	}
	if title == "" {
		return nil, &domain.ExtractionError{Reason: "no title"}
	}

	listing := &domain.Listing{
		ExternalID:   "MLM-" + m[1],
		Title:        title,
		Price:        htmlutil.ParseAmount(htmlutil.FirstText(item, ".andes-money-amount__fraction", ".price-tag-fraction")),
		Currency:     currency(htmlutil.FirstText(item, ".andes-money-amount__currency-symbol")),
		Country:      country,
		PropertyType: htmlutil.InferPropertyType(title),
		Link:         htmlutil.CanonicalURL(s.baseURL, href),
		ImageURL:     imageURL(item),
		Source:       Name,
	}

	listing.Location = htmlutil.FirstText(item, ".ui-search-item__location", ".poly-component__location")
	listing.City, listing.State = htmlutil.SplitLocation(listing.Location)

	for _, q := range attributeSelectors {
		item.Find(q).Each(func(_ int, attr *goquery.Selection) {
			applyAttribute(listing, strings.ToLower(htmlutil.CleanText(attr.Text())))
		})
	}

	return listing, nil
}

func applyAttribute(l *domain.Listing, text string) {
	switch {
	case l.Bedrooms == 0 && (strings.Contains(text, "recámara") || strings.Contains(text, "dormitorio") || strings.Contains(text, "habitación")):
		if n, ok := htmlutil.FirstInt(text); ok {
			l.Bedrooms = n
		}
	case l.Bathrooms == 0 && strings.Contains(text, "baño"):
		if n, ok := htmlutil.FirstInt(text); ok {
			l.Bathrooms = n
		}
	case !l.AreaSqm.Valid && (strings.Contains(text, "m²") || strings.Contains(text, "m2")):
		l.AreaSqm = parseArea(text)
	}
}

// parseArea reads "120 m²" or a "90 - 120 m²" range, which averages.
func parseArea(text string) decimal.NullDecimal {
	m := rangeRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.NullDecimal{}
	}
	lo, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.NullDecimal{}
	}
	if m[2] == "" {
		return decimal.NewNullDecimal(lo)
	}
	hi, err := decimal.NewFromString(m[2])
	if err != nil {
		return decimal.NewNullDecimal(lo)
	}
	return decimal.NewNullDecimal(lo.Add(hi).Div(decimal.NewFromInt(2)).Round(0))
}

func currency(symbol string) string {
	if symbol == "U$S" || symbol == "US$" || symbol == "USD" {
		return "USD"
	}
	return "MXN"
}

func imageURL(item *goquery.Selection) string {
	img := item.Find("img").First()
	if src, ok := img.Attr("data-src"); ok && strings.HasPrefix(src, "http") {
		return src
	}
	if src, ok := img.Attr("src"); ok && strings.HasPrefix(src, "http") {
		return src
	}
	return ""
}
