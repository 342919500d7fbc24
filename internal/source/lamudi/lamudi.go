package lamudi

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/source/htmlutil"
)

const (
	Name           = "lamudi"
	DefaultBaseURL = "https://www.lamudi.com.mx"
	PageCeiling    = 10
	maxIDLength    = 50
)

var cardSelectors = []string{
	".listings__cards > div",
	".listings__cards > a",
	".ListingCell-row",
	"div[data-listing-id]",
	".listing-card",
	"article.listing",
	".property-card",
}

var typeSlugs = map[string]string{
	"casas":         "casa",
	"departamentos": "departamento",
	"terrenos":      "terreno",
	"locales":       "local-comercial",
	"oficinas":      "oficina",
	"bodegas":       "bodega",
}

var (
	priceRe    = regexp.MustCompile(`\$\s?[\d,.]+(\s*(MXN|USD|pesos))?`)
	bedroomRe  = regexp.MustCompile(`(?i)(\d+)\s*(recámaras?|habitaciones?|rec\.)`)
	bathroomRe = regexp.MustCompile(`(?i)(\d+)\s*baños?`)
	areaRe     = regexp.MustCompile(`(?i)(\d+)\s*m[²2]`)
	titleRe    = regexp.MustCompile(`(?i)(Casa|Departamento|Local|Oficina|Bodega|Terreno)[^,$]+`)
	slugClean  = regexp.MustCompile(`[^a-zA-Z0-9-]`)
)

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

// SearchURL builds a path from the descriptor facets. Lamudi has no
// equivalent for the amenity and area facets, so those are ignored.
func (s *Site) SearchURL(d domain.SearchDescriptor, page int) string {
	var segments []string
	if loc, ok := d.Facet(domain.FacetLocation); ok {
		segments = append(segments, loc)
	}
	if pt, ok := d.Facet(domain.FacetPropertyType); ok {
		if slug, ok := typeSlugs[pt]; ok {
			segments = append(segments, slug)
		}
	}
	op, _ := d.Facet(domain.FacetOperation)
	if op == "renta" {
		segments = append(segments, "for-rent")
	} else {
		segments = append(segments, "for-sale")
	}

	q := url.Values{}
	if band, ok := d.Facet(domain.FacetPriceBand); ok {
		var lo, hi int64
		if _, err := fmt.Sscanf(band, "%d-%d", &lo, &hi); err == nil {
			q.Set("priceMin", strconv.FormatInt(lo, 10))
			q.Set("priceMax", strconv.FormatInt(hi, 10))
		}
	}
	if beds, ok := d.Facet(domain.FacetBedrooms); ok {
		q.Set("bedrooms", beds)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}

	u := s.baseURL + "/" + strings.Join(segments, "/") + "/"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *Site) ExtractListings(body []byte) (*domain.SearchPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var cards *goquery.Selection
	for _, q := range cardSelectors {
		cards = doc.Find(q)
		if cards.Length() > 0 {
			break
		}
	}

	page := &domain.SearchPage{}
	cards.Each(func(_ int, card *goquery.Selection) {
		listing, err := s.extractListing(card)
		if err != nil {
			page.Dropped++
			return
		}
		page.Listings = append(page.Listings, *listing)
	})

	if next := doc.Find(`a[rel="next"], .pagination__next`); next.Length() > 0 {
		hasNext := !next.HasClass("disabled")
		page.HasNext = &hasNext
	}

	return page, nil
}

func (s *Site) extractListing(card *goquery.Selection) (*domain.Listing, error) {
	href, ok := card.Attr("href")
	if !ok || href == "" {
		href = htmlutil.FirstAttr(card, "href", "a[href]")
	}
	if href == "" {
		return nil, &domain.ExtractionError{Reason: "no link"}
	}

	id := externalID(href)
	if id == "" {
		return nil, &domain.ExtractionError{Reason: "no slug in link"}
	}

	text := htmlutil.CleanText(card.Text())

	title := htmlutil.FirstAttr(card, "alt", "img[alt]")
	if title == "" {
		title = htmlutil.FirstText(card, ".snippet__content__title", "h2", "h3")
	}
	if title == "" {
		title = strings.TrimSpace(titleRe.FindString(text))
	}
	if title == "" {
		return nil, &domain.ExtractionError{Reason: "no title"}
	}

	listing := &domain.Listing{
		ExternalID:   id,
		Title:        title,
		Currency:     "MXN",
		Country:      "México",
		PropertyType: htmlutil.InferPropertyType(title),
		Link:         htmlutil.CanonicalURL(s.baseURL, href),
		ImageURL:     htmlutil.FirstAttr(card, "src", "img[src]"),
		Source:       Name,
	}
	if listing.ImageURL == "" {
		listing.ImageURL = htmlutil.FirstAttr(card, "data-src", "img[data-src]")
	}

	if m := priceRe.FindString(text); m != "" {
		listing.Price = htmlutil.ParseAmount(m)
		if strings.Contains(m, "USD") {
			listing.Currency = "USD"
		}
	}

	listing.Location = htmlutil.FirstText(card, ".snippet__content__location", "[class*=location]")
	listing.City, listing.State = htmlutil.SplitLocation(listing.Location)

	if m := bedroomRe.FindStringSubmatch(text); m != nil {
		listing.Bedrooms, _ = strconv.Atoi(m[1])
	}
	if m := bathroomRe.FindStringSubmatch(text); m != nil {
		listing.Bathrooms, _ = strconv.Atoi(m[1])
	}
	if m := areaRe.FindStringSubmatch(text); m != nil {
		if d, err := decimal.NewFromString(m[1]); err == nil {
			listing.AreaSqm = decimal.NewNullDecimal(d)
		}
	}

	return listing, nil
}

// externalID derives LAMUDI-{slug} from the last path segment of the link.
func externalID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	var slug string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			slug = seg
		}
	}
	slug = slugClean.ReplaceAllString(slug, "")
	if slug == "" {
		return ""
	}
	return htmlutil.Truncate("LAMUDI-"+slug, maxIDLength)
}

func (s *Site) ExtractDetails(body []byte, now time.Time) (*domain.ListingDetails, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse detail page: %w", err)
	}
	root := doc.Selection

	description := htmlutil.FirstText(root, ".description__body", ".listing-description", "[class*=description]")
	title := htmlutil.FirstText(root, "h1")
	if title == "" && description == "" {
		return nil, &domain.ExtractionError{Reason: "not a listing detail page"}
	}

	details := &domain.ListingDetails{
		Description: htmlutil.StringPtr(htmlutil.Truncate(description, 5000)),
		FullAddress: htmlutil.StringPtr(htmlutil.FirstText(root, ".location-map__location-address", "[class*=address]")),
		SellerType:  htmlutil.StringPtr(sellerType(root)),
	}

	var amenities domain.StringList
	seen := map[string]bool{}
	root.Find(".amenities li, [class*=amenit] li, .facilities__item").Each(func(_ int, el *goquery.Selection) {
		if a := htmlutil.CleanText(el.Text()); a != "" && !seen[a] {
			seen[a] = true
			amenities = append(amenities, a)
		}
	})
	details.Amenities = amenities

	features := domain.StringMap{}
	root.Find(".details-item, .place-features__values").Each(func(_ int, el *goquery.Selection) {
		label := htmlutil.FirstText(el, ".details-item__title", ".place-features__label")
		value := htmlutil.FirstText(el, ".details-item__value", ".place-features__value")
		if label != "" && value != "" {
			features[label] = value
		}
	})
	if len(features) > 0 {
		details.Features = features
	}
	for label, value := range features {
		switch {
		case strings.Contains(label, "Estacionamiento"):
			if n, ok := htmlutil.FirstInt(value); ok {
				details.ParkingSpaces = &n
			}
		case strings.Contains(label, "Superficie construida"):
			if n, ok := htmlutil.FirstInt(value); ok {
				details.BuiltAreaSqm = decimal.NewNullDecimal(decimal.NewFromInt(int64(n)))
			}
		case strings.Contains(label, "Superficie"):
			if n, ok := htmlutil.FirstInt(value); ok {
				details.TotalAreaSqm = decimal.NewNullDecimal(decimal.NewFromInt(int64(n)))
			}
		}
	}

	var images domain.ImageList
	root.Find("[class*=gallery] img, .swiper-slide img").Each(func(i int, img *goquery.Selection) {
		src, _ := img.Attr("data-src")
		if !strings.HasPrefix(src, "http") {
			src, _ = img.Attr("src")
		}
		if strings.HasPrefix(src, "http") {
			alt, _ := img.Attr("alt")
			images = append(images, domain.Image{URL: src, Alt: alt})
		}
	})
	details.Images = images

	return details, nil
}

func sellerType(root *goquery.Selection) string {
	text := strings.ToLower(htmlutil.CleanText(root.Find("[class*=agent], [class*=advertiser]").Text()))
	switch {
	case strings.Contains(text, "inmobiliaria"), strings.Contains(text, "agencia"):
		return "inmobiliaria"
	case strings.Contains(text, "particular"), strings.Contains(text, "dueño"):
		return "particular"
	default:
		return "unknown"
	}
}
