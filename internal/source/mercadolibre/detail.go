package mercadolibre

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/source/htmlutil"
)

const descriptionLimit = 5000

var (
	areaValueRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*m²`)
	publishedRe = regexp.MustCompile(`Publicado hace (\d+) (días?|horas?|minutos?|meses|mes|años?)`)
	viewsRe     = regexp.MustCompile(`(\d+)\s*visitas`)
)

var (
	totalAreaLabels = []string{"Superficie total", "Área total"}
	builtAreaLabels = []string{"Superficie construida", "Área construida", "Construidos"}
	parkingLabels   = []string{"Estacionamientos", "Cocheras", "Parking"}
	ageLabels       = []string{"Antigüedad", "Años de antigüedad"}
)

func (s *Site) ExtractDetails(body []byte, now time.Time) (*domain.ListingDetails, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse detail page: %w", err)
	}
	root := doc.Selection

	title := htmlutil.FirstText(root, ".ui-pdp-title", "h1.item-title__primary", "h1")
	description := htmlutil.FirstText(root, ".ui-pdp-description__content", ".item-description__text")
	if title == "" && description == "" {
		return nil, &domain.ExtractionError{Reason: "not a listing detail page"}
	}

	rows := root.Find(".andes-table__row, .specs-item")

	details := &domain.ListingDetails{
		Description:    htmlutil.StringPtr(htmlutil.Truncate(description, descriptionLimit)),
		FullAddress:    htmlutil.StringPtr(fullAddress(root)),
		Neighborhood:   htmlutil.StringPtr(htmlutil.CleanText(root.Find(".andes-breadcrumb__item").Last().Text())),
		TotalAreaSqm:   areaByLabel(rows, totalAreaLabels),
		BuiltAreaSqm:   areaByLabel(rows, builtAreaLabels),
		ParkingSpaces:  intByLabel(rows, parkingLabels),
		PropertyAge:    intByLabel(rows, ageLabels),
		Amenities:      amenities(root),
		Features:       features(root),
		Images:         images(root),
		TechnicalSpecs: technicalSpecs(root),
		FloorPlanURL:   htmlutil.StringPtr(floorPlan(root)),
		SellerType:     htmlutil.StringPtr(sellerType(root)),
	}

	subtitle := htmlutil.CleanText(root.Find(".ui-pdp-header__subtitle").Text())
	details.PublishDate = publishDate(subtitle, now)
	if m := viewsRe.FindStringSubmatch(subtitle); m != nil {
		if n, ok := htmlutil.FirstInt(m[1]); ok {
			details.Views = &n
		}
	}

	return details, nil
}

func fullAddress(root *goquery.Selection) string {
	for _, q := range []string{".ui-pdp-media__body", ".map-address", ".location-info"} {
		if t := htmlutil.CleanText(root.Find(q).First().Text()); len(t) > 10 {
			return t
		}
	}
	return ""
}

func areaByLabel(rows *goquery.Selection, labels []string) decimal.NullDecimal {
	var out decimal.NullDecimal
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := htmlutil.CleanText(row.Text())
		if !containsAny(text, labels) {
			return true
		}
		m := areaValueRe.FindStringSubmatch(text)
		if m == nil {
			return true
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
		if err != nil {
			return true
		}
		out = decimal.NewNullDecimal(d)
		return false
	})
	return out
}

func intByLabel(rows *goquery.Selection, labels []string) *int {
	var out *int
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := htmlutil.CleanText(row.Text())
		if !containsAny(text, labels) {
			return true
		}
		if n, ok := htmlutil.FirstInt(text); ok {
			out = &n
			return false
		}
		return true
	})
	return out
}

func amenities(root *goquery.Selection) domain.StringList {
	var out domain.StringList
	seen := map[string]bool{}
	root.Find(".amenities-item, .ui-pdp-features__item").Each(func(_ int, el *goquery.Selection) {
		label := htmlutil.FirstText(el, ".ui-pdp-features__text")
		if label == "" {
			label = htmlutil.CleanText(el.Text())
		}
		if label != "" && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	})
	return out
}

func features(root *goquery.Selection) domain.StringMap {
	out := domain.StringMap{}
	root.Find(".andes-table__row, .ui-pdp-features__item").Each(func(_ int, el *goquery.Selection) {
		label := htmlutil.FirstText(el, ".andes-table__header", ".ui-pdp-features__label")
		value := htmlutil.FirstText(el, ".andes-table__column--value", ".ui-pdp-features__text")
		if label != "" && value != "" {
			out[label] = value
		}
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func technicalSpecs(root *goquery.Selection) domain.StringMap {
	out := domain.StringMap{}
	root.Find(".ui-pdp-specs__table .andes-table__row, .specs-container .spec-row").Each(func(_ int, el *goquery.Selection) {
		key := htmlutil.FirstText(el, ".andes-table__header", ".spec-label")
		value := htmlutil.FirstText(el, ".andes-table__column--value", ".spec-value")
		if key != "" && value != "" {
			out[key] = value
		}
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func images(root *goquery.Selection) domain.ImageList {
	var out domain.ImageList
	root.Find(".ui-pdp-gallery__figure img, .gallery-image img").Each(func(i int, img *goquery.Selection) {
		src := imgSource(img)
		if src == "" {
			return
		}
		alt, _ := img.Attr("alt")
		if alt == "" {
			alt = fmt.Sprintf("Image %d", i+1)
		}
		out = append(out, domain.Image{URL: src, Alt: alt})
	})
	if len(out) > 0 {
		return out
	}

	root.Find(".ui-pdp-thumbnails__item img").Each(func(i int, img *goquery.Selection) {
		if src := imgSource(img); src != "" {
			out = append(out, domain.Image{URL: thumbToFull(src), Alt: fmt.Sprintf("Image %d", i+1)})
		}
	})
	return out
}

var thumbSuffixRe = regexp.MustCompile(`-[A-Z]\.`)

func thumbToFull(src string) string {
	return thumbSuffixRe.ReplaceAllString(src, "-F.")
}

func imgSource(img *goquery.Selection) string {
	for _, attr := range []string{"data-src", "src"} {
		if v, ok := img.Attr(attr); ok && strings.HasPrefix(v, "http") {
			return v
		}
	}
	return ""
}

func floorPlan(root *goquery.Selection) string {
	img := root.Find(`img[alt*="plano"], img[alt*="Plano"], [class*="floor-plan"] img`).First()
	if img.Length() == 0 {
		return ""
	}
	if v, ok := img.Attr("src"); ok && v != "" {
		return v
	}
	v, _ := img.Attr("data-src")
	return v
}

func sellerType(root *goquery.Selection) string {
	badge := strings.ToLower(htmlutil.CleanText(root.Find(".ui-pdp-seller__badge, .seller-type").Text()))
	info := strings.ToLower(htmlutil.CleanText(root.Find(".ui-pdp-seller__header__info-container").Text()))
	switch {
	case strings.Contains(badge, "inmobiliaria"), strings.Contains(info, "inmobiliaria"):
		return "inmobiliaria"
	case strings.Contains(badge, "particular"):
		return "particular"
	default:
		return "unknown"
	}
}

// publishDate resolves "Publicado hace N días" relative to now.
func publishDate(subtitle string, now time.Time) *time.Time {
	m := publishedRe.FindStringSubmatch(subtitle)
	if m == nil {
		return nil
	}
	n, ok := htmlutil.FirstInt(m[1])
	if !ok {
		return nil
	}

	var t time.Time
	switch unit := m[2]; {
	case strings.HasPrefix(unit, "día"):
		t = now.AddDate(0, 0, -n)
	case strings.HasPrefix(unit, "hora"):
		t = now.Add(-time.Duration(n) * time.Hour)
	case strings.HasPrefix(unit, "minuto"):
		t = now.Add(-time.Duration(n) * time.Minute)
	case strings.HasPrefix(unit, "mes"):
		t = now.AddDate(0, -n, 0)
	default:
		t = now.AddDate(-n, 0, 0)
	}
	return &t
}

func containsAny(text string, labels []string) bool {
	for _, l := range labels {
		if strings.Contains(text, l) {
			return true
		}
	}
	return false
}
