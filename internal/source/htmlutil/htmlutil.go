// Package htmlutil holds text helpers shared by the site extractors.
package htmlutil

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"listing_crawler/internal/domain"
)

var (
	spaceRe  = regexp.MustCompile(`\s+`)
	intRe    = regexp.MustCompile(`\d+`)
	nonDigit = regexp.MustCompile(`[^\d]`)
)

func CleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// FirstText returns the cleaned text of the first selector that matches
// something non-empty.
func FirstText(sel *goquery.Selection, selectors ...string) string {
	for _, q := range selectors {
		if t := CleanText(sel.Find(q).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// FirstAttr returns the first non-empty attribute across selectors.
func FirstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, q := range selectors {
		if v, ok := sel.Find(q).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func FirstInt(s string) (int, bool) {
	m := intRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseAmount keeps only the digits of a formatted price.
func ParseAmount(s string) decimal.NullDecimal {
	digits := nonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SplitLocation splits "Colonia, Ciudad, Estado" into city and state.
func SplitLocation(location string) (city, state string) {
	var parts []string
	for _, p := range strings.Split(location, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[len(parts)-2], parts[len(parts)-1]
	}
}

// InferPropertyType guesses the property type from a listing title.
func InferPropertyType(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "casa"):
		return domain.PropertyHouse
	case strings.Contains(t, "departamento"), strings.Contains(t, "depto"):
		return domain.PropertyApartment
	case strings.Contains(t, "terreno"):
		return domain.PropertyLand
	case strings.Contains(t, "local"):
		return domain.PropertyCommercial
	case strings.Contains(t, "oficina"):
		return domain.PropertyOffice
	case strings.Contains(t, "bodega"):
		return domain.PropertyWarehouse
	default:
		return domain.PropertyOther
	}
}

// CanonicalURL resolves href against base and strips query and fragment.
func CanonicalURL(base, href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		b, err := url.Parse(base)
		if err != nil {
			return ""
		}
		u = b.ResolveReference(u)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
