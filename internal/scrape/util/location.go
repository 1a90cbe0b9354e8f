package util

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText strips markup from a posting body. Greenhouse double-escapes
// its content field, so entities are unescaped before parsing.
func HTMLToText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "&lt;") {
		s = html.UnescapeString(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	return PageText(doc)
}

// PageText returns the visible text of a page with scripts and styles dropped.
func PageText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, svg, template").Remove()
	var parts []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	if len(parts) == 0 {
		parts = append(parts, doc.Text())
	}
	return CleanText(strings.Join(parts, " "))
}

// PageTitle returns the <title> or first <h1>.
func PageTitle(doc *goquery.Document) string {
	if t := CleanText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return CleanText(doc.Find("h1").First().Text())
}

// FindLocation looks for a location on a careers page using common
// selectors, then "Location:" labels in meta and body text.
func FindLocation(doc *goquery.Document) string {
	candidates := []string{
		".location",
		".job__location",
		"[itemprop='jobLocation']",
		"[data-testid='job-location']",
		"[data-testid='location']",
		"[data-qa='location']",
	}

	for _, sel := range candidates {
		if t := CleanText(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}

	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if loc := ExtractLocationFromLabeledText(v); loc != "" {
			return loc
		}
	}

	return ExtractLocationFromLabeledText(doc.Find("body").Text())
}

// ExtractLocationFromLabeledText extracts the text after a "Location:" label.
func ExtractLocationFromLabeledText(s string) string {
	low := strings.ToLower(s)

	labels := []string{
		"job location:",
		"locations:",
		"location:",
	}

	for _, lab := range labels {
		i := strings.Index(low, lab)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(s[i+len(lab):])

		// stop at newline-ish boundaries if present
		for _, cut := range []string{"\n", "\r", " | ", " · "} {
			if j := strings.Index(rest, cut); j >= 0 {
				rest = rest[:j]
			}
		}

		rest = CleanText(rest)
		if rest != "" && len(rest) <= 80 {
			return rest
		}
	}
	return ""
}
