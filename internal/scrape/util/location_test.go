package util

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestHTMLToText(t *testing.T) {
	escaped := "&lt;p&gt;Build &lt;strong&gt;React&lt;/strong&gt; apps&lt;/p&gt;&lt;script&gt;evil()&lt;/script&gt;"
	if got := HTMLToText(escaped); got != "Build React apps" {
		t.Fatalf("HTMLToText(escaped) = %q", got)
	}
	if got := HTMLToText("<ul><li>Go</li> <li>SQL</li></ul>"); got != "Go SQL" {
		t.Fatalf("HTMLToText(plain) = %q", got)
	}
	if got := HTMLToText("   "); got != "" {
		t.Fatalf("HTMLToText(blank) = %q", got)
	}
}

func TestPageHelpers(t *testing.T) {
	page := `<html><head><title> Careers at Acme </title>
<style>.x{}</style></head>
<body><h1>Open roles</h1>
<div class="job__location">Austin, TX</div>
<p>We are hiring engineers.</p></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := PageTitle(doc); got != "Careers at Acme" {
		t.Fatalf("PageTitle = %q", got)
	}
	if got := FindLocation(doc); got != "Austin, TX" {
		t.Fatalf("FindLocation = %q", got)
	}
	text := PageText(doc)
	if !strings.Contains(text, "We are hiring engineers.") || strings.Contains(text, ".x{}") {
		t.Fatalf("PageText = %q", text)
	}
}

func TestExtractLocationFromLabeledText(t *testing.T) {
	if got := ExtractLocationFromLabeledText("Team: Web\nLocation: Remote (US)\nApply now"); got != "Remote (US)" {
		t.Fatalf("got %q", got)
	}
	if got := ExtractLocationFromLabeledText("no label here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
