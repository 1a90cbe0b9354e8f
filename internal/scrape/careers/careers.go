// Package careers is the best-effort adapter for careers search pages that
// expose no structured schema. The whole page becomes one record whose text
// the scorer judges as a yes/no fit.
package careers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobradar/internal/domain"
	"jobradar/internal/scrape/types"
	"jobradar/internal/scrape/util"
)

type Scraper struct {
	opts types.Options
	hc   *http.Client
}

func New(opts types.Options) *Scraper {
	opts = opts.WithDefaults()
	return &Scraper{opts: opts, hc: opts.HTTPClient()}
}

func (s *Scraper) Name() string { return "careers" }

func (s *Scraper) FetchCompany(ctx context.Context, co domain.Company) ([]domain.Job, error) {
	pageURL := strings.TrimSpace(co.URL)
	if pageURL == "" {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("empty page url for %q", co.Name))
	}

	res, err := types.Get(ctx, s.hc, s.opts, pageURL, "text/html")
	if err != nil {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("careers get %s: %w", pageURL, err))
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("careers parse %s: %w", pageURL, err))
	}

	title := util.CleanText(co.Role)
	if title == "" {
		title = util.PageTitle(doc)
	}
	loc := util.CleanText(co.Location)
	if loc == "" {
		loc = util.FindLocation(doc)
	}

	return []domain.Job{{
		Source:      domain.SourceCareers,
		Company:     co.DisplayName(),
		Title:       title,
		Location:    loc,
		URL:         pageURL,
		Description: util.Truncate(util.PageText(doc), s.opts.DescriptionChars),
		Mode:        domain.ModeBinary,
	}}, nil
}
