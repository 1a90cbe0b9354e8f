package smartrecruiters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/domain"
	"jobradar/internal/scrape/types"
	"jobradar/internal/scrape/util"
)

const (
	defaultBaseURL = "https://api.smartrecruiters.com"
	jobsHost       = "https://jobs.smartrecruiters.com"
	pageSize       = 100
	maxOffset      = 5000
)

type Scraper struct {
	opts types.Options
	hc   *http.Client
}

func New(opts types.Options) *Scraper {
	opts = opts.WithDefaults()
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	return &Scraper{opts: opts, hc: opts.HTTPClient()}
}

func (s *Scraper) Name() string { return "smartrecruiters" }

// Response schema (public API) is typically:
// { "content": [...], "totalFound": N, "offset": O, "limit": L }
// but we defensively parse only what we need.
type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
}

type posting struct {
	ID           string `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	ReleasedDate string `json:"releasedDate"`
	Ref          string `json:"ref"`
	Location     struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
}

func (s *Scraper) FetchCompany(ctx context.Context, co domain.Company) ([]domain.Job, error) {
	slug := strings.TrimSpace(co.Slug)
	if slug == "" {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("empty slug"))
	}

	base := fmt.Sprintf("%s/v1/companies/%s/postings", strings.TrimRight(s.opts.BaseURL, "/"), url.PathEscape(slug))

	var out []domain.Job
	for offset := 0; offset <= maxOffset; offset += pageSize {
		page, total, err := s.fetchPage(ctx, fmt.Sprintf("%s?limit=%d&offset=%d", base, pageSize, offset))
		if err != nil {
			return nil, types.Unavailable(s.Name(), fmt.Errorf("smartrecruiters %s offset %d: %w", slug, offset, err))
		}
		for _, p := range page {
			out = append(out, s.toJob(co, slug, p))
		}
		if len(page) == 0 || (total > 0 && offset+pageSize >= total) {
			break
		}
	}
	return out, nil
}

func (s *Scraper) fetchPage(ctx context.Context, u string) ([]posting, int, error) {
	res, err := types.Get(ctx, s.hc, s.opts, u, "application/json")
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	var pr postingsResponse
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return nil, 0, fmt.Errorf("decode: %w", err)
	}
	return pr.Content, pr.TotalFound, nil
}

func (s *Scraper) toJob(co domain.Company, slug string, p posting) domain.Job {
	id := strings.TrimSpace(util.FirstNonEmpty(p.ID, p.UUID, refID(p.Ref)))
	jobURL := ""
	if id != "" {
		jobURL = fmt.Sprintf("%s/%s/%s", jobsHost, url.PathEscape(slug), url.PathEscape(id))
	}

	parts := util.NonEmpty(p.Location.City, p.Location.Region, p.Location.Country)
	if p.Location.Remote {
		parts = append([]string{"Remote"}, parts...)
	}
	loc := strings.Join(parts, ", ")

	posted, err := util.ParseTimestamp(p.ReleasedDate)
	if err != nil {
		s.opts.Logger.Debug("timestamp treated as unknown",
			zap.String("source", s.Name()),
			zap.String("company", co.ID()),
			zap.String("job_id", id),
			zap.Error(err),
		)
	}

	return domain.Job{
		Source:   domain.SourceSmartRecruiters,
		Company:  co.DisplayName(),
		Title:    util.CleanText(p.Name),
		Location: loc,
		URL:      jobURL,
		PostedAt: posted,
		Mode:     domain.ModeNumeric,
	}
}

// refID takes the posting id off the end of an API ref URL
// (".../v1/companies/acme/postings/744000" -> "744000").
func refID(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" || seg == "postings" {
		return ""
	}
	return seg
}
