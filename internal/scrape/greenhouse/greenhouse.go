package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/domain"
	"jobradar/internal/scrape/types"
	"jobradar/internal/scrape/util"
)

const defaultBaseURL = "https://boards-api.greenhouse.io"

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

func (s *Scraper) Name() string { return "greenhouse" }

type boardResponse struct {
	Jobs []posting `json:"jobs"`
}

type posting struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"` // html-escaped html
	Location    *struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (s *Scraper) FetchCompany(ctx context.Context, co domain.Company) ([]domain.Job, error) {
	slug := strings.TrimSpace(co.Slug)
	if slug == "" {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("empty board slug"))
	}
	apiURL := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", strings.TrimRight(s.opts.BaseURL, "/"), url.PathEscape(slug))

	res, err := types.Get(ctx, s.hc, s.opts, apiURL, "application/json")
	if err != nil {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("greenhouse get %s: %w", slug, err))
	}
	defer res.Body.Close()

	var br boardResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("greenhouse decode %s: %w", slug, err))
	}

	out := make([]domain.Job, 0, len(br.Jobs))
	for _, p := range br.Jobs {
		out = append(out, s.toJob(co, p))
	}
	return out, nil
}

func (s *Scraper) toJob(co domain.Company, p posting) domain.Job {
	loc := ""
	if p.Location != nil {
		loc = util.CleanText(p.Location.Name)
	}

	posted, err := util.ParseTimestamp(p.UpdatedAt)
	if err != nil {
		s.opts.Logger.Debug("timestamp treated as unknown",
			zap.String("source", s.Name()),
			zap.String("company", co.ID()),
			zap.Int64("job_id", p.ID),
			zap.Error(err),
		)
	}

	return domain.Job{
		Source:      domain.SourceGreenhouse,
		Company:     co.DisplayName(),
		Title:       util.CleanText(p.Title),
		Location:    loc,
		URL:         strings.TrimSpace(p.AbsoluteURL),
		PostedAt:    posted,
		Description: util.Truncate(util.HTMLToText(p.Content), s.opts.DescriptionChars),
		Mode:        domain.ModeNumeric,
	}
}
