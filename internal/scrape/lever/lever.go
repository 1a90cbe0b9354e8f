package lever

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

const defaultBaseURL = "https://api.lever.co"

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

func (s *Scraper) Name() string { return "lever" }

type leverPosting struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"` // title
	HostedURL string          `json:"hostedUrl"`
	CreatedAt json.RawMessage `json:"createdAt"` // ms epoch, occasionally quoted
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
	DescriptionPlain string `json:"descriptionPlain"`
	Description      string `json:"description"` // html
}

func (s *Scraper) FetchCompany(ctx context.Context, co domain.Company) ([]domain.Job, error) {
	slug := strings.TrimSpace(co.Slug)
	if slug == "" {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("empty handle"))
	}
	apiURL := fmt.Sprintf("%s/v0/postings/%s?mode=json", strings.TrimRight(s.opts.BaseURL, "/"), url.PathEscape(slug))

	res, err := types.Get(ctx, s.hc, s.opts, apiURL, "application/json")
	if err != nil {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("lever get %s: %w", slug, err))
	}
	defer res.Body.Close()

	var postings []leverPosting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, types.Unavailable(s.Name(), fmt.Errorf("lever decode %s: %w", slug, err))
	}

	out := make([]domain.Job, 0, len(postings))
	for _, p := range postings {
		out = append(out, s.toJob(co, p))
	}
	return out, nil
}

func (s *Scraper) toJob(co domain.Company, p leverPosting) domain.Job {
	posted, err := util.ParseTimestamp(string(p.CreatedAt))
	if err != nil {
		s.opts.Logger.Debug("timestamp treated as unknown",
			zap.String("source", s.Name()),
			zap.String("company", co.ID()),
			zap.String("job_id", p.ID),
			zap.Error(err),
		)
	}

	desc := strings.TrimSpace(p.DescriptionPlain)
	if desc == "" {
		desc = util.HTMLToText(p.Description)
	}

	return domain.Job{
		Source:      domain.SourceLever,
		Company:     co.DisplayName(),
		Title:       util.CleanText(p.Text),
		Location:    util.CleanText(p.Categories.Location),
		URL:         strings.TrimSpace(p.HostedURL),
		PostedAt:    posted,
		Description: util.Truncate(util.CleanText(desc), s.opts.DescriptionChars),
		Mode:        domain.ModeNumeric,
	}
}
