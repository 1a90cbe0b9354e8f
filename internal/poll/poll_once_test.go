package poll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/config"
	"jobradar/internal/digest"
	"jobradar/internal/domain"
	"jobradar/internal/rank"
	"jobradar/internal/scrape"
	"jobradar/internal/scrape/greenhouse"
	"jobradar/internal/scrape/types"
)

var pollNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type captureNotifier struct {
	mu      sync.Mutex
	calls   int
	subject string
	body    string
	err     error
}

func (c *captureNotifier) Notify(_ context.Context, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.subject, c.body = subject, body
	return c.err
}

type funcGenerator func(ctx context.Context, prompt string) (string, error)

func (f funcGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type countingGenerator struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (g *countingGenerator) GenerateContent(context.Context, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.reply, nil
}

type posting struct {
	Title    string
	Location string
	Updated  string
	ID       int
}

func boardJSON(ps ...posting) string {
	var items []string
	for _, p := range ps {
		items = append(items, fmt.Sprintf(
			`{"id": %d, "title": %q, "absolute_url": "https://boards.example.com/acme/%d", "updated_at": %q, "location": {"name": %q}, "content": "Build things"}`,
			p.ID, p.Title, p.ID, p.Updated, p.Location))
	}
	return `{"jobs": [` + strings.Join(items, ",") + `]}`
}

func boardServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for slug, body := range bodies {
			if r.URL.Path == "/v1/boards/"+slug+"/jobs" {
				_, _ = w.Write([]byte(body))
				return
			}
		}
		http.Error(w, "unknown board", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, slugs ...string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Sources.Lever.Enabled = false
	cfg.Sources.Greenhouse = config.Family{Enabled: true}
	for _, s := range slugs {
		cfg.Sources.Greenhouse.Companies = append(cfg.Sources.Greenhouse.Companies, config.Company{Slug: s, Name: strings.ToUpper(s[:1]) + s[1:]})
	}
	cfg.Scoring.DelayMS = 0
	cfg.Scoring.TimeoutSeconds = 1
	cfg.Notify.Kind = "log"

	cfg, v := config.NormalizeAndValidate(cfg)
	if err := v.Err(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func deps(t *testing.T, cfg config.Config, srv *httptest.Server, gen rank.Generator, n *captureNotifier) Deps {
	t.Helper()
	return Deps{
		Config:   cfg,
		Registry: config.StaticRegistry{Sources: cfg.Sources},
		Adapters: map[string]types.Adapter{"greenhouse": greenhouse.New(types.Options{BaseURL: srv.URL})},
		Scorer:   rank.NewScorer(gen, cfg.Scoring, cfg.Profile, zap.NewNop()),
		Notifier: n,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return pollNow },
		RunID:    "test-run",
	}
}

func reply(s string) rank.Generator {
	return funcGenerator(func(context.Context, string) (string, error) { return s, nil })
}

func TestRunOnceNoPostings(t *testing.T) {
	cfg := testConfig(t, "acme")
	srv := boardServer(t, map[string]string{"acme": boardJSON()})
	n := &captureNotifier{}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, reply("90"), n))
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Digest.Variant != digest.VariantEmpty {
		t.Fatalf("expected empty variant, got %s", rep.Digest.Variant)
	}
	if n.calls != 1 || n.subject != rep.Digest.Subject {
		t.Fatalf("expected one notification with the digest subject, got %d %q", n.calls, n.subject)
	}
	if !rep.Delivered {
		t.Fatalf("expected Delivered")
	}
}

func TestRunOnceAllSourcesFail(t *testing.T) {
	cfg := testConfig(t, "gone", "missing")
	srv := boardServer(t, map[string]string{})
	n := &captureNotifier{}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, reply("90"), n))
	if err != nil {
		t.Fatalf("source failures must not fail the run: %v", err)
	}
	if rep.Digest.Variant != digest.VariantEmpty {
		t.Fatalf("expected empty variant, got %s", rep.Digest.Variant)
	}
	if len(rep.FailedSources) != 2 || rep.FailedSources[0] != "greenhouse/gone" || rep.FailedSources[1] != "greenhouse/missing" {
		t.Fatalf("unexpected failed sources %v", rep.FailedSources)
	}
	if !strings.Contains(n.body, "failing sources: greenhouse/gone, greenhouse/missing") {
		t.Fatalf("failing sources missing from body:\n%s", n.body)
	}
}

func TestRunOnceSeniorRejected(t *testing.T) {
	cfg := testConfig(t, "acme")
	srv := boardServer(t, map[string]string{"acme": boardJSON(
		posting{ID: 1, Title: "Senior Software Engineer", Location: "United States", Updated: "2026-10-16T11:00:00Z"},
	)})
	gen := &countingGenerator{reply: "95"}
	n := &captureNotifier{}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, gen, n))
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Fetched != 1 || rep.Kept != 0 || rep.Rejected[scrape.ReasonTitleExcluded] != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if gen.calls != 0 {
		t.Fatalf("rejected job must not be scored")
	}
	if rep.Digest.Variant != digest.VariantEmpty {
		t.Fatalf("expected empty variant, got %s", rep.Digest.Variant)
	}
}

func TestRunOnceHit(t *testing.T) {
	cfg := testConfig(t, "acme")
	srv := boardServer(t, map[string]string{"acme": boardJSON(
		posting{ID: 7, Title: "Frontend Engineer", Location: "Remote - US", Updated: "2026-10-16T11:00:00Z"},
	)})
	n := &captureNotifier{}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, reply("72"), n))
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Digest.Variant != digest.VariantHits {
		t.Fatalf("expected hits variant, got %s", rep.Digest.Variant)
	}
	if len(rep.Digest.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %+v", rep.Digest.Entries)
	}

	e := rep.Digest.Entries[0]
	if e.Score != 72 {
		t.Fatalf("expected score 72, got %d", e.Score)
	}
	if e.Title != "Frontend Engineer" || e.Location != "Remote - US" || e.URL != "https://boards.example.com/acme/7" {
		t.Fatalf("record fields were not preserved: %+v", e)
	}
	if e.Source != string(domain.SourceGreenhouse) || e.Company != "Acme" {
		t.Fatalf("unexpected source/company %+v", e)
	}
	if !strings.Contains(n.body, "https://boards.example.com/acme/7") {
		t.Fatalf("apply url missing from delivered body:\n%s", n.body)
	}
}

func TestRunOnceScorerTimeoutKeepsRecord(t *testing.T) {
	cfg := testConfig(t, "acme")
	srv := boardServer(t, map[string]string{"acme": boardJSON(
		posting{ID: 7, Title: "Frontend Engineer", Location: "Remote - US", Updated: "2026-10-16T11:00:00Z"},
	)})
	gen := funcGenerator(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	n := &captureNotifier{}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, gen, n))
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Scored != 1 {
		t.Fatalf("expected the record to be scored with the fallback, got %d", rep.Scored)
	}
	if len(rep.Digest.Entries) != 1 {
		t.Fatalf("expected the record in the digest, got %+v", rep.Digest)
	}
	e := rep.Digest.Entries[0]
	if !e.Fallback || e.Score != cfg.Scoring.FallbackScore {
		t.Fatalf("expected fallback score %d, got %+v", cfg.Scoring.FallbackScore, e)
	}
	if !strings.Contains(n.body, "https://boards.example.com/acme/7") {
		t.Fatalf("record missing from delivered body:\n%s", n.body)
	}
}

func TestRunOnceDeliveryFailure(t *testing.T) {
	cfg := testConfig(t, "acme")
	srv := boardServer(t, map[string]string{"acme": boardJSON()})
	n := &captureNotifier{err: errors.New("smtp down")}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, reply("90"), n))
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if rep.Delivered || rep.Digest.Subject == "" {
		t.Fatalf("expected a built but undelivered digest, got %+v", rep)
	}
}

func TestRunOnceKeepsRegistryOrder(t *testing.T) {
	cfg := testConfig(t, "slow", "fast")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/boards/slow/jobs":
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(boardJSON(posting{ID: 1, Title: "Software Engineer", Location: "Austin, TX", Updated: "2026-10-16T11:00:00Z"})))
		case "/v1/boards/fast/jobs":
			_, _ = w.Write([]byte(boardJSON(posting{ID: 2, Title: "Software Engineer", Location: "Austin, TX", Updated: "2026-10-16T11:00:00Z"})))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n := &captureNotifier{}
	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, reply("80"), n))
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(rep.Digest.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", rep.Digest.Entries)
	}
	if rep.Digest.Entries[0].Company != "Slow" || rep.Digest.Entries[1].Company != "Fast" {
		t.Fatalf("equal scores must keep registry order, got %q then %q",
			rep.Digest.Entries[0].Company, rep.Digest.Entries[1].Company)
	}
}

func TestRunOnceCapsScoring(t *testing.T) {
	cfg := testConfig(t, "acme")
	cfg.Scoring.MaxJobs = 1
	srv := boardServer(t, map[string]string{"acme": boardJSON(
		posting{ID: 1, Title: "Software Engineer", Location: "United States", Updated: "2026-10-16T11:00:00Z"},
		posting{ID: 2, Title: "Full Stack Engineer", Location: "United States", Updated: "2026-10-16T11:00:00Z"},
	)})
	gen := &countingGenerator{reply: "75"}
	n := &captureNotifier{}

	rep, err := RunOnce(context.Background(), deps(t, cfg, srv, gen, n))
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Kept != 2 || rep.Scored != 1 || gen.calls != 1 {
		t.Fatalf("expected 2 kept and 1 scored, got kept=%d scored=%d calls=%d", rep.Kept, rep.Scored, gen.calls)
	}
	if rep.Digest.Entries[0].Title != "Full Stack Engineer" {
		t.Fatalf("expected the higher-priority job to be scored, got %+v", rep.Digest.Entries)
	}
}

type brokenRegistry struct{}

func (brokenRegistry) Companies(context.Context, string) ([]domain.Company, error) {
	return nil, errors.New("database is locked")
}

func TestRunOnceRegistryFailure(t *testing.T) {
	cfg := testConfig(t, "acme")
	srv := boardServer(t, map[string]string{})
	n := &captureNotifier{}

	d := deps(t, cfg, srv, reply("90"), n)
	d.Registry = brokenRegistry{}

	rep, err := RunOnce(context.Background(), d)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if rep.Digest.Variant != digest.VariantEmpty || n.calls != 1 {
		t.Fatalf("expected the zero-matches digest to be delivered, got %+v", rep)
	}

	d.Registry = nil
	if _, err := RunOnce(context.Background(), d); err != nil {
		t.Fatalf("missing registry: %v", err)
	}
}

func TestFamilies(t *testing.T) {
	var src config.Sources
	src.Lever.Enabled = true
	src.Careers.Enabled = true
	got := Families(src)
	if len(got) != 2 || got[0] != "lever" || got[1] != "careers" {
		t.Fatalf("unexpected families %v", got)
	}
}

func TestAdapters(t *testing.T) {
	ads := Adapters(config.Default().Sources, zap.NewNop())
	for _, fam := range []string{"greenhouse", "lever", "smartrecruiters", "careers"} {
		if _, ok := ads[fam]; !ok {
			t.Fatalf("missing adapter for %s", fam)
		}
	}
}
