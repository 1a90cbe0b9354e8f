package lever

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobradar/internal/domain"
	"jobradar/internal/scrape/types"
)

const postingsJSON = `[
  {"id": "a1", "text": "Full Stack Engineer", "hostedUrl": "https://jobs.lever.co/acme/a1",
   "createdAt": 1792153800000, "categories": {"location": "San Francisco, CA", "team": "Web"},
   "descriptionPlain": "Ship features end to end.", "description": "<p>ignored</p>"},
  {"id": "a2", "text": "Web Developer", "hostedUrl": "https://jobs.lever.co/acme/a2",
   "createdAt": "1792153800000", "categories": {"location": "Remote"},
   "description": "<div>Build <i>sites</i></div>"},
  {"id": "a3", "text": "Designer", "hostedUrl": "https://jobs.lever.co/acme/a3"}
]`

func TestFetchCompany(t *testing.T) {
	var gotPath, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMode = r.URL.Query().Get("mode")
		_, _ = w.Write([]byte(postingsJSON))
	}))
	defer srv.Close()

	s := New(types.Options{BaseURL: srv.URL})
	jobs, err := s.FetchCompany(context.Background(), domain.Company{Slug: "acme"})
	if err != nil {
		t.Fatalf("FetchCompany: %v", err)
	}
	if gotPath != "/v0/postings/acme" || gotMode != "json" {
		t.Fatalf("unexpected request %s mode=%s", gotPath, gotMode)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}

	want := time.Date(2026, 10, 16, 12, 30, 0, 0, time.UTC)
	j := jobs[0]
	if j.Source != domain.SourceLever || j.Company != "acme" || j.Title != "Full Stack Engineer" {
		t.Fatalf("unexpected job %+v", j)
	}
	if j.PostedAt == nil || !j.PostedAt.Equal(want) {
		t.Fatalf("unexpected posted_at %v", j.PostedAt)
	}
	if j.Location != "San Francisco, CA" || j.Description != "Ship features end to end." {
		t.Fatalf("unexpected mapping %+v", j)
	}

	if jobs[1].PostedAt == nil || !jobs[1].PostedAt.Equal(want) {
		t.Fatalf("quoted epoch not parsed: %v", jobs[1].PostedAt)
	}
	if jobs[1].Description != "Build sites" {
		t.Fatalf("expected html description fallback, got %q", jobs[1].Description)
	}

	if jobs[2].PostedAt != nil {
		t.Fatalf("missing createdAt must be unknown, got %v", jobs[2].PostedAt)
	}
}

func TestFetchCompanyUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(types.Options{BaseURL: srv.URL})
	if _, err := s.FetchCompany(context.Background(), domain.Company{Slug: "acme"}); !errors.Is(err, types.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
