package store

import (
	"context"
	"path/filepath"
	"testing"

	"jobradar/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRegistryOrderAndFamilies(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(openTestDB(t))

	for _, c := range []domain.Company{
		{ATSType: "greenhouse", Slug: "stripe", Name: "Stripe"},
		{ATSType: "lever", Slug: "rivian"},
		{ATSType: "Greenhouse ", Slug: " figma ", Name: "Figma"},
		{ATSType: "careers", Name: "Acme", URL: "https://acme.example/careers", Role: "Frontend Engineer"},
	} {
		if err := reg.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert(%+v): %v", c, err)
		}
	}

	gh, err := reg.Companies(ctx, "greenhouse")
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if len(gh) != 2 || gh[0].Slug != "stripe" || gh[1].Slug != "figma" {
		t.Fatalf("unexpected greenhouse companies %+v", gh)
	}
	if gh[1].ATSType != "greenhouse" || gh[1].Name != "Figma" {
		t.Fatalf("row not normalized: %+v", gh[1])
	}

	careers, err := reg.Companies(ctx, "careers")
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if len(careers) != 1 || careers[0].Role != "Frontend Engineer" {
		t.Fatalf("unexpected careers companies %+v", careers)
	}

	none, err := reg.Companies(ctx, "smartrecruiters")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty family, got %+v, %v", none, err)
	}
}

func TestRegistryUpsertAndDisable(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(openTestDB(t))

	if err := reg.Upsert(ctx, domain.Company{ATSType: "lever", Slug: "rivian", Name: "Rivian"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := reg.Upsert(ctx, domain.Company{ATSType: "lever", Slug: "rivian", Name: "Rivian Automotive"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	all, err := reg.All(ctx, "lever")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Rivian Automotive" {
		t.Fatalf("expected updated single row, got %+v", all)
	}

	ok, err := reg.SetEnabled(ctx, "lever", "rivian", false)
	if err != nil || !ok {
		t.Fatalf("SetEnabled: %v, %v", ok, err)
	}
	enabled, _ := reg.Companies(ctx, "lever")
	if len(enabled) != 0 {
		t.Fatalf("disabled company still listed: %+v", enabled)
	}
	all, _ = reg.All(ctx, "lever")
	if len(all) != 1 {
		t.Fatalf("disabled company missing from All: %+v", all)
	}

	ok, err = reg.SetEnabled(ctx, "lever", "missing", true)
	if err != nil || ok {
		t.Fatalf("expected no match, got %v, %v", ok, err)
	}
}

func TestRegistryUpsertRejectsIncomplete(t *testing.T) {
	reg := NewRegistry(openTestDB(t))
	if err := reg.Upsert(context.Background(), domain.Company{Slug: "x"}); err == nil {
		t.Fatalf("expected error for empty ats type")
	}
	if err := reg.Upsert(context.Background(), domain.Company{ATSType: "lever"}); err == nil {
		t.Fatalf("expected error for missing slug and url")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db.Pool); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var v int
	if err := db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if v != schemaVersion {
		t.Fatalf("expected schema version %d, got %d", schemaVersion, v)
	}
}
