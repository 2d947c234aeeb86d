package access

import (
	"context"
	"testing"

	"github.com/better-analytics/dashboard/internal/db"
	dashboardsgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/dashboards"
)

func newTestRepo(t *testing.T) *dashboardsgorm.Repo {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := dashboardsgorm.NewRepo(gdb)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func TestResolveAccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	d := &dashboardsgorm.DashboardRecord{ID: "d1", Domain: "acme.com", SiteID: "acme-abc"}
	if err := repo.Create(ctx, d, "u1", "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	r := NewResolver(repo)

	grant, ok, err := r.ResolveAccess(ctx, "d1", "u1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ok {
		t.Fatal("expected grant for owner")
	}
	if grant.Role != "admin" || grant.SiteID != "acme-abc" {
		t.Fatalf("unexpected grant: %+v", grant)
	}
}

func TestResolveAccessNoRelation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	d := &dashboardsgorm.DashboardRecord{ID: "d1", Domain: "acme.com", SiteID: "acme-abc"}
	if err := repo.Create(ctx, d, "u1", "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	r := NewResolver(repo)

	// u2 holds no relation; same answer as a dashboard that does not exist
	if _, ok, err := r.ResolveAccess(ctx, "d1", "u2"); err != nil || ok {
		t.Fatalf("expected absent grant without error, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := r.ResolveAccess(ctx, "missing", "u1"); err != nil || ok {
		t.Fatalf("expected absent grant without error, got ok=%v err=%v", ok, err)
	}
}
