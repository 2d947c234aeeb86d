package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/better-analytics/dashboard/internal/auth/access"
	"github.com/better-analytics/dashboard/internal/entity"
)

type grantKey struct{ dashboardID, userID string }

type fakeAccess struct {
	grants map[grantKey]access.Grant
	calls  int
	err    error
}

func (f *fakeAccess) ResolveAccess(_ context.Context, dashboardID, userID string) (access.Grant, bool, error) {
	f.calls++
	if f.err != nil {
		return access.Grant{}, false, f.err
	}
	g, ok := f.grants[grantKey{dashboardID, userID}]
	return g, ok, nil
}

type allowAll struct{}

func (allowAll) Allowed(string, string) bool { return true }

type denyAll struct{}

func (denyAll) Allowed(string, string) bool { return false }

func withUser(id string) context.Context {
	return WithPrincipal(context.Background(), entity.Principal{ID: id, Email: id + "@test"})
}

func TestAuthorizeWithoutPrincipal(t *testing.T) {
	acc := &fakeAccess{}
	g := New(acc, allowAll{}, nil)
	_, err := g.Authorize(context.Background(), "d1", "analytics:read")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if acc.calls != 0 {
		t.Fatal("access must not be resolved without a principal")
	}
}

func TestAuthorizeNoGrant(t *testing.T) {
	acc := &fakeAccess{grants: map[grantKey]access.Grant{}}
	g := New(acc, allowAll{}, nil)
	_, err := g.Authorize(withUser("u2"), "d1", "analytics:read")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizePermissionDenied(t *testing.T) {
	acc := &fakeAccess{grants: map[grantKey]access.Grant{
		{"d1", "u1"}: {Role: "viewer", SiteID: "acme-abc"},
	}}
	g := New(acc, denyAll{}, nil)
	_, err := g.Authorize(withUser("u1"), "d1", "dashboard:manage")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeAccessError(t *testing.T) {
	boom := errors.New("db down")
	g := New(&fakeAccess{err: boom}, allowAll{}, nil)
	_, err := g.Authorize(withUser("u1"), "d1", "analytics:read")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatal("store error must not collapse into forbidden")
	}
}

func TestAuthorizeBuildsContext(t *testing.T) {
	acc := &fakeAccess{grants: map[grantKey]access.Grant{
		{"d1", "u1"}: {Role: "admin", SiteID: "acme-abc"},
	}}
	g := New(acc, allowAll{}, nil)
	ac, err := g.Authorize(withUser("u1"), "d1", "analytics:read")
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if ac.SiteID != "acme-abc" || ac.UserID != "u1" || ac.DashboardID != "d1" || ac.Role != "admin" {
		t.Fatalf("unexpected auth context: %+v", ac)
	}
}

func TestWrapDoesNotInvokeOpOnDenial(t *testing.T) {
	acc := &fakeAccess{grants: map[grantKey]access.Grant{
		{"d1", "u1"}: {Role: "admin", SiteID: "acme-abc"},
	}}
	g := New(acc, allowAll{}, nil)
	invoked := 0
	op := Wrap(g, "analytics:read", func(_ context.Context, ac entity.AuthContext, _ struct{}) (string, error) {
		invoked++
		return ac.SiteID, nil
	})

	// u2 holds no grant for d1
	if _, err := op(withUser("u2"), "d1", struct{}{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if invoked != 0 {
		t.Fatal("operation must not run when authorization fails")
	}

	siteID, err := op(withUser("u1"), "d1", struct{}{})
	if err != nil {
		t.Fatalf("op: %v", err)
	}
	if siteID != "acme-abc" {
		t.Fatalf("expected injected site id acme-abc, got %q", siteID)
	}
	if invoked != 1 {
		t.Fatalf("expected exactly one invocation, got %d", invoked)
	}
}
