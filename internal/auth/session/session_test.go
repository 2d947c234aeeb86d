package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/better-analytics/dashboard/internal/entity"
)

func TestIssueResolveCookie(t *testing.T) {
	m := NewManager("secret", "test")
	tok, err := m.Issue(entity.Principal{ID: "u1", Email: "u1@test", Role: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", CookieName+"="+tok)
	p, ok := m.Resolve(r)
	if !ok {
		t.Fatal("expected principal from cookie")
	}
	if p.ID != "u1" || p.Email != "u1@test" || p.Role != "user" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestResolveBearer(t *testing.T) {
	m := NewManager("secret", "test")
	tok, err := m.Issue(entity.Principal{ID: "u1", Email: "u1@test"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if _, ok := m.Resolve(r); !ok {
		t.Fatal("expected principal from bearer token")
	}
}

func TestResolveAbsent(t *testing.T) {
	m := NewManager("secret", "test")
	if _, ok := m.Resolve(httptest.NewRequest("GET", "/", nil)); ok {
		t.Fatal("expected absent without token")
	}
}

func TestResolveTampered(t *testing.T) {
	m := NewManager("secret", "test")
	other := NewManager("other-secret", "test")
	tok, err := other.Issue(entity.Principal{ID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if _, ok := m.Resolve(r); ok {
		t.Fatal("token signed with another secret must not resolve")
	}
}

func TestResolveExpired(t *testing.T) {
	m := NewManager("secret", "test")
	tok, err := m.Issue(entity.Principal{ID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if _, ok := m.Resolve(r); ok {
		t.Fatal("expired token must not resolve")
	}
}
