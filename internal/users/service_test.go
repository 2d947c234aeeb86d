package users

import (
	"context"
	"errors"
	"testing"

	"github.com/better-analytics/dashboard/internal/db"
	usersgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/users"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := usersgorm.NewRepo(gdb)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(repo)
}

func TestSignupAndVerify(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p, err := svc.Signup(ctx, "u1@test", "U One", "hunter22")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if p.ID == "" || p.Email != "u1@test" {
		t.Fatalf("unexpected principal: %+v", p)
	}

	got, ok := svc.VerifyCredentials(ctx, "u1@test", "hunter22")
	if !ok {
		t.Fatal("expected credentials to verify")
	}
	if got.ID != p.ID {
		t.Fatalf("expected principal %s, got %s", p.ID, got.ID)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "u1@test", "U One", "hunter22"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "u1@test", "Other", "different"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestVerifyCredentialsMismatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "u1@test", "U One", "hunter22"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	// wrong password and unknown account give the same answer
	if _, ok := svc.VerifyCredentials(ctx, "u1@test", "wrong"); ok {
		t.Fatal("wrong password must not verify")
	}
	if _, ok := svc.VerifyCredentials(ctx, "nobody@test", "hunter22"); ok {
		t.Fatal("unknown email must not verify")
	}
}
