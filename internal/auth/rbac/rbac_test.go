package rbac

import "testing"

func TestRolePermissions(t *testing.T) {
	p, err := NewPolicy()
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	if !p.Allowed("admin", PermAnalyticsRead) {
		t.Fatal("admin must read analytics")
	}
	if !p.Allowed("admin", PermDashboardManage) {
		t.Fatal("admin must manage dashboards")
	}
	if !p.Allowed("viewer", PermAnalyticsRead) {
		t.Fatal("viewer must read analytics")
	}
	if p.Allowed("viewer", PermDashboardManage) {
		t.Fatal("viewer must not manage dashboards")
	}
	if p.Allowed("nobody", PermAnalyticsRead) {
		t.Fatal("unknown role must be denied")
	}
	if p.Allowed("admin", "not-a-permission") {
		t.Fatal("malformed permission must be denied")
	}
}

func TestGrant(t *testing.T) {
	p, err := NewPolicy()
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	if p.Allowed("editor", PermDashboardManage) {
		t.Fatal("editor not granted yet")
	}
	if err := p.Grant("editor", PermDashboardManage); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !p.Allowed("editor", PermDashboardManage) {
		t.Fatal("grant did not take effect")
	}
	if err := p.Grant("editor", "malformed"); err == nil {
		t.Fatal("expected error for malformed permission")
	}
}
