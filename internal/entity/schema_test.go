package entity

import (
	"errors"
	"testing"
)

func TestAuthContextSchema(t *testing.T) {
	ok := AuthContext{DashboardID: "d1", UserID: "u1", SiteID: "acme-abc", Role: "admin"}
	if err := AuthContextSchema.Validate(ok); err != nil {
		t.Fatalf("valid context rejected: %v", err)
	}
	bad := AuthContext{DashboardID: "d1", UserID: "u1", Role: "admin"}
	var schemaErr *SchemaError
	if err := AuthContextSchema.Validate(bad); !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for missing site id, got %v", err)
	}
}

func TestGeoVisitorSchema(t *testing.T) {
	if err := GeoVisitorSchema.Validate(GeoVisitor{CountryCode: "DE", Visitors: 0}); err != nil {
		t.Fatalf("valid row rejected: %v", err)
	}
	if err := GeoVisitorSchema.Validate(GeoVisitor{CountryCode: "DEU", Visitors: 1}); err == nil {
		t.Fatal("3-letter country code must be rejected")
	}
	if err := GeoVisitorSchema.Validate(GeoVisitor{CountryCode: "", Visitors: 1}); err == nil {
		t.Fatal("empty country code must be rejected")
	}
}

func TestEventTypeRowSchema(t *testing.T) {
	if err := EventTypeRowSchema.Validate(EventTypeRow{EventName: "signup", Count: 0}); err != nil {
		t.Fatalf("valid row rejected: %v", err)
	}
	if err := EventTypeRowSchema.Validate(EventTypeRow{EventName: "", Count: 1}); err == nil {
		t.Fatal("empty event name must be rejected")
	}
}

func TestSummaryStatsSchema(t *testing.T) {
	if err := SummaryStatsSchema.Validate(SummaryStats{BounceRate: 100}); err != nil {
		t.Fatalf("valid stats rejected: %v", err)
	}
	if err := SummaryStatsSchema.Validate(SummaryStats{BounceRate: 101}); err == nil {
		t.Fatal("bounce rate above 100 must be rejected")
	}
}

func TestFunnelSchema(t *testing.T) {
	f := Funnel{ID: "f1", DashboardID: "d1", Name: "checkout", Steps: []string{"/a", "/b"}}
	if err := FunnelSchema.Validate(f); err != nil {
		t.Fatalf("valid funnel rejected: %v", err)
	}
	f.Steps = []string{"/a"}
	if err := FunnelSchema.Validate(f); err == nil {
		t.Fatal("single-step funnel must be rejected")
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := AuthContextSchema.Validate(AuthContext{})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Entity != "AuthContext" || len(schemaErr.Violations) == 0 {
		t.Fatalf("unexpected error contents: %+v", schemaErr)
	}
}
