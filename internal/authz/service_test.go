package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bonosalud/bonos-api/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRoleCapabilityMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	cases := []struct {
		role       string
		capability string
		want       bool
	}{
		{constants.RoleRecepcion, CapabilityIssue, true},
		{constants.RoleRecepcion, CapabilityCancel, true},
		{constants.RoleRecepcion, CapabilityRedeem, false},
		{constants.RoleAdmin, CapabilityIssue, true},
		{constants.RoleAdmin, CapabilityCancel, true},
		{constants.RoleAdmin, CapabilityRedeem, false},
		{constants.RolePrestador, CapabilityRedeem, true},
		{constants.RolePrestador, CapabilityIssue, false},
		{constants.RolePrestador, CapabilityCancel, false},
	}
	for _, tc := range cases {
		got, err := svc.Can(tc.role, tc.capability)
		if err != nil {
			t.Fatalf("can(%s, %s) failed: %v", tc.role, tc.capability, err)
		}
		if got != tc.want {
			t.Fatalf("can(%s, %s) = %v, want %v", tc.role, tc.capability, got, tc.want)
		}
	}
}

func TestEnforceRoleRoutes(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	allow, err := svc.EnforceRole(constants.RoleRecepcion, "/api/v1/vouchers/42", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !allow {
		t.Fatalf("recepcion should read voucher detail")
	}

	allow, err = svc.EnforceRole(constants.RolePrestador, "/api/v1/vouchers/42", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("prestador must not read voucher detail")
	}

	allow, err = svc.EnforceRole(constants.RoleAdmin, "/api/v1/unresolved-scans", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !allow {
		t.Fatalf("admin should read unresolved scans")
	}

	allow, err = svc.EnforceRole(constants.RoleRecepcion, "/api/v1/unresolved-scans", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("recepcion must not read unresolved scans")
	}
}

func TestNormalizeRoleClosedSet(t *testing.T) {
	got, err := NormalizeRole(" Admin ")
	if err != nil {
		t.Fatalf("normalize known role failed: %v", err)
	}
	if got != "role:admin" {
		t.Fatalf("want role:admin, got: %s", got)
	}

	got, err = NormalizeRole("role:prestador")
	if err != nil {
		t.Fatalf("normalize prefixed role failed: %v", err)
	}
	if got != "role:prestador" {
		t.Fatalf("want role:prestador, got: %s", got)
	}

	if _, err := NormalizeRole("superuser"); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
	if _, err := NormalizeRole(""); err == nil {
		t.Fatalf("empty role must be rejected")
	}
}

func TestEnforceRoleUnknownRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.EnforceRole("ops", "/vouchers", "POST"); err == nil {
		t.Fatalf("unknown role must not be enforceable")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"/api/v1/vouchers":     "/vouchers",
		"/api/v1":              "/",
		"vouchers/redeem":      "/vouchers/redeem",
		"/unresolved-scans":    "/unresolved-scans",
		"":                     "/",
		"/api/v1/vouchers/:id": "/vouchers/:id",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("normalize %q = %q, want %q", input, got, want)
		}
	}
}
