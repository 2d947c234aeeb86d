// Package rbac maps dashboard roles to the operations they may perform.
// Roles come from the user_dashboards relation; this package only answers
// "may role X do Y", never who holds a role.
package rbac

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Permissions checked by the gate before invoking a wrapped operation.
const (
	PermAnalyticsRead   = "analytics:read"
	PermDashboardManage = "dashboard:manage"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Policy wraps a casbin enforcer over the role model.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the enforcer with the built-in dashboard role policy:
// admins manage and read, viewers only read.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	rules := [][]string{
		{"role:admin", "analytics", "read"},
		{"role:admin", "dashboard", "manage"},
		{"role:viewer", "analytics", "read"},
	}
	for _, r := range rules {
		if _, err := e.AddPolicy(r[0], r[1], r[2]); err != nil {
			return nil, fmt.Errorf("rbac policy: %w", err)
		}
	}
	return &Policy{enforcer: e}, nil
}

// Allowed reports whether role may perform permission ("obj:act").
func (p *Policy) Allowed(role, permission string) bool {
	obj, act, ok := strings.Cut(permission, ":")
	if !ok {
		return false
	}
	allowed, err := p.enforcer.Enforce("role:"+role, obj, act)
	if err != nil {
		return false
	}
	return allowed
}

// Grant adds a permission for a role. Used by tests and future role tiers.
func (p *Policy) Grant(role, permission string) error {
	obj, act, ok := strings.Cut(permission, ":")
	if !ok {
		return fmt.Errorf("bad permission %q", permission)
	}
	_, err := p.enforcer.AddPolicy("role:"+role, obj, act)
	return err
}
