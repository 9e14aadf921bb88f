// Package authz decides whether an admin role may use a part of the admin API.
// Roles form a hierarchy: manager inherits everything editor may do.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/dmitrijs2005/foodrecipe/internal/common"
)

// The request object is the role a route requires.
const rbacModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds the in-memory enforcer with the built-in policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}

	for _, role := range []string{common.RoleEditor, common.RoleManager} {
		if _, err := e.AddPolicy(role, role); err != nil {
			return nil, fmt.Errorf("authz policy: %w", err)
		}
	}
	if _, err := e.AddGroupingPolicy(common.RoleManager, common.RoleEditor); err != nil {
		return nil, fmt.Errorf("authz grouping policy: %w", err)
	}

	return &Enforcer{enforcer: e}, nil
}

// Allowed reports whether an account with role may access routes that
// require the required role.
func (e *Enforcer) Allowed(role, required string) (bool, error) {
	return e.enforcer.Enforce(role, required)
}
