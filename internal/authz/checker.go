package authz

import (
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

// Principal is the authenticated staff member a check runs against.
type Principal struct {
	Role        enums.StaffRole
	IsSuperuser bool
}

type Checker interface {
	Allowed(p Principal, capability Capability) bool
	Require(p Principal, capability Capability) error
}

type checker struct {
	grants map[Capability]map[enums.StaffRole]struct{}
}

func NewChecker(policy Policy) Checker {
	grants := make(map[Capability]map[enums.StaffRole]struct{}, len(policy))
	for capability, roles := range policy {
		set := make(map[enums.StaffRole]struct{}, len(roles))
		for _, role := range roles {
			set[role] = struct{}{}
		}
		grants[capability] = set
	}
	return &checker{grants: grants}
}

// Allowed reports whether p holds capability. Superusers hold every capability,
// including ones missing from the policy.
func (c *checker) Allowed(p Principal, capability Capability) bool {
	if p.IsSuperuser {
		return true
	}
	roles, ok := c.grants[capability]
	if !ok || !p.Role.IsValid() {
		return false
	}
	_, ok = roles[p.Role]
	return ok
}

func (c *checker) Require(p Principal, capability Capability) error {
	if c.Allowed(p, capability) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions").
		WithDetails(map[string]any{"capability": string(capability)})
}
