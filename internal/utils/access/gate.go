package access

import (
	"context"
	"fmt"

	"employee_roster/internal/domain"
)

// Capability names what an operation requires of its caller.
type Capability int

const (
	Public Capability = iota
	Authenticated
	AdminOnly
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Roles lists the roles that satisfy c. Nil means any authenticated caller.
func (c Capability) Roles() []domain.Role {
	if c == AdminOnly {
		return []domain.Role{domain.ADMIN}
	}
	return nil
}

// Policy maps API operations to the capability they require.
// Reads need any authenticated caller; every write needs an admin.
var Policy = map[string]Capability{
	"employees":      Authenticated,
	"employee":       Authenticated,
	"register":       Public,
	"login":          Public,
	"addEmployee":    AdminOnly,
	"updateEmployee": AdminOnly,
	"deleteEmployee": AdminOnly,
}

// Authorize fails with ErrUnauthenticated for an anonymous caller and with
// ErrForbidden when roles is non-empty and the caller's role is not listed.
func Authorize(identity domain.Identity, roles ...domain.Role) error {
	switch id := identity.(type) {
	case domain.Authenticated:
		if len(roles) == 0 {
			return nil
		}
		for _, r := range roles {
			if id.Claims.Role == r {
				return nil
			}
		}
		return domain.ErrForbidden
	default:
		return domain.ErrUnauthenticated
	}
}

// Require checks the caller in ctx against the policy entry for operation.
// Operations missing from the policy require an admin.
func Require(ctx context.Context, operation string) error {
	capability, ok := Policy[operation]
	if !ok {
		capability = AdminOnly
	}
	if capability == Public {
		return nil
	}
	return Authorize(FromContext(ctx), capability.Roles()...)
}
