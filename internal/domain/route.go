package domain

import (
	"fmt"
	"strings"
)

const (
	RouteHome           = "/"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteConnectionTest = "/test-connection"
	RouteAccount        = "/account"
	RouteNoRole         = "/no-role"

	RouteAdmin          = "/admin"
	RouteAdminServices  = "/admin/services"
	RouteAdminRequests  = "/admin/requests"
	RouteAdminEngineers = "/admin/engineers"

	RouteCustomer         = "/customer"
	RouteCustomerServices = "/customer/services"
	RouteCustomerRequests = "/customer/requests"
	RouteCustomerReviews  = "/customer/reviews"

	RouteEngineer         = "/engineer"
	RouteEngineerRequests = "/engineer/requests"
)

// maxRedirects bounds redirect resolution; the default table settles in two hops.
const maxRedirects = 8

type NavigationKind string

const (
	NavigateNone    NavigationKind = "none"
	NavigateToLogin NavigationKind = "to_login"
	NavigateToHome  NavigationKind = "to_home"
	NavigateToRole  NavigationKind = "to_role"
)

type NavigationIntent struct {
	Kind NavigationKind
	Role RoleName
}

func NoNavigation() NavigationIntent {
	return NavigationIntent{Kind: NavigateNone}
}

func ToLogin() NavigationIntent {
	return NavigationIntent{Kind: NavigateToLogin}
}

func ToHome() NavigationIntent {
	return NavigationIntent{Kind: NavigateToHome}
}

// ToRole navigates to the role's dashboard. An empty role targets the
// no-role page.
func ToRole(role RoleName) NavigationIntent {
	return NavigationIntent{Kind: NavigateToRole, Role: role}
}

func (n NavigationIntent) IsNone() bool {
	return n.Kind == "" || n.Kind == NavigateNone
}

func (n NavigationIntent) String() string {
	if n.Role == "" {
		return string(n.Kind)
	}
	return fmt.Sprintf("%s(%s)", n.Kind, n.Role)
}

// Route maps the intent to a route path. None maps to the empty string.
func (n NavigationIntent) Route() string {
	switch n.Kind {
	case NavigateToLogin:
		return RouteLogin
	case NavigateToHome:
		return RouteHome
	case NavigateToRole:
		if route := n.Role.LandingRoute(); route != "" {
			return route
		}
		return RouteNoRole
	default:
		return ""
	}
}

type Outcome string

const (
	OutcomeRender   Outcome = "render"
	OutcomeLoading  Outcome = "loading"
	OutcomeRedirect Outcome = "redirect"
)

type Decision struct {
	Outcome  Outcome
	Navigate NavigationIntent
}

func (d Decision) Target() string {
	return d.Navigate.Route()
}

func (d Decision) String() string {
	if d.Outcome == OutcomeRedirect {
		return fmt.Sprintf("redirect %s", d.Target())
	}
	return string(d.Outcome)
}

// Authorize decides whether content guarded by requiredRoles may render
// for the given session. It never redirects while the session is unresolved.
func Authorize(session Session, requiredRoles RoleSet) Decision {
	switch session.Status {
	case SessionAuthenticated:
		if session.Identity == nil {
			return Decision{Outcome: OutcomeRedirect, Navigate: ToLogin()}
		}
		if len(requiredRoles) == 0 || session.Identity.Roles.Intersects(requiredRoles) {
			return Decision{Outcome: OutcomeRender, Navigate: NoNavigation()}
		}
		return Decision{Outcome: OutcomeRedirect, Navigate: ToHome()}
	case SessionUnauthenticated:
		return Decision{Outcome: OutcomeRedirect, Navigate: ToLogin()}
	default:
		return Decision{Outcome: OutcomeLoading, Navigate: NoNavigation()}
	}
}

// HomeIntent resolves "/" for the session. Authenticated identities without
// a recognised role land on the terminal no-role page.
func HomeIntent(session Session) NavigationIntent {
	if !session.IsAuthenticated() {
		return ToLogin()
	}
	if role, ok := session.Identity.Roles.Home(); ok {
		return ToRole(role)
	}
	return ToRole("")
}

type RouteAccess string

const (
	AccessPublic    RouteAccess = "public"
	AccessProtected RouteAccess = "protected"
	AccessHome      RouteAccess = "home"
)

type RouteAccessPolicy struct {
	Path         string
	Access       RouteAccess
	AllowedRoles RoleSet
}

type RouteTable struct {
	policies map[string]RouteAccessPolicy
}

func NewRouteTable(policies ...RouteAccessPolicy) RouteTable {
	table := RouteTable{policies: make(map[string]RouteAccessPolicy, len(policies))}
	for _, policy := range policies {
		table.policies[normalizePath(policy.Path)] = policy
	}
	return table
}

func DefaultRouteTable() RouteTable {
	admin := NewRoleSet(RoleAdmin)
	customer := NewRoleSet(RoleCustomer)
	engineer := NewRoleSet(RoleEngineer)

	return NewRouteTable(
		RouteAccessPolicy{Path: RouteLogin, Access: AccessPublic},
		RouteAccessPolicy{Path: RouteRegister, Access: AccessPublic},
		RouteAccessPolicy{Path: RouteConnectionTest, Access: AccessPublic},
		RouteAccessPolicy{Path: RouteHome, Access: AccessHome},
		RouteAccessPolicy{Path: RouteAccount, Access: AccessProtected},
		RouteAccessPolicy{Path: RouteNoRole, Access: AccessProtected},
		RouteAccessPolicy{Path: RouteAdmin, Access: AccessProtected, AllowedRoles: admin},
		RouteAccessPolicy{Path: RouteAdminServices, Access: AccessProtected, AllowedRoles: admin},
		RouteAccessPolicy{Path: RouteAdminRequests, Access: AccessProtected, AllowedRoles: admin},
		RouteAccessPolicy{Path: RouteAdminEngineers, Access: AccessProtected, AllowedRoles: admin},
		RouteAccessPolicy{Path: RouteCustomer, Access: AccessProtected, AllowedRoles: customer},
		RouteAccessPolicy{Path: RouteCustomerServices, Access: AccessProtected, AllowedRoles: customer},
		RouteAccessPolicy{Path: RouteCustomerRequests, Access: AccessProtected, AllowedRoles: customer},
		RouteAccessPolicy{Path: RouteCustomerReviews, Access: AccessProtected, AllowedRoles: customer},
		RouteAccessPolicy{Path: RouteEngineer, Access: AccessProtected, AllowedRoles: engineer},
		RouteAccessPolicy{Path: RouteEngineerRequests, Access: AccessProtected, AllowedRoles: engineer},
	)
}

// Lookup returns the policy for path. Unknown paths fall through to "/".
func (t RouteTable) Lookup(path string) (RouteAccessPolicy, bool) {
	policy, ok := t.policies[normalizePath(path)]
	return policy, ok
}

// Decide evaluates a single hop for path.
func (t RouteTable) Decide(session Session, path string) Decision {
	policy, ok := t.Lookup(path)
	if !ok {
		return Decision{Outcome: OutcomeRedirect, Navigate: ToHome()}
	}

	switch policy.Access {
	case AccessPublic:
		return Decision{Outcome: OutcomeRender, Navigate: NoNavigation()}
	case AccessHome:
		if session.Status == SessionUnresolved {
			return Decision{Outcome: OutcomeLoading, Navigate: NoNavigation()}
		}
		return Decision{Outcome: OutcomeRedirect, Navigate: HomeIntent(session)}
	default:
		return Authorize(session, policy.AllowedRoles)
	}
}

type Resolution struct {
	Path     string
	Decision Decision
	Hops     []string
}

// Resolve follows redirects from path until a render or loading outcome.
func (t RouteTable) Resolve(session Session, path string) (Resolution, error) {
	current := normalizePath(path)
	hops := []string{current}

	for i := 0; i < maxRedirects; i++ {
		decision := t.Decide(session, current)
		if decision.Outcome != OutcomeRedirect {
			return Resolution{Path: current, Decision: decision, Hops: hops}, nil
		}
		current = decision.Target()
		hops = append(hops, current)
	}

	return Resolution{}, fmt.Errorf("route %s: redirect loop via %s", path, strings.Join(hops, " -> "))
}

func normalizePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return RouteHome
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
		if trimmed == "" {
			return RouteHome
		}
	}
	return strings.ToLower(trimmed)
}
