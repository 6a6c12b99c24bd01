package domain

type UserID string

type SessionStatus string

const (
	SessionUnresolved      SessionStatus = "unresolved"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionUnauthenticated SessionStatus = "unauthenticated"
)

type Identity struct {
	ID       UserID
	FullName string
	Username string
	Email    string
	Roles    RoleSet
}

// Session is a read-only snapshot of the client's authentication state.
// Identity is non-nil if and only if Status is SessionAuthenticated.
type Session struct {
	Token    string
	Identity *Identity
	Status   SessionStatus
	// Revision increases with every transition of the owning manager.
	Revision uint64
}

func UnresolvedSession() Session {
	return Session{Status: SessionUnresolved}
}

func (s Session) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated && s.Identity != nil
}

func (s Session) IsAdmin() bool {
	return s.hasRole(RoleAdmin)
}

func (s Session) IsCustomer() bool {
	return s.hasRole(RoleCustomer)
}

func (s Session) IsEngineer() bool {
	return s.hasRole(RoleEngineer)
}

func (s Session) Roles() RoleSet {
	if s.Identity == nil {
		return nil
	}
	return s.Identity.Roles
}

func (s Session) hasRole(role RoleName) bool {
	return s.IsAuthenticated() && s.Identity.Roles.Has(role)
}

// Consistent reports whether the identity/status coupling holds.
func (s Session) Consistent() bool {
	if s.Status == SessionAuthenticated {
		return s.Identity != nil && s.Token != ""
	}
	return s.Identity == nil
}

type Credentials struct {
	Identifier string
	Secret     string
}

type Profile struct {
	FullName    string `json:"fullName"`
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `json:"role"`
}
