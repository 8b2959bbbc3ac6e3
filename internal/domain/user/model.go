package user

import "strings"

// Roles carried by access tokens. Admin unlocks season, castaway, rule, and
// scoring management.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Principal is the identity resolved from a verified access token.
type Principal struct {
	UserID      string
	DisplayName string
	Role        string
}

func (p Principal) IsAdmin() bool {
	return strings.EqualFold(p.Role, RoleAdmin)
}
