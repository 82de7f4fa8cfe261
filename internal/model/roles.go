package model

// Roles carried in the identity token.
const (
	RoleAdmin       = "admin"
	RoleCyntekAdmin = "cyntek_admin"
	RoleOrgAdmin    = "org_admin"
	RoleUser        = "user"
)

// SeesAllPricing reports whether role bypasses the per-user pricing permission.
func SeesAllPricing(role string) bool {
	return role == RoleAdmin || role == RoleCyntekAdmin
}
