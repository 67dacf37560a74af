package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin        = "admin"
	RoleInvestigator = "investigator"
	RoleViewer       = "viewer"
)

// Roles is the closed set of valid roles, in privilege order.
var Roles = []string{RoleAdmin, RoleInvestigator, RoleViewer}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleInvestigator, RoleViewer:
		return true
	default:
		return false
	}
}
