package permissionchecker

// RolePrivilegeConnector resolves a role's privilege names.
type RolePrivilegeConnector interface {
	GetPrivilegeNamesForRole(roleID string) ([]string, error)
}

// IsAuthorized checks whether the principal's role carries the required
// privilege. The superadmin role is always authorized. A user's
// effective permissions are the union of their role's privileges.
func IsAuthorized(db RolePrivilegeConnector,
	roleName string,
	roleID string,
	requiredPrivilege string,
) bool {
	if roleName == ROLE_NAME_SUPERADMIN {
		return true
	}

	privileges, err := db.GetPrivilegeNamesForRole(roleID)
	if err != nil {
		return false
	}

	// no privileges means not authorized
	if len(privileges) == 0 {
		return false
	}

	return hasPrivilege(privileges, requiredPrivilege)
}

func hasPrivilege(privileges []string, required string) bool {
	for _, p := range privileges {
		if p == required {
			return true
		}
	}
	return false
}
