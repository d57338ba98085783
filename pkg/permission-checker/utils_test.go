package permissionchecker

import (
	"errors"
	"testing"
)

type mockPrivilegeConnector struct {
	privilegesByRole map[string][]string
	err              error
}

func (m *mockPrivilegeConnector) GetPrivilegeNamesForRole(roleID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.privilegesByRole[roleID], nil
}

func TestIsAuthorized(t *testing.T) {
	t.Parallel()

	connector := &mockPrivilegeConnector{
		privilegesByRole: map[string][]string{
			"frontdesk": {PRIVILEGE_CREATE_SURVEY, PRIVILEGE_CALCULATE_SELF_SURVEY},
			"manager":   {PRIVILEGE_CALCULATE_UNIT_SURVEY, PRIVILEGE_CALCULATE_GLOBAL_SURVEY},
			"none":      {},
		},
	}

	tests := []struct {
		name              string
		roleName          string
		roleID            string
		requiredPrivilege string
		want              bool
	}{
		{
			name:              "superadmin bypasses privilege lookup",
			roleName:          ROLE_NAME_SUPERADMIN,
			roleID:            "irrelevant",
			requiredPrivilege: PRIVILEGE_MANAGE_USERS,
			want:              true,
		},
		{
			name:              "privilege present",
			roleName:          ROLE_NAME_FRONT_DESK,
			roleID:            "frontdesk",
			requiredPrivilege: PRIVILEGE_CREATE_SURVEY,
			want:              true,
		},
		{
			name:              "privilege missing",
			roleName:          ROLE_NAME_FRONT_DESK,
			roleID:            "frontdesk",
			requiredPrivilege: PRIVILEGE_CALCULATE_GLOBAL_SURVEY,
			want:              false,
		},
		{
			name:              "empty privilege set",
			roleName:          "GUEST",
			roleID:            "none",
			requiredPrivilege: PRIVILEGE_CREATE_SURVEY,
			want:              false,
		},
		{
			name:              "unknown role",
			roleName:          "GUEST",
			roleID:            "missing",
			requiredPrivilege: PRIVILEGE_CREATE_SURVEY,
			want:              false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsAuthorized(connector, tt.roleName, tt.roleID, tt.requiredPrivilege)
			if got != tt.want {
				t.Errorf("IsAuthorized: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAuthorizedConnectorError(t *testing.T) {
	t.Parallel()

	connector := &mockPrivilegeConnector{err: errors.New("db down")}
	if IsAuthorized(connector, "GUEST", "any", PRIVILEGE_CREATE_SURVEY) {
		t.Error("a failing privilege lookup must deny access")
	}
}
