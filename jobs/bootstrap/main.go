package main

import (
	"log/slog"
	"os"
	"time"

	pc "github.com/taufikRahadi/sisupel/pkg/permission-checker"
	"github.com/taufikRahadi/sisupel/pkg/user-management/pwhash"
	umUtils "github.com/taufikRahadi/sisupel/pkg/user-management/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"

	userDB "github.com/taufikRahadi/sisupel/pkg/db/user"
)

var defaultPrivilegeNames = []string{
	pc.PRIVILEGE_CREATE_SURVEY,
	pc.PRIVILEGE_READ_SELF_SURVEY,
	pc.PRIVILEGE_CALCULATE_SELF_SURVEY,
	pc.PRIVILEGE_CALCULATE_UNIT_SURVEY,
	pc.PRIVILEGE_CALCULATE_GLOBAL_SURVEY,
	pc.PRIVILEGE_MANAGE_USERS,
	pc.PRIVILEGE_MANAGE_ROLES,
	pc.PRIVILEGE_MANAGE_UNITS,
	pc.PRIVILEGE_MANAGE_QUESTIONS,
	pc.PRIVILEGE_MANAGE_ANSWERS,
	pc.PRIVILEGE_GENERATE_QUEUE_TOKEN,
}

// Seeds indexes, the privilege catalog, the two built-in roles and the
// initial superadmin account. Safe to run repeatedly.
func main() {
	slog.Info("Starting bootstrap job")
	start := time.Now()

	surveyDBService.CreateDefaultIndexes()
	userDBService.CreateDefaultIndexes()
	reportIndexes()

	seedPrivileges()
	seedRoles()
	seedSuperadmin()

	slog.Info("Bootstrap job completed", slog.Duration("duration", time.Since(start)))
}

func reportIndexes() {
	surveyIndexes, err := surveyDBService.ListAllIndexes()
	if err != nil {
		slog.Error("Error listing survey DB indexes", slog.String("error", err.Error()))
	} else {
		for coll, list := range surveyIndexes {
			slog.Info("Survey DB indexes", slog.String("collection", coll), slog.Int("count", len(list)))
		}
	}

	userIndexes, err := userDBService.ListAllIndexes()
	if err != nil {
		slog.Error("Error listing user DB indexes", slog.String("error", err.Error()))
	} else {
		for coll, list := range userIndexes {
			slog.Info("User DB indexes", slog.String("collection", coll), slog.Int("count", len(list)))
		}
	}
}

func seedPrivileges() {
	for _, name := range defaultPrivilegeNames {
		existing, err := userDBService.GetAllPrivileges()
		if err != nil {
			slog.Error("Error listing privileges", slog.String("error", err.Error()))
			return
		}

		found := false
		for _, p := range existing {
			if p.Name == name {
				found = true
				break
			}
		}
		if found {
			continue
		}

		if _, err := userDBService.CreatePrivilege(userDB.Privilege{Name: name}); err != nil {
			slog.Error("Error creating privilege", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}
		slog.Info("Privilege created", slog.String("name", name))
	}
}

func seedRoles() {
	ensureRole(pc.ROLE_NAME_SUPERADMIN, nil)

	frontDeskPrivileges := []string{
		pc.PRIVILEGE_CREATE_SURVEY,
		pc.PRIVILEGE_READ_SELF_SURVEY,
		pc.PRIVILEGE_CALCULATE_SELF_SURVEY,
		pc.PRIVILEGE_GENERATE_QUEUE_TOKEN,
	}
	ensureRole(pc.ROLE_NAME_FRONT_DESK, frontDeskPrivileges)
}

func ensureRole(name string, privilegeNames []string) {
	if _, err := userDBService.GetRoleByName(name); err == nil {
		return
	}

	privilegeIDs := []primitive.ObjectID{}
	if len(privilegeNames) > 0 {
		all, err := userDBService.GetAllPrivileges()
		if err != nil {
			slog.Error("Error listing privileges", slog.String("error", err.Error()))
			return
		}
		for _, p := range all {
			for _, wanted := range privilegeNames {
				if p.Name == wanted {
					privilegeIDs = append(privilegeIDs, p.ID)
				}
			}
		}
	}

	if _, err := userDBService.CreateRole(userDB.Role{
		Name:         name,
		PrivilegeIDs: privilegeIDs,
	}); err != nil {
		slog.Error("Error creating role", slog.String("name", name), slog.String("error", err.Error()))
		return
	}
	slog.Info("Role created", slog.String("name", name))
}

func seedSuperadmin() {
	email := umUtils.SanitizeEmail(os.Getenv(ENV_SUPERADMIN_EMAIL))
	password := os.Getenv(ENV_SUPERADMIN_PASSWORD)
	if email == "" || password == "" {
		slog.Info("Superadmin credentials not set, skipping account seed")
		return
	}

	if !umUtils.CheckEmailFormat(email) {
		slog.Error("Superadmin email has invalid format", slog.String("email", email))
		return
	}
	if !umUtils.CheckPasswordFormat(password) {
		slog.Error("Superadmin password does not fulfill the password rules")
		return
	}

	if _, err := userDBService.GetUserByEmail(email); err == nil {
		slog.Info("Superadmin account already exists", slog.String("email", email))
		return
	}

	role, err := userDBService.GetRoleByName(pc.ROLE_NAME_SUPERADMIN)
	if err != nil {
		slog.Error("Superadmin role missing", slog.String("error", err.Error()))
		return
	}

	hashed, err := pwhash.HashPassword(password)
	if err != nil {
		slog.Error("Error hashing superadmin password", slog.String("error", err.Error()))
		return
	}

	user, err := userDBService.CreateUser(userDB.User{
		Fullname: "Superadmin",
		Email:    email,
		Password: hashed,
		RoleID:   role.ID,
		IsActive: true,
	})
	if err != nil {
		slog.Error("Error creating superadmin account", slog.String("error", err.Error()))
		return
	}
	slog.Info("Superadmin account created", slog.String("userID", user.ID.Hex()))
}
