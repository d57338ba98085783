package permissionchecker

// privilege names, as stored in the rolePrivileges collection
const (
	PRIVILEGE_CREATE_SURVEY           = "create-survey"
	PRIVILEGE_READ_SELF_SURVEY        = "read-self-survey"
	PRIVILEGE_CALCULATE_SELF_SURVEY   = "calculate-self-survey"
	PRIVILEGE_CALCULATE_UNIT_SURVEY   = "calculate-unit-survey"
	PRIVILEGE_CALCULATE_GLOBAL_SURVEY = "calculate-global-survey"

	PRIVILEGE_MANAGE_USERS     = "manage-users"
	PRIVILEGE_MANAGE_ROLES     = "manage-roles"
	PRIVILEGE_MANAGE_UNITS     = "manage-units"
	PRIVILEGE_MANAGE_QUESTIONS = "manage-questions"
	PRIVILEGE_MANAGE_ANSWERS   = "manage-answers"

	PRIVILEGE_GENERATE_QUEUE_TOKEN = "generate-queue-token"
)

// role names with special treatment in ranking queries
const (
	ROLE_NAME_FRONT_DESK = "FRONT DESK"
	ROLE_NAME_SUPERADMIN = "SUPERADMIN"
)
