package main

import (
	"os"

	"github.com/taufikRahadi/sisupel/pkg/db"
	"github.com/taufikRahadi/sisupel/pkg/user-management/pwhash"
	"github.com/taufikRahadi/sisupel/pkg/utils"

	surveyDB "github.com/taufikRahadi/sisupel/pkg/db/survey"
	userDB "github.com/taufikRahadi/sisupel/pkg/db/user"
)

// Environment variables
const (
	ENV_SURVEY_DB_CONNECTION_STR    = "SURVEY_DB_CONNECTION_STR"
	ENV_SURVEY_DB_USERNAME          = "SURVEY_DB_USERNAME"
	ENV_SURVEY_DB_PASSWORD          = "SURVEY_DB_PASSWORD"
	ENV_SURVEY_DB_CONNECTION_PREFIX = "SURVEY_DB_CONNECTION_PREFIX"
	ENV_SURVEY_DB_TIMEOUT           = "SURVEY_DB_TIMEOUT"
	ENV_SURVEY_DB_IDLE_CONN_TIMEOUT = "SURVEY_DB_IDLE_CONN_TIMEOUT"
	ENV_SURVEY_DB_MAX_POOL_SIZE     = "SURVEY_DB_MAX_POOL_SIZE"
	ENV_SURVEY_DB_NAME              = "SURVEY_DB_NAME"

	ENV_USER_DB_CONNECTION_STR    = "USER_DB_CONNECTION_STR"
	ENV_USER_DB_USERNAME          = "USER_DB_USERNAME"
	ENV_USER_DB_PASSWORD          = "USER_DB_PASSWORD"
	ENV_USER_DB_CONNECTION_PREFIX = "USER_DB_CONNECTION_PREFIX"
	ENV_USER_DB_TIMEOUT           = "USER_DB_TIMEOUT"
	ENV_USER_DB_IDLE_CONN_TIMEOUT = "USER_DB_IDLE_CONN_TIMEOUT"
	ENV_USER_DB_MAX_POOL_SIZE     = "USER_DB_MAX_POOL_SIZE"
	ENV_USER_DB_NAME              = "USER_DB_NAME"

	ENV_SUPERADMIN_EMAIL    = "SUPERADMIN_EMAIL"
	ENV_SUPERADMIN_PASSWORD = "SUPERADMIN_PASSWORD"

	ENV_LOG_LEVEL       = "LOG_LEVEL"
	ENV_LOG_INCLUDE_SRC = "LOG_INCLUDE_SRC"
)

var (
	surveyDBService *surveyDB.SurveyDBService
	userDBService   *userDB.UserDBService
)

func init() {
	utils.InitLogger(
		os.Getenv(ENV_LOG_LEVEL),
		os.Getenv(ENV_LOG_INCLUDE_SRC) == "true",
		false, "", 0, 0, 0, false, "never",
	)

	pwhash.InitArgonParams(0, 0, 0)

	var err error
	surveyDBService, err = surveyDB.NewSurveyDBService(db.ReadDBConfigFromEnv(
		"survey DB",
		ENV_SURVEY_DB_CONNECTION_STR,
		ENV_SURVEY_DB_USERNAME,
		ENV_SURVEY_DB_PASSWORD,
		ENV_SURVEY_DB_CONNECTION_PREFIX,
		ENV_SURVEY_DB_TIMEOUT,
		ENV_SURVEY_DB_IDLE_CONN_TIMEOUT,
		ENV_SURVEY_DB_MAX_POOL_SIZE,
		ENV_SURVEY_DB_NAME,
	))
	if err != nil {
		panic(err)
	}

	userDBService, err = userDB.NewUserDBService(db.ReadDBConfigFromEnv(
		"user DB",
		ENV_USER_DB_CONNECTION_STR,
		ENV_USER_DB_USERNAME,
		ENV_USER_DB_PASSWORD,
		ENV_USER_DB_CONNECTION_PREFIX,
		ENV_USER_DB_TIMEOUT,
		ENV_USER_DB_IDLE_CONN_TIMEOUT,
		ENV_USER_DB_MAX_POOL_SIZE,
		ENV_USER_DB_NAME,
	))
	if err != nil {
		panic(err)
	}
}
