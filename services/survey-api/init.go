package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/taufikRahadi/sisupel/pkg/apihelpers"
	"github.com/taufikRahadi/sisupel/pkg/db"
	"github.com/taufikRahadi/sisupel/pkg/queue"
	"github.com/taufikRahadi/sisupel/pkg/surveystats"
	"github.com/taufikRahadi/sisupel/pkg/user-management/pwhash"
	"github.com/taufikRahadi/sisupel/pkg/utils"
	"gopkg.in/yaml.v2"

	umUtils "github.com/taufikRahadi/sisupel/pkg/user-management/utils"

	surveyDB "github.com/taufikRahadi/sisupel/pkg/db/survey"
	userDB "github.com/taufikRahadi/sisupel/pkg/db/user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_SURVEY_DB_USERNAME = "SURVEY_DB_USERNAME"
	ENV_SURVEY_DB_PASSWORD = "SURVEY_DB_PASSWORD"
	ENV_USER_DB_USERNAME   = "USER_DB_USERNAME"
	ENV_USER_DB_PASSWORD   = "USER_DB_PASSWORD"

	ENV_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_SURVEY_USER_JWT_SIGN_KEY = "SURVEY_USER_JWT_SIGN_KEY"
)

type SurveyApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		SurveyUserJWTConfig struct {
			SignKey   string `json:"sign_key" yaml:"sign_key"`
			ExpiresIn string `json:"expires_in" yaml:"expires_in"`
		} `json:"survey_user_jwt_config" yaml:"survey_user_jwt_config"`
		BlockedPasswordsFilePath string `json:"blocked_passwords_file_path" yaml:"blocked_passwords_file_path"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// DB configs. Both blocks must resolve to the same database on the
	// same server (credentials may differ): survey aggregations join the
	// users and roles collections with $lookup, which cannot cross
	// databases. Checked at startup.
	DBConfigs struct {
		SurveyDB db.DBConfigYaml `json:"survey_db" yaml:"survey_db"`
		UserDB   db.DBConfigYaml `json:"user_db" yaml:"user_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// Queue token issuer config
	QueueConfig struct {
		RedisAddress  string `json:"redis_address" yaml:"redis_address"`
		RedisPassword string `json:"redis_password" yaml:"redis_password"`
		RedisDB       int    `json:"redis_db" yaml:"redis_db"`
		TokenTTL      string `json:"token_ttl" yaml:"token_ttl"`
	} `json:"queue_config" yaml:"queue_config"`

	// IANA timezone the business day boundary is evaluated in
	Timezone string `json:"timezone" yaml:"timezone"`

	FilestorePath string `json:"filestore_path" yaml:"filestore_path"`
}

var (
	conf SurveyApiConfig

	tokenExpiresIn time.Duration

	surveyDBService *surveyDB.SurveyDBService
	userDBService   *userDB.UserDBService
	statsService    *surveystats.Service
	queueService    *queue.Service
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
		conf.Logging.IncludeBuildInfo,
	)

	// Override secrets from environment variables
	secretsOverride()

	expInVal := conf.UserManagementConfig.SurveyUserJWTConfig.ExpiresIn
	tokenExpiresIn, err = utils.ParseDurationString(expInVal)
	if err != nil {
		slog.Error("Error parsing token expiration", slog.String("value", expInVal), slog.String("error", err.Error()))
		panic(err)
	}

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init argon2
	pwhash.InitArgonParams(
		conf.UserManagementConfig.PWHashing.Argon2Memory,
		conf.UserManagementConfig.PWHashing.Argon2Iterations,
		conf.UserManagementConfig.PWHashing.Argon2Parallelism,
	)

	if conf.UserManagementConfig.BlockedPasswordsFilePath != "" {
		if err := umUtils.LoadBlockedPasswords(conf.UserManagementConfig.BlockedPasswordsFilePath); err != nil {
			panic(err)
		}
	}

	initStatsService()

	initQueueService()

	checkFilestorePath()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_SURVEY_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.SurveyDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_SURVEY_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.SurveyDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_USER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.UserDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_USER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.UserDB.Password = dbPassword
	}

	if redisPassword := os.Getenv(ENV_REDIS_PASSWORD); redisPassword != "" {
		conf.QueueConfig.RedisPassword = redisPassword
	}

	if jwtSignKey := os.Getenv(ENV_SURVEY_USER_JWT_SIGN_KEY); jwtSignKey != "" {
		conf.UserManagementConfig.SurveyUserJWTConfig.SignKey = jwtSignKey
	}
}

func initDBs() {
	if !db.SameDatabase(conf.DBConfigs.SurveyDB, conf.DBConfigs.UserDB) {
		slog.Error("Survey DB and User DB must resolve to the same database, respondent lookups run inside survey aggregations")
		panic("survey_db and user_db must point at the same database")
	}

	var err error
	surveyDBService, err = surveyDB.NewSurveyDBService(db.DBConfigFromYamlObj(conf.DBConfigs.SurveyDB))
	if err != nil {
		slog.Error("Error connecting to Survey DB", slog.String("error", err.Error()))
		panic(err)
	}
	surveyDBService.CreateDefaultIndexes()

	userDBService, err = userDB.NewUserDBService(db.DBConfigFromYamlObj(conf.DBConfigs.UserDB))
	if err != nil {
		slog.Error("Error connecting to User DB", slog.String("error", err.Error()))
		panic(err)
	}
	userDBService.CreateDefaultIndexes()
}

func loadTimezone() *time.Location {
	if conf.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		slog.Error("Error loading timezone", slog.String("timezone", conf.Timezone), slog.String("error", err.Error()))
		panic(err)
	}
	return loc
}

func initStatsService() {
	statsService = surveystats.NewService(
		surveystats.NewStore(surveyDBService),
		surveyDBService,
		loadTimezone(),
	)
}

func initQueueService() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.QueueConfig.RedisAddress,
		Password: conf.QueueConfig.RedisPassword,
		DB:       conf.QueueConfig.RedisDB,
	})

	// queue numbers are only meaningful on the day they are issued
	ttl := 24 * time.Hour
	if conf.QueueConfig.TokenTTL != "" {
		var err error
		ttl, err = utils.ParseDurationString(conf.QueueConfig.TokenTTL)
		if err != nil {
			slog.Error("Error parsing queue token TTL", slog.String("value", conf.QueueConfig.TokenTTL), slog.String("error", err.Error()))
			panic(err)
		}
	}

	queueService = queue.NewService(
		queue.NewRedisStore(redisClient),
		surveyDBService,
		ttl,
		loadTimezone(),
	)
}

func checkFilestorePath() {
	// To store uploaded user photos
	fsPath := conf.FilestorePath
	if fsPath == "" {
		slog.Error("Filestore path not set")
		panic("Filestore path not set")
	}

	if _, err := os.Stat(fsPath); os.IsNotExist(err) {
		slog.Error("Filestore path does not exist", slog.String("path", fsPath))
		panic("Filestore path does not exist")
	}
}
