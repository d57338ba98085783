package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	surveydb "github.com/taufikRahadi/sisupel/pkg/db/survey"
	userdb "github.com/taufikRahadi/sisupel/pkg/db/user"
	"github.com/taufikRahadi/sisupel/pkg/queue"
	"github.com/taufikRahadi/sisupel/pkg/surveystats"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	surveyDBConn   *surveydb.SurveyDBService
	userDBConn     *userdb.UserDBService
	statsService   *surveystats.Service
	queueService   *queue.Service
	tokenSignKey   string
	tokenExpiresIn time.Duration
	filestorePath  string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	surveyDBConn *surveydb.SurveyDBService,
	userDBConn *userdb.UserDBService,
	statsService *surveystats.Service,
	queueService *queue.Service,
	filestorePath string,
) *HttpEndpoints {
	return &HttpEndpoints{
		tokenSignKey:   tokenSignKey,
		tokenExpiresIn: tokenExpiresIn,
		surveyDBConn:   surveyDBConn,
		userDBConn:     userDBConn,
		statsService:   statsService,
		queueService:   queueService,
		filestorePath:  filestorePath,
	}
}
