package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/taufikRahadi/sisupel/pkg/apihelpers/middlewares"
	surveydb "github.com/taufikRahadi/sisupel/pkg/db/survey"
	jwthandling "github.com/taufikRahadi/sisupel/pkg/jwt-handling"
	pc "github.com/taufikRahadi/sisupel/pkg/permission-checker"
	"github.com/taufikRahadi/sisupel/pkg/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *HttpEndpoints) AddQueueAPI(rg *gin.RouterGroup) {
	queueGroup := rg.Group("/queue")

	// kiosk endpoints, no login
	queueGroup.GET("/status", h.getQueueStatus)
	queueGroup.POST("/surveys", mw.RequirePayload(), h.submitSurveyWithToken)

	authedGroup := queueGroup.Group("/")
	authedGroup.Use(mw.GetAndValidateSurveyUserJWT(h.tokenSignKey))
	authedGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_GENERATE_QUEUE_TOKEN))
	{
		authedGroup.POST("/tokens", h.issueQueueToken)
	}
}

func (h *HttpEndpoints) issueQueueToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	queueToken, err := h.queueService.Issue(c.Request.Context())
	if err != nil {
		slog.Error("issueQueueToken: failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue queue token"})
		return
	}

	slog.Info("queue token issued", slog.String("token", queueToken), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"token": queueToken})
}

func (h *HttpEndpoints) getQueueStatus(c *gin.Context) {
	statuses, err := h.queueService.ListStatus(c.Request.Context())
	if err != nil {
		slog.Error("getQueueStatus: failed to list tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read queue status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": statuses})
}

type SubmitSurveyWithTokenReq struct {
	Token string          `json:"token"`
	User  string          `json:"user"`
	Body  []SurveyItemReq `json:"body"`
}

// submitSurveyWithToken is the anonymous kiosk path: a visitor rates the
// front desk employee who served them, authorized by their queue token.
// The token is consumed before the survey is stored.
func (h *HttpEndpoints) submitSurveyWithToken(c *gin.Context) {
	var req SubmitSurveyWithTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Token == "" || req.User == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and user are required"})
		return
	}

	ratedUserID, err := primitive.ObjectIDFromHex(req.User)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user reference"})
		return
	}
	if _, err := h.userDBConn.GetUserByID(req.User); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}

	body, errMsg := h.buildSurveyBody(req.Body)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	respondentID, err := h.queueService.ValidateAndConsume(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, queue.ErrTokenNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or already used queue token"})
			return
		}
		slog.Error("submitSurveyWithToken: failed to consume token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	survey, err := h.surveyDBConn.CreateSurvey(surveydb.Survey{
		UserID:  ratedUserID,
		QueueNo: req.Token,
		Body:    body,
	})
	if err != nil {
		// the token is already consumed at this point; the visitor
		// cannot retry with the same number
		slog.Error("submitSurveyWithToken: error creating survey",
			slog.String("token", req.Token),
			slog.String("respondentID", respondentID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store survey"})
		return
	}

	slog.Info("kiosk survey submitted",
		slog.String("surveyID", survey.ID.Hex()),
		slog.String("token", req.Token),
		slog.String("respondentID", respondentID))
	c.JSON(http.StatusCreated, gin.H{"survey": survey, "respondent": respondentID})
}
