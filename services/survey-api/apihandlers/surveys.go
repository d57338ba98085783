package apihandlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	mw "github.com/taufikRahadi/sisupel/pkg/apihelpers/middlewares"
	surveydb "github.com/taufikRahadi/sisupel/pkg/db/survey"
	jwthandling "github.com/taufikRahadi/sisupel/pkg/jwt-handling"
	pc "github.com/taufikRahadi/sisupel/pkg/permission-checker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateParamLayout = "2006-01-02"

func (h *HttpEndpoints) AddSurveyAPI(rg *gin.RouterGroup) {
	surveyGroup := rg.Group("/surveys")
	surveyGroup.Use(mw.GetAndValidateSurveyUserJWT(h.tokenSignKey))
	{
		surveyGroup.POST("", mw.RequirePayload(), mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_CREATE_SURVEY), h.submitSurvey)
		surveyGroup.GET("/mine", mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_READ_SELF_SURVEY), h.getOwnSurveys)
	}
}

type SurveyItemReq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Text     string `json:"text"`
}

type SubmitSurveyReq struct {
	Body []SurveyItemReq `json:"body"`
}

// buildSurveyBody validates and converts the submitted items. The body
// must answer every active question exactly once.
func (h *HttpEndpoints) buildSurveyBody(items []SurveyItemReq) ([]surveydb.SurveyItem, string) {
	activeCount, err := h.surveyDBConn.CountActiveSurveyQuestions()
	if err != nil {
		slog.Error("failed to count active questions", slog.String("error", err.Error()))
		return nil, "internal server error"
	}
	if int64(len(items)) != activeCount {
		return nil, "survey body must answer every active question"
	}

	body := make([]surveydb.SurveyItem, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		questionID, err := primitive.ObjectIDFromHex(item.Question)
		if err != nil {
			return nil, "invalid question reference: " + item.Question
		}
		if seen[item.Question] {
			return nil, "duplicate question reference: " + item.Question
		}
		seen[item.Question] = true

		answerID, err := primitive.ObjectIDFromHex(item.Answer)
		if err != nil {
			return nil, "invalid answer reference: " + item.Answer
		}

		body = append(body, surveydb.SurveyItem{
			QuestionID: questionID,
			AnswerID:   answerID,
			Text:       item.Text,
		})
	}
	return body, ""
}

func (h *HttpEndpoints) submitSurvey(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req SubmitSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, errMsg := h.buildSurveyBody(req.Body)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	userID, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	survey, err := h.surveyDBConn.CreateSurvey(surveydb.Survey{
		UserID: userID,
		Body:   body,
	})
	if err != nil {
		slog.Error("submitSurvey: error creating survey", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store survey"})
		return
	}

	slog.Info("survey submitted", slog.String("surveyID", survey.ID.Hex()), slog.String("userID", token.ID))
	c.JSON(http.StatusCreated, gin.H{"survey": survey})
}

func (h *HttpEndpoints) getOwnSurveys(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	sortAsc := c.DefaultQuery("sort", "asc") != "desc"

	var limit int64
	if limitStr := c.Query("limit"); limitStr != "" {
		var err error
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	var from, until time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		var err error
		from, err = time.Parse(dateParamLayout, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
	}
	if untilStr := c.Query("until"); untilStr != "" {
		var err error
		until, err = time.Parse(dateParamLayout, untilStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until date"})
			return
		}
	}

	surveys, err := h.surveyDBConn.FindSurveysByUser(token.ID, sortAsc, limit, from, until)
	if err != nil {
		slog.Error("getOwnSurveys: error retrieving surveys", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting surveys"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"surveys": surveys})
}
