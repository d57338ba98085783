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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *HttpEndpoints) AddSurveyCatalogAPI(rg *gin.RouterGroup) {
	// kiosk clients render the form without logging in
	rg.GET("/survey-catalog", h.getActiveCatalog)

	catalogGroup := rg.Group("/survey-catalog")
	catalogGroup.Use(mw.GetAndValidateSurveyUserJWT(h.tokenSignKey))

	questionsGroup := catalogGroup.Group("/questions")
	questionsGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_MANAGE_QUESTIONS))
	{
		questionsGroup.GET("", h.getAllQuestions)
		questionsGroup.POST("", mw.RequirePayload(), h.createQuestion)
		questionsGroup.PUT("/:questionID/is-active", mw.RequirePayload(), h.setQuestionIsActive)
	}

	answersGroup := catalogGroup.Group("/answers")
	answersGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_MANAGE_ANSWERS))
	{
		answersGroup.POST("", mw.RequirePayload(), h.createAnswer)
	}

	unitsGroup := catalogGroup.Group("/units")
	unitsGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_MANAGE_UNITS))
	{
		unitsGroup.GET("", h.getAllUnits)
		unitsGroup.POST("", mw.RequirePayload(), h.createUnit)
		unitsGroup.PUT("/:unitID/name", mw.RequirePayload(), h.renameUnit)
	}
}

// getActiveCatalog returns the active questions (by order) and the full
// answer scale, everything a kiosk needs to render the survey form.
func (h *HttpEndpoints) getActiveCatalog(c *gin.Context) {
	questions, err := h.surveyDBConn.GetActiveSurveyQuestions()
	if err != nil {
		slog.Error("getActiveCatalog: error retrieving questions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting survey catalog"})
		return
	}

	answers, err := h.surveyDBConn.GetAllSurveyAnswers()
	if err != nil {
		slog.Error("getActiveCatalog: error retrieving answers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting survey catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"answers":   answers,
	})
}

func (h *HttpEndpoints) getAllQuestions(c *gin.Context) {
	questions, err := h.surveyDBConn.GetAllSurveyQuestions()
	if err != nil {
		slog.Error("getAllQuestions: error retrieving questions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type CreateQuestionReq struct {
	Question string `json:"question"`
	Type     string `json:"type"`
	Order    int    `json:"order"`
}

func (h *HttpEndpoints) createQuestion(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req CreateQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Question == "" || req.Order < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and order are required"})
		return
	}
	if req.Type != surveydb.QUESTION_TYPE_KUESIONER && req.Type != surveydb.QUESTION_TYPE_ESSAY {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown question type"})
		return
	}

	modifier, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	question, err := h.surveyDBConn.CreateSurveyQuestion(surveydb.SurveyQuestion{
		Question:       req.Question,
		Type:           req.Type,
		Order:          req.Order,
		IsActive:       true,
		LastModifiedBy: modifier,
	})
	if err != nil {
		if errors.Is(err, surveydb.ErrQuestionOrderTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("createQuestion: error creating question", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create question"})
		return
	}

	slog.Info("survey question created", slog.String("questionID", question.ID.Hex()), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

func (h *HttpEndpoints) setQuestionIsActive(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)
	questionID := c.Param("questionID")

	var req SetIsActiveReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
		return
	}

	if err := h.surveyDBConn.SetSurveyQuestionIsActive(questionID, *req.IsActive, token.ID); err != nil {
		slog.Error("setQuestionIsActive: error updating question", slog.String("questionID", questionID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	slog.Info("survey question active flag updated", slog.String("questionID", questionID), slog.Bool("isActive", *req.IsActive), slog.String("by", token.ID))
	c.JSON(http.StatusOK, gin.H{"message": "question updated"})
}

type CreateAnswerReq struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

func (h *HttpEndpoints) createAnswer(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req CreateAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" || req.Value < 0 || req.Value > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and a value between 0 and 5 are required"})
		return
	}

	modifier, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	answer, err := h.surveyDBConn.CreateSurveyAnswer(surveydb.SurveyAnswer{
		Title:          req.Title,
		Value:          req.Value,
		LastModifiedBy: modifier,
	})
	if err != nil {
		slog.Error("createAnswer: error creating answer", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create answer"})
		return
	}

	slog.Info("survey answer created", slog.String("answerID", answer.ID.Hex()), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"answer": answer})
}

func (h *HttpEndpoints) getAllUnits(c *gin.Context) {
	units, err := h.surveyDBConn.GetAllUnits()
	if err != nil {
		slog.Error("getAllUnits: error retrieving units", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting units"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

type CreateUnitReq struct {
	Name string `json:"name"`
}

func (h *HttpEndpoints) createUnit(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req CreateUnitReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	modifier, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unit, err := h.surveyDBConn.CreateUnit(surveydb.Unit{
		Name:           req.Name,
		LastModifiedBy: modifier,
	})
	if err != nil {
		slog.Error("createUnit: error creating unit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create unit"})
		return
	}

	slog.Info("unit created", slog.String("unitID", unit.ID.Hex()), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

type RenameUnitReq struct {
	Name string `json:"name"`
}

func (h *HttpEndpoints) renameUnit(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)
	unitID := c.Param("unitID")

	var req RenameUnitReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := h.surveyDBConn.RenameUnit(unitID, req.Name, token.ID); err != nil {
		slog.Error("renameUnit: error updating unit", slog.String("unitID", unitID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}

	slog.Info("unit renamed", slog.String("unitID", unitID), slog.String("by", token.ID))
	c.JSON(http.StatusOK, gin.H{"message": "unit updated"})
}
