package apihandlers

import (
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	mw "github.com/taufikRahadi/sisupel/pkg/apihelpers/middlewares"
	jwthandling "github.com/taufikRahadi/sisupel/pkg/jwt-handling"
	"github.com/taufikRahadi/sisupel/pkg/user-management/pwhash"
	umUtils "github.com/taufikRahadi/sisupel/pkg/user-management/utils"
)

func (h *HttpEndpoints) AddAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.loginWithEmail)
		authGroup.GET("/token/renew", mw.GetAndValidateSurveyUserJWT(h.tokenSignKey), h.renewToken)
		authGroup.GET("/me", mw.GetAndValidateSurveyUserJWT(h.tokenSignKey), h.getOwnUser)
	}
}

type LoginWithEmailReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}

func (h *HttpEndpoints) loginWithEmail(c *gin.Context) {
	var req LoginWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)

	user, err := h.userDBConn.GetUserByEmail(req.Email)
	if err != nil {
		slog.Warn("login attempt with wrong email address", slog.String("email", req.Email), slog.String("error", err.Error()))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if !user.IsActive {
		slog.Warn("login attempt for inactive user", slog.String("email", req.Email))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	match, err := pwhash.ComparePasswordWithHash(user.Password, req.Password)
	if err != nil || !match {
		if err == nil {
			err = errors.New("passwords do not match")
		}
		slog.Warn("login attempt with wrong password", slog.String("email", req.Email), slog.String("error", err.Error()))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	role, err := h.userDBConn.GetRoleByID(user.RoleID.Hex())
	if err != nil {
		slog.Error("failed to resolve role for user", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	unitID := ""
	if !user.UnitID.IsZero() {
		unitID = user.UnitID.Hex()
	}

	token, err := jwthandling.GenerateNewSurveyUserToken(
		h.tokenExpiresIn,
		user.ID.Hex(),
		role.ID.Hex(),
		role.Name,
		unitID,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.userDBConn.UpdateUserLastLogin(user.ID.Hex(), time.Now()); err != nil {
		slog.Error("failed to update last login", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
	}

	slog.Info("login successful", slog.String("subject", user.ID.Hex()))

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": h.tokenExpiresIn.Seconds(),
		"user":      user,
	})
}

func (h *HttpEndpoints) renewToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	user, err := h.userDBConn.GetUserByID(token.ID)
	if err != nil {
		slog.Warn("renewToken: user not found", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !user.IsActive {
		slog.Warn("renewToken: user inactive", slog.String("userID", token.ID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, err := h.userDBConn.GetRoleByID(user.RoleID.Hex())
	if err != nil {
		slog.Error("renewToken: failed to resolve role", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	unitID := ""
	if !user.UnitID.IsZero() {
		unitID = user.UnitID.Hex()
	}

	newToken, err := jwthandling.GenerateNewSurveyUserToken(
		h.tokenExpiresIn,
		user.ID.Hex(),
		role.ID.Hex(),
		role.Name,
		unitID,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("renewToken: failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     newToken,
		"expiresIn": h.tokenExpiresIn.Seconds(),
	})
}

func (h *HttpEndpoints) getOwnUser(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	user, err := h.userDBConn.GetUserByID(token.ID)
	if err != nil {
		slog.Error("getOwnUser: error retrieving user", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
