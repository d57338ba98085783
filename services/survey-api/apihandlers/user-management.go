package apihandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mw "github.com/taufikRahadi/sisupel/pkg/apihelpers/middlewares"
	userdb "github.com/taufikRahadi/sisupel/pkg/db/user"
	jwthandling "github.com/taufikRahadi/sisupel/pkg/jwt-handling"
	pc "github.com/taufikRahadi/sisupel/pkg/permission-checker"
	"github.com/taufikRahadi/sisupel/pkg/user-management/pwhash"
	umUtils "github.com/taufikRahadi/sisupel/pkg/user-management/utils"
	"github.com/taufikRahadi/sisupel/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp"}

func (h *HttpEndpoints) AddUserManagementAPI(rg *gin.RouterGroup) {
	umGroup := rg.Group("/user-management")
	umGroup.Use(mw.GetAndValidateSurveyUserJWT(h.tokenSignKey))

	umGroup.POST("/me/photo", h.uploadOwnPhoto)

	usersGroup := umGroup.Group("/users")
	usersGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_MANAGE_USERS))
	{
		usersGroup.GET("", h.getAllUsers)
		usersGroup.GET("/:userID", h.getUser)
		usersGroup.POST("", mw.RequirePayload(), h.createUser)
		usersGroup.PUT("/:userID/is-active", mw.RequirePayload(), h.setUserIsActive)
	}

	rolesGroup := umGroup.Group("/roles")
	rolesGroup.Use(mw.RequirePrivilege(h.userDBConn, pc.PRIVILEGE_MANAGE_ROLES))
	{
		rolesGroup.GET("", h.getAllRoles)
		rolesGroup.POST("", mw.RequirePayload(), h.createRole)
		rolesGroup.PUT("/:roleID/privileges", mw.RequirePayload(), h.setRolePrivileges)

		rolesGroup.GET("/privileges", h.getAllPrivileges)
		rolesGroup.POST("/privileges", mw.RequirePayload(), h.createPrivilege)
	}
}

func (h *HttpEndpoints) getAllUsers(c *gin.Context) {
	users, err := h.userDBConn.GetAllUsers()
	if err != nil {
		slog.Error("getAllUsers: error retrieving users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *HttpEndpoints) getUser(c *gin.Context) {
	userID := c.Param("userID")

	user, err := h.userDBConn.GetUserByID(userID)
	if err != nil {
		slog.Warn("getUser: user not found", slog.String("requestedUserID", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type CreateUserReq struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   string `json:"role"`
	UnitID   string `json:"unit"`
}

func (h *HttpEndpoints) createUser(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("createUser: failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)
	req.Fullname = umUtils.SanitizeFullname(req.Fullname)

	if req.Fullname == "" || !umUtils.CheckEmailFormat(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fullname or email"})
		return
	}
	if !umUtils.CheckPasswordFormat(req.Password) || umUtils.IsPasswordOnBlocklist(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too weak"})
		return
	}

	roleID, err := primitive.ObjectIDFromHex(req.RoleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role reference"})
		return
	}
	if _, err := h.userDBConn.GetRoleByID(req.RoleID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role not found"})
		return
	}

	var unitID primitive.ObjectID
	if req.UnitID != "" {
		unitID, err = primitive.ObjectIDFromHex(req.UnitID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit reference"})
			return
		}
		if _, err := h.surveyDBConn.GetUnitByID(req.UnitID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unit not found"})
			return
		}
	}

	password, err := pwhash.HashPassword(req.Password)
	if err != nil {
		slog.Error("createUser: failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user, err := h.userDBConn.CreateUser(userdb.User{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: password,
		RoleID:   roleID,
		UnitID:   unitID,
		IsActive: true,
	})
	if err != nil {
		slog.Error("createUser: error creating user", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create user"})
		return
	}

	slog.Info("user created", slog.String("userID", user.ID.Hex()), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type SetIsActiveReq struct {
	IsActive *bool `json:"isActive"`
}

func (h *HttpEndpoints) setUserIsActive(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)
	userID := c.Param("userID")

	var req SetIsActiveReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
		return
	}

	if token.ID == userID && !*req.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user cannot deactivate itself"})
		return
	}

	if err := h.userDBConn.SetUserIsActive(userID, *req.IsActive); err != nil {
		slog.Error("setUserIsActive: error updating user", slog.String("requestedUserID", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	slog.Info("user active flag updated", slog.String("userID", userID), slog.Bool("isActive", *req.IsActive), slog.String("by", token.ID))
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

func (h *HttpEndpoints) uploadOwnPhoto(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	contentType, err := utils.ValidateFileTypeFromContent(fileHeader, allowedPhotoTypes)
	if err != nil {
		slog.Warn("uploadOwnPhoto: rejected file", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("%s%s", uuid.NewString(), utils.GetFileExtensionFromContentType(contentType))
	targetPath := filepath.Join(h.filestorePath, "user-photos", filename)

	if err := c.SaveUploadedFile(fileHeader, targetPath); err != nil {
		slog.Error("uploadOwnPhoto: failed to store file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store photo"})
		return
	}

	if err := h.userDBConn.UpdateUserPhoto(token.ID, filename); err != nil {
		slog.Error("uploadOwnPhoto: failed to update user", slog.String("userID", token.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo": filename})
}

func (h *HttpEndpoints) getAllRoles(c *gin.Context) {
	roles, err := h.userDBConn.GetAllRoles()
	if err != nil {
		slog.Error("getAllRoles: error retrieving roles", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

type CreateRoleReq struct {
	Name string `json:"name"`
}

func (h *HttpEndpoints) createRole(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req CreateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	modifier, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, err := h.userDBConn.CreateRole(userdb.Role{
		Name:           req.Name,
		PrivilegeIDs:   []primitive.ObjectID{},
		LastModifiedBy: modifier,
	})
	if err != nil {
		slog.Error("createRole: error creating role", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create role"})
		return
	}

	slog.Info("role created", slog.String("roleID", role.ID.Hex()), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"role": role})
}

type SetRolePrivilegesReq struct {
	PrivilegeIDs []string `json:"privileges"`
}

func (h *HttpEndpoints) setRolePrivileges(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)
	roleID := c.Param("roleID")

	var req SetRolePrivilegesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	privilegeIDs := make([]primitive.ObjectID, 0, len(req.PrivilegeIDs))
	for _, id := range req.PrivilegeIDs {
		pid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid privilege reference: " + id})
			return
		}
		privilegeIDs = append(privilegeIDs, pid)
	}

	// every requested privilege must exist
	existing, err := h.userDBConn.GetPrivilegesByIDs(privilegeIDs)
	if err != nil {
		slog.Error("setRolePrivileges: error resolving privileges", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error resolving privileges"})
		return
	}
	existingIDs := make([]string, 0, len(existing))
	for _, p := range existing {
		existingIDs = append(existingIDs, p.ID.Hex())
	}
	for _, id := range req.PrivilegeIDs {
		if !utils.ContainsString(existingIDs, id) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown privilege: " + id})
			return
		}
	}

	modifier, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.userDBConn.SetRolePrivileges(roleID, privilegeIDs, modifier); err != nil {
		slog.Error("setRolePrivileges: error updating role", slog.String("roleID", roleID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
		return
	}

	slog.Info("role privileges updated", slog.String("roleID", roleID), slog.String("by", token.ID))
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *HttpEndpoints) getAllPrivileges(c *gin.Context) {
	privileges, err := h.userDBConn.GetAllPrivileges()
	if err != nil {
		slog.Error("getAllPrivileges: error retrieving privileges", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting privileges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"privileges": privileges})
}

type CreatePrivilegeReq struct {
	Name string `json:"name"`
}

func (h *HttpEndpoints) createPrivilege(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.SurveyUserClaims)

	var req CreatePrivilegeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	modifier, err := primitive.ObjectIDFromHex(token.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	privilege, err := h.userDBConn.CreatePrivilege(userdb.Privilege{
		Name:           req.Name,
		LastModifiedBy: modifier,
	})
	if err != nil {
		slog.Error("createPrivilege: error creating privilege", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create privilege"})
		return
	}

	slog.Info("privilege created", slog.String("privilegeID", privilege.ID.Hex()), slog.String("by", token.ID))
	c.JSON(http.StatusCreated, gin.H{"privilege": privilege})
}
