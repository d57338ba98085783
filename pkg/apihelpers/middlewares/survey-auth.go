package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwthandling "github.com/taufikRahadi/sisupel/pkg/jwt-handling"
	pc "github.com/taufikRahadi/sisupel/pkg/permission-checker"
)

const (
	HeaderAuthorization = "Authorization"
)

// GetAndValidateSurveyUserJWT extracts the JWT from the Authorization
// header, validates it and stores the parsed claims in the context.
func GetAndValidateSurveyUserJWT(tokenSignKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		// Parse and validate token
		parsedToken, ok, err := jwthandling.ValidateSurveyUserToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}
		c.Set("validatedToken", parsedToken)
	}
}

// RequirePrivilege blocks requests whose role does not carry the given
// privilege. Must run after GetAndValidateSurveyUserJWT.
func RequirePrivilege(db pc.RolePrivilegeConnector, privilege string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetSurveyUserClaims(c)
		if err != nil {
			slog.Warn("missing validated token in context", slog.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		if !pc.IsAuthorized(db, claims.RoleName, claims.RoleID, privilege) {
			slog.Warn("missing privilege",
				slog.String("userID", claims.ID),
				slog.String("privilege", privilege),
				slog.String("path", c.Request.URL.Path))
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSurveyUserClaims reads the claims stored by GetAndValidateSurveyUserJWT.
func GetSurveyUserClaims(c *gin.Context) (*jwthandling.SurveyUserClaims, error) {
	value, exists := c.Get("validatedToken")
	if !exists {
		return nil, errors.New("no validated token in context")
	}
	claims, ok := value.(*jwthandling.SurveyUserClaims)
	if !ok {
		return nil, errors.New("unexpected token type in context")
	}
	return claims, nil
}

func extractToken(c *gin.Context) (string, error) {
	req := c.Request

	var token string
	tokens, ok := req.Header[HeaderAuthorization]
	if ok && len(tokens) > 0 {
		token = tokens[0]
		token = strings.TrimPrefix(token, "Bearer ")
		if len(token) == 0 {
			return token, errors.New("No token found in Authorization header")
		}
	} else {
		return token, errors.New("No Authorization header found")
	}
	return token, nil
}
