package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information a token enocodes
type SurveyUserClaims struct {
	ID       string `json:"id,omitempty"`
	RoleID   string `json:"roleId,omitempty"`
	RoleName string `json:"role,omitempty"`
	UnitID   string `json:"unit,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewSurveyUserToken(expiresIn time.Duration, id string, roleID string, roleName string, unitID string, secretKey string) (tokenString string, err error) {
	claims := SurveyUserClaims{
		id,
		roleID,
		roleName,
		unitID,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateSurveyUserToken(tokenString string, secretKey string) (claims *SurveyUserClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &SurveyUserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*SurveyUserClaims)
	valid = valid && token.Valid
	return
}
