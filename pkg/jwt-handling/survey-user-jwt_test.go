package jwthandling

import (
	"testing"
	"time"
)

func TestSurveyUserTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateNewSurveyUserToken(time.Minute, "user1", "role1", "FRONT DESK", "unit1", "testkey")
	if err != nil {
		t.Fatal(err)
	}

	claims, valid, err := ValidateSurveyUserToken(token, "testkey")
	if err != nil || !valid {
		t.Fatalf("expected valid token, got valid=%v err=%v", valid, err)
	}
	if claims.ID != "user1" || claims.RoleID != "role1" || claims.RoleName != "FRONT DESK" || claims.UnitID != "unit1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestSurveyUserTokenWrongKey(t *testing.T) {
	t.Parallel()

	token, err := GenerateNewSurveyUserToken(time.Minute, "user1", "role1", "FRONT DESK", "", "testkey")
	if err != nil {
		t.Fatal(err)
	}

	if _, valid, _ := ValidateSurveyUserToken(token, "otherkey"); valid {
		t.Error("token signed with a different key must not validate")
	}
}

func TestSurveyUserTokenExpired(t *testing.T) {
	t.Parallel()

	token, err := GenerateNewSurveyUserToken(-time.Minute, "user1", "role1", "FRONT DESK", "", "testkey")
	if err != nil {
		t.Fatal(err)
	}

	if _, valid, _ := ValidateSurveyUserToken(token, "testkey"); valid {
		t.Error("expired token must not validate")
	}
}
