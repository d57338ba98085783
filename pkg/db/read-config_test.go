package db

import "testing"

func TestSameDatabase(t *testing.T) {
	base := DBConfigYaml{
		ConnectionStr:    "localhost:27017",
		ConnectionPrefix: "",
		DBName:           "sisupel",
		Username:         "surveyService",
	}

	t.Run("same server and db name", func(t *testing.T) {
		other := base
		other.Username = "userService"
		if !SameDatabase(base, other) {
			t.Error("configs differing only in credentials should match")
		}
	})

	t.Run("different db name", func(t *testing.T) {
		other := base
		other.DBName = "users"
		if SameDatabase(base, other) {
			t.Error("different db names must not match")
		}
	})

	t.Run("different server", func(t *testing.T) {
		other := base
		other.ConnectionStr = "otherhost:27017"
		if SameDatabase(base, other) {
			t.Error("different servers must not match")
		}
	})

	t.Run("different connection prefix", func(t *testing.T) {
		other := base
		other.ConnectionPrefix = "+srv"
		if SameDatabase(base, other) {
			t.Error("different connection prefixes must not match")
		}
	})
}
