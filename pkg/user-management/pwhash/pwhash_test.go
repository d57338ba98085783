package pwhash

import (
	"strings"
	"testing"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Run("matching password", func(t *testing.T) {
		hash, err := HashPassword("Tt1,.Lo%4abcd")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(hash, "$argon2id$") {
			t.Errorf("unexpected hash format: %s", hash)
		}

		match, err := ComparePasswordWithHash(hash, "Tt1,.Lo%4abcd")
		if err != nil {
			t.Fatal(err)
		}
		if !match {
			t.Error("should match")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := HashPassword("Tt1,.Lo%4abcd")
		if err != nil {
			t.Fatal(err)
		}

		match, err := ComparePasswordWithHash(hash, "wrong password")
		if err != nil {
			t.Fatal(err)
		}
		if match {
			t.Error("should not match")
		}
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		h1, err := HashPassword("Tt1,.Lo%4abcd")
		if err != nil {
			t.Fatal(err)
		}
		h2, err := HashPassword("Tt1,.Lo%4abcd")
		if err != nil {
			t.Fatal(err)
		}
		if h1 == h2 {
			t.Error("hashes should use fresh salts")
		}
	})

	t.Run("malformed hash", func(t *testing.T) {
		if _, err := ComparePasswordWithHash("not-a-hash", "pw"); err == nil {
			t.Error("should return an error")
		}
	})
}
