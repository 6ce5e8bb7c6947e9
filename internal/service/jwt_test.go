package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func initTestSecret(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()
}

func TestJWTRoundTrip(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateJWT(123456)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if userID != 123456 {
		t.Fatalf("userID = %d; want 123456", userID)
	}
}

func TestParseJWTGarbage(t *testing.T) {
	initTestSecret(t)

	if _, err := ParseJWT("not.a.token"); err == nil {
		t.Fatal("garbage token must be rejected")
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	initTestSecret(t)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(7),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(signed); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestParseJWTExpired(t *testing.T) {
	initTestSecret(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(7),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(signed); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestParseJWTMissingUserID(t *testing.T) {
	initTestSecret(t)

	anon := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := anon.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(signed); err == nil {
		t.Fatal("token without user_id must be rejected")
	}
}
