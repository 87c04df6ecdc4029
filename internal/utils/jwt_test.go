package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	userID := "123"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, userID, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Fatal("expected non-nil jwt.Token object")
	}

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != "123" {
		t.Errorf("expected subject '123', got %s", claims.Subject)
	}
	if token.UserID != "123" {
		t.Errorf("expected user id '123', got %s", token.UserID)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		userID   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "1", time.Hour, "key"},
		{"empty user", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "1", 0, "key"},
		{"empty key", "iss", "1", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.userID, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	key := "secret-key"

	genToken, err := GenerateJWTToken(issuer, "456", 5*time.Minute, key)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)
	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.UserID != "456" {
		t.Errorf("expected userID 456, got %s", parsedToken.UserID)
	}
	if parsedToken.ExpiresAt == nil {
		t.Error("expected expiry claim to be populated")
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "1", time.Hour, "correct-key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "wrong-key", "test-issuer")
	if err == nil {
		t.Error("expected error due to signature mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "1", -time.Second, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "test-issuer")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected expired token error, got %v", err)
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	genToken, _ := GenerateJWTToken("real-issuer", "1", time.Hour, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "fake-issuer")
	if err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Malformed(t *testing.T) {
	_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("expected token, got %q, %v", token, err)
	}

	for _, header := range []string{"", "Bearer", "Bearer ", "a b c"} {
		if _, err := ParseBearerToken(header); err == nil {
			t.Errorf("expected error for header %q", header)
		}
	}
}

func TestParseUnverifiedToken(t *testing.T) {
	genToken, _ := GenerateJWTToken("iss", "user-7", time.Hour, "server-only-key")

	token, err := ParseUnverifiedToken(genToken.SignedString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.UserID != "user-7" {
		t.Errorf("expected subject user-7, got %q", token.UserID)
	}

	if _, err := ParseUnverifiedToken("garbage"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	valid, _ := GenerateJWTToken("iss", "1", time.Hour, "k")
	expired, _ := GenerateJWTToken("iss", "1", -time.Minute, "k")

	if exp, err := TokenExpired(valid.SignedString, now); err != nil || exp {
		t.Errorf("expected valid token, got expired=%v err=%v", exp, err)
	}
	if exp, err := TokenExpired(expired.SignedString, now); err != nil || !exp {
		t.Errorf("expected expired token, got expired=%v err=%v", exp, err)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"})
	signed, err := noExp.SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if exp, err := TokenExpired(signed, now); err != nil || exp {
		t.Errorf("expected token without exp to be valid, got expired=%v err=%v", exp, err)
	}
}
