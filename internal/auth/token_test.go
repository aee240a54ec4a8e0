package auth

import (
	"testing"
	"time"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret", 2*time.Hour)

	token, err := m.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	userID, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Validate() userID = %q, want %q", userID, "user-123")
	}
}

func TestTokenManager_InvalidToken(t *testing.T) {
	m := NewTokenManager("test-secret", 2*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "random string", token: "not.a.valid.token"},
		{name: "malformed jwt", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); err == nil {
				t.Error("Validate() should return error for invalid token")
			}
		})
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	m1 := NewTokenManager("secret-one", 2*time.Hour)
	m2 := NewTokenManager("secret-two", 2*time.Hour)

	token, err := m1.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m2.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() with rotated secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", 1*time.Millisecond)

	token, err := m.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := m.Validate(token); err != ErrExpiredToken {
		t.Errorf("Validate() expired token = %v, want ErrExpiredToken", err)
	}
}

func TestTokenManager_TTL(t *testing.T) {
	m := NewTokenManager("test-secret", 2*time.Hour)
	if got := m.TTL(); got != 2*time.Hour {
		t.Errorf("TTL() = %v, want %v", got, 2*time.Hour)
	}
}
