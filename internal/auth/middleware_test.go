package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dom "github.com/sushilkumar666/task-manager/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

type fakeUserLoader struct {
	users map[string]dom.User
}

func (f *fakeUserLoader) GetByID(_ context.Context, id string) (dom.User, error) {
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func newAuthRouter(tokens *TokenManager, users UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, users), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "userId": u.ID, "hash": u.PasswordHash})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	users := &fakeUserLoader{users: map[string]dom.User{
		"u1": {ID: "u1", Name: "A", Email: "a@x.com", PasswordHash: "bcrypt-hash"},
	}}
	r := newAuthRouter(tokens, users)

	valid, err := tokens.Generate("u1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	orphan, err := tokens.Generate("gone")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	expired, err := NewTokenManager("test-secret", -time.Minute).Generate("u1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name        string
		cookie      string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no token at all",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthorized request: No token provided",
		},
		{
			name:        "garbage cookie",
			cookie:      "not-a-token",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired token",
		},
		{
			name:        "expired cookie",
			cookie:      expired,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired token",
		},
		{
			name:        "token signed for a deleted user",
			cookie:      orphan,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "User not found or invalid token",
		},
		{
			name:       "valid cookie",
			cookie:     valid,
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer header",
			header:     "Bearer " + valid,
			wantStatus: http.StatusOK,
		},
		{
			name:        "header without bearer prefix",
			header:      valid,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthorized request: No token provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantMessage != "" && !strings.Contains(w.Body.String(), tt.wantMessage) {
				t.Errorf("body = %s, want message %q", w.Body.String(), tt.wantMessage)
			}
		})
	}
}

func TestRequireAuth_CookieTakesPriorityOverHeader(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	users := &fakeUserLoader{users: map[string]dom.User{
		"cookie-user": {ID: "cookie-user"},
		"header-user": {ID: "header-user"},
	}}
	r := newAuthRouter(tokens, users)

	cookieToken, _ := tokens.Generate("cookie-user")
	headerToken, _ := tokens.Generate("header-user")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.UserID != "cookie-user" {
		t.Errorf("resolved user = %q, want cookie-user", body.UserID)
	}
}

func TestRequireAuth_StripsPasswordHash(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	users := &fakeUserLoader{users: map[string]dom.User{
		"u1": {ID: "u1", PasswordHash: "bcrypt-hash"},
	}}
	r := newAuthRouter(tokens, users)

	token, _ := tokens.Generate("u1")
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Hash != "" {
		t.Errorf("identity attached to context still carries the password hash")
	}
}
