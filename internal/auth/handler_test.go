package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/pkg/database"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "auth.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewHandler(NewRepo(db), NewTokenService("test-secret", "moviehub-test", time.Hour))
	r := gin.New()
	h.RegisterRoutes(r.Group("/auth"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var s sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return s
}

func register(t *testing.T, r *gin.Engine, username, email, password string) sessionResponse {
	t.Helper()
	w := postJSON(t, r, "/auth/register", "", gin.H{
		"username": username, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d, body %s", w.Code, w.Body.String())
	}
	return decodeSession(t, w)
}

func TestRegisterAndLogin(t *testing.T) {
	r := newAuthRouter(t)

	sess := register(t, r, "moviefan", "Fan@Example.com", "opensesame1")
	if sess.Token == "" {
		t.Fatal("register returned no token")
	}
	if sess.User.Email != "fan@example.com" {
		t.Errorf("email = %q, want lowercased", sess.User.Email)
	}

	w := postJSON(t, r, "/auth/login", "", gin.H{
		"email": "fan@example.com", "password": "opensesame1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", w.Code, w.Body.String())
	}
	if decodeSession(t, w).Token == "" {
		t.Error("login returned no token")
	}

	w = postJSON(t, r, "/auth/login", "", gin.H{
		"email": "fan@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login with wrong password = %d, want 401", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthRouter(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing fields", gin.H{"username": "moviefan"}},
		{"short username", gin.H{"username": "ab", "email": "a@example.com", "password": "opensesame1"}},
		{"bad email", gin.H{"username": "moviefan", "email": "not-an-email", "password": "opensesame1"}},
		{"short password", gin.H{"username": "moviefan", "email": "a@example.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postJSON(t, r, "/auth/register", "", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("register = %d, want 400", w.Code)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	r := newAuthRouter(t)
	register(t, r, "moviefan", "fan@example.com", "opensesame1")

	w := postJSON(t, r, "/auth/register", "", gin.H{
		"username": "otherfan", "email": "fan@example.com", "password": "opensesame1",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate email = %d, want 409", w.Code)
	}

	w = postJSON(t, r, "/auth/register", "", gin.H{
		"username": "moviefan", "email": "other@example.com", "password": "opensesame1",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username = %d, want 409", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newAuthRouter(t)
	sess := register(t, r, "moviefan", "fan@example.com", "opensesame1")

	if w := postJSON(t, r, "/auth/logout", sess.Token, gin.H{}); w.Code != http.StatusOK {
		t.Fatalf("logout = %d, body %s", w.Code, w.Body.String())
	}

	if w := postJSON(t, r, "/auth/logout", sess.Token, gin.H{}); w.Code != http.StatusUnauthorized {
		t.Errorf("logout with revoked token = %d, want 401", w.Code)
	}
}

func TestChangePasswordRotatesCredentials(t *testing.T) {
	r := newAuthRouter(t)
	sess := register(t, r, "moviefan", "fan@example.com", "opensesame1")

	w := postJSON(t, r, "/auth/change-password", sess.Token, gin.H{
		"old_password": "wrong-old", "new_password": "anothersecret2",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("change with wrong old password = %d, want 401", w.Code)
	}

	w = postJSON(t, r, "/auth/change-password", sess.Token, gin.H{
		"old_password": "opensesame1", "new_password": "anothersecret2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change password = %d, body %s", w.Code, w.Body.String())
	}

	// old token is revoked by the version bump
	if w := postJSON(t, r, "/auth/logout", sess.Token, gin.H{}); w.Code != http.StatusUnauthorized {
		t.Errorf("old token after password change = %d, want 401", w.Code)
	}

	w = postJSON(t, r, "/auth/login", "", gin.H{
		"email": "fan@example.com", "password": "opensesame1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login with old password = %d, want 401", w.Code)
	}

	w = postJSON(t, r, "/auth/login", "", gin.H{
		"email": "fan@example.com", "password": "anothersecret2",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login with new password = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthRejectsBadHeaders(t *testing.T) {
	r := newAuthRouter(t)

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer bad.token.here"} {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q = %d, want 401", header, w.Code)
		}
	}
}
