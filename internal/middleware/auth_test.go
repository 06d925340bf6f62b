package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	secret := []byte("test-secret")
	logger := zap.NewNop()

	r := gin.New()
	r.POST("/auth/token", TokenHandler("test-key", secret, time.Minute, logger))
	protected := r.Group("/api")
	protected.Use(AuthMiddleware(secret, logger))
	protected.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func issueToken(t *testing.T, r *gin.Engine, apiKey string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"api_key": "`+apiKey+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return w.Code, ""
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return w.Code, resp.Token
}

func TestTokenExchangeAndAccess(t *testing.T) {
	r := testRouter()

	code, token := issueToken(t, r, "test-key")
	if code != http.StatusOK || token == "" {
		t.Fatalf("token exchange failed: code=%d", code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authorized request = %d, want 200", w.Code)
	}
}

func TestTokenExchangeWrongKey(t *testing.T) {
	r := testRouter()

	if code, _ := issueToken(t, r, "wrong-key"); code != http.StatusUnauthorized {
		t.Errorf("wrong key exchange = %d, want 401", code)
	}
}

func TestMiddlewareRejectsBadRequests(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("code = %d, want 401", w.Code)
			}
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("test-secret")
	logger := zap.NewNop()

	r := gin.New()
	r.POST("/auth/token", TokenHandler("test-key", secret, -time.Minute, logger))
	protected := r.Group("/api")
	protected.Use(AuthMiddleware(secret, logger))
	protected.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	code, token := issueToken(t, r, "test-key")
	if code != http.StatusOK {
		t.Fatalf("token exchange failed: %d", code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expired token = %d, want 401", w.Code)
	}
}
