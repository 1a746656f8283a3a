package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"hiring-backend/internal/shared/auth"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth("dev"))
	router.GET("/api/v1/candidates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":  UserIDFromContext(c),
			"isGuest": IsGuest(c),
		})
	})
	router.OPTIONS("/api/v1/candidates", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/candidates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthAcceptsSignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter(t)

	token, err := auth.SignJWT(auth.Claims{
		Email:            "dana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var body struct {
		UserID  string `json:"userId"`
		IsGuest bool   `json:"isGuest"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != "user-42" || body.IsGuest {
		t.Fatalf("identity = %+v", body)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestAuthGuestHeader(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	req.Header.Set("X-Guest-Id", "abc123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var body struct {
		UserID  string `json:"userId"`
		IsGuest bool   `json:"isGuest"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != "guest:abc123" || !body.IsGuest {
		t.Fatalf("identity = %+v", body)
	}
}

func TestAuthRequiresIdentity(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.Code)
	}
}
