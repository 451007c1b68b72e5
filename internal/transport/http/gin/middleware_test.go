package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/service/auth"
)

var testSecret = []byte("test-secret")

func signTestToken(t *testing.T, secret []byte, subject string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": "admin@example.com",
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return token
}

func guardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := auth.New(nil, auth.Config{Secret: testSecret})

	r := gin.New()
	r.GET("/protected", RequireAdmin(svc), func(c *gin.Context) {
		sess, ok := sessionFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": sess.Email, "role": sess.Role})
	})

	return r
}

func TestRequireAdmin(t *testing.T) {
	r := guardedRouter()
	adminID := uuid.New()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signTestToken(t, []byte("other"), adminID.String(), time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signTestToken(t, testSecret, adminID.String(), -time.Minute), http.StatusUnauthorized},
		{"valid", "Bearer " + signTestToken(t, testSecret, adminID.String(), time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestWriteJSONWithCacheETag(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/thing", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"n": 42}, "public, max-age=30", false)
	})

	req := httptest.NewRequest(http.MethodGet, "/thing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=30" {
		t.Fatalf("cache-control = %q", cc)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/thing", nil)
	req2.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)

	if w2.Code != http.StatusNotModified {
		t.Fatalf("second status = %d, want 304", w2.Code)
	}

	if w2.Body.Len() != 0 {
		t.Fatalf("304 response has a body: %q", w2.Body.String())
	}
}
