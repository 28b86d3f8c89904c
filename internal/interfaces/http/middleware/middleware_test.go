package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fashion-storefront/internal/config"
	"github.com/your-org/fashion-storefront/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jwtManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
	})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func identityEcho(c *gin.Context) {
	id := IdentityFromContext(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":  id.UserID,
		"verified": id.Verified,
		"admin":    id.Admin,
	})
}

func TestAuthMiddleware(t *testing.T) {
	j := jwtManager()
	r := gin.New()
	r.GET("/me", AuthMiddleware(j), identityEcho)
	r.GET("/admin", AuthMiddleware(j), AdminMiddleware(), identityEcho)

	access, err := j.GenerateAccessToken("u1", "jane@example.com", true, false)
	require.NoError(t, err)
	refresh, err := j.GenerateRefreshToken("u1", "jane@example.com")
	require.NoError(t, err)
	admin, err := j.GenerateAccessToken("a1", "admin@example.com", true, true)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic " + access, http.StatusUnauthorized},
		{"refresh token", "/me", "Bearer " + refresh, http.StatusUnauthorized},
		{"garbage", "/me", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "/me", "Bearer " + access, http.StatusOK},
		{"customer on admin route", "/admin", "Bearer " + access, http.StatusForbidden},
		{"admin", "/admin", "Bearer " + admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.status, serve(r, req).Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	assert.JSONEq(t, `{"user_id":"u1","verified":true,"admin":false}`, serve(r, req).Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	j := jwtManager()
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(j), identityEcho)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","verified":false,"admin":false}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-or-bogus")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":""`)

	token, err := j.GenerateAccessToken("u1", "jane@example.com", false, false)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Contains(t, serve(r, req).Body.String(), `"user_id":"u1"`)
}

type fakeLimiter struct {
	hits int
	err  error
}

func (f *fakeLimiter) Allow(_ context.Context, _ string, limit int, _ time.Duration) (bool, error) {
	f.hits++
	if f.err != nil {
		return false, f.err
	}
	return f.hits <= limit, nil
}

func TestRateLimit(t *testing.T) {
	logger, _ := test.NewNullLogger()

	limiter := &fakeLimiter{}
	r := gin.New()
	r.Use(RateLimit(limiter, 1, logger))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	broken := gin.New()
	broken.Use(RateLimit(&fakeLimiter{err: errors.New("redis down")}, 1, logger))
	broken.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(broken, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", serve(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 65))
	assert.Len(t, serve(r, req).Header().Get(RequestIDHeader), 36)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogger_LevelByStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestID(), Logger(logger, nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "/ok", hook.LastEntry().Data["route"])
	assert.NotEmpty(t, hook.LastEntry().Data["request_id"])

	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "unmatched", hook.LastEntry().Data["route"])

	serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"https://shop.example.com", "*.example.org"}

	assert.True(t, isOriginAllowed("https://shop.example.com", allowed))
	assert.True(t, isOriginAllowed("https://admin.example.org", allowed))
	assert.False(t, isOriginAllowed("https://example.org.evil.com", allowed))
	assert.False(t, isOriginAllowed("https://evilexample.org", allowed))
	assert.False(t, isOriginAllowed("https://other.example.com", allowed))
}
