package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-recipe-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func whoAmI(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(CtxUserIDKey))
}

func TestAuth(t *testing.T) {
	rdb, mr := newRedis(t)
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	access, _, err := jwt.GenerateAccessToken("u1", "sid-1")
	require.NoError(t, err)
	stale, _, err := jwt.GenerateAccessToken("u1", "sid-0")
	require.NoError(t, err)
	mr.HSet(helpers.SessionKey("u1"), "user_id", "u1", "sid", "sid-1")

	r := gin.New()
	r.GET("/me", Auth(rdb, jwt), whoAmI)

	cases := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized},
		{"stale session", "Bearer " + stale, "", http.StatusUnauthorized},
		{"bearer", "Bearer " + access, "", http.StatusOK},
		{"cookie", "", access, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "u1", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}

	mr.Del(helpers.SessionKey("u1"))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthWithoutRedisTrustsToken(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	access, _, err := jwt.GenerateAccessToken("u9", "any")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(nil, jwt), whoAmI)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+access)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u9", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	rdb, _ := newRedis(t)
	r := gin.New()
	r.Use(RateLimit(rdb, Limit{Max: 2, Window: time.Minute, Key: KeyByIP()}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		return rec
	}

	first := hit()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, hit().Code)

	blocked := hit()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
}

func TestRateLimitBypassAndFailOpen(t *testing.T) {
	rdb, mr := newRedis(t)
	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, Limit{Max: 1, Window: time.Minute, Key: KeyByIP(), Allow: AllowPrivateIP()}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", "10.1.2.3")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	mr.Close()
	open := gin.New()
	open.Use(RateLimit(rdb, Limit{Max: 1, Window: time.Minute, Key: KeyByIP()}))
	open.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIPKey)) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "203.0.113.7", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "198.51.100.1", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Real-IP", "garbage")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "192.0.2.1", rec.Body.String())
}

func TestRequestIDAndAccessLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc", rec.Header().Get(RequestIDHeader))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "req-abc", entry.Data["request_id"])
	assert.Equal(t, "/items/:id", entry.Data["path"])
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
