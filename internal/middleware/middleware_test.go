package middleware

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
)

const testSecret = "test-secret-123"

func sign(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func viewerApp(auth *Authenticator) *fiber.App {
	app := fiber.New()
	app.Use(auth.Handler())
	app.Get("/whoami", func(c fiber.Ctx) error {
		v := ViewerFrom(c)
		return c.JSON(fiber.Map{"id": v.UserID, "auth": v.Authenticated, "staff": v.IsStaff})
	})
	app.Get("/admin", RequireStaff(), func(c fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuthHandler(t *testing.T) {
	app := viewerApp(NewAuthenticator(config.AuthConfig{JWTSecret: testSecret, Issuer: "nexus"}))

	valid := sign(t, Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "nexus",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}, testSecret)
	staff := sign(t, Claims{UserID: 1, IsStaff: true, RegisteredClaims: jwt.RegisteredClaims{Issuer: "nexus"}}, testSecret)
	expired := sign(t, Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "nexus",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}, testSecret)
	wrongKey := sign(t, Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{Issuer: "nexus"}}, "another-secret")
	wrongIssuer := sign(t, Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{Issuer: "other"}}, testSecret)
	noUser := sign(t, Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "nexus"}}, testSecret)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"anonymous", "/whoami", "", 200},
		{"valid token", "/whoami", "Bearer " + valid, 200},
		{"basic scheme", "/whoami", "Basic abc", 401},
		{"empty bearer", "/whoami", "Bearer ", 401},
		{"expired", "/whoami", "Bearer " + expired, 401},
		{"wrong key", "/whoami", "Bearer " + wrongKey, 401},
		{"wrong issuer", "/whoami", "Bearer " + wrongIssuer, 401},
		{"no user id", "/whoami", "Bearer " + noUser, 401},
		{"admin anonymous", "/admin", "", 401},
		{"admin regular user", "/admin", "Bearer " + valid, 403},
		{"admin staff", "/admin", "Bearer " + staff, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	rl := NewRateLimiter(rdb, config.RateLimitConfig{Enabled: true, Max: 2, WindowSec: 60}, time.Second)
	app := fiber.New()
	app.Use(rl.Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	for i := 1; i <= 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		if i <= 2 {
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, strconv.Itoa(2-i), resp.Header.Get("X-RateLimit-Remaining"))
		} else {
			assert.Equal(t, 429, resp.StatusCode)
		}
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	mr.FastForward(61 * time.Second)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRateLimiterRestoresMissingWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	rl := NewRateLimiter(rdb, config.RateLimitConfig{Enabled: true, Max: 5, WindowSec: 60}, time.Second)
	app := fiber.New()
	app.Use(rl.Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	keys := mr.Keys()
	require.Len(t, keys, 1)
	key := keys[0]
	assert.True(t, strings.HasPrefix(key, cache.Prefix+"ratelimit:"), key)

	// A counter left without an expiry, as when EXPIRE failed after INCR.
	require.NoError(t, mr.Set(key, "3"))
	require.Zero(t, mr.TTL(key))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Remaining"))
	assert.Equal(t, 60*time.Second, mr.TTL(key))

	mr.FastForward(61 * time.Second)
	assert.False(t, mr.Exists(key))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	rl := NewRateLimiter(rdb, config.RateLimitConfig{Max: 1, WindowSec: 60}, 100*time.Millisecond)
	app := fiber.New()
	app.Use(rl.Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	for range 3 {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
}
