package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
)

const viewerKey = "viewer"

// Claims are the bearer-token claims this service understands.
// Tokens are issued elsewhere and signed with the shared HS256 secret.
type Claims struct {
	UserID  int64 `json:"user_id"`
	IsStaff bool  `json:"is_staff"`
	jwt.RegisteredClaims
}

// Authenticator resolves the request viewer from an optional bearer token.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator creates an Authenticator from the auth config.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// ValidateToken parses and verifies a signed token.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Handler stores the request viewer in the context. Requests without an
// Authorization header continue as anonymous; a bad token is rejected.
func (a *Authenticator) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(viewerKey, models.Anonymous())
			return c.Next()
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}

		claims, err := a.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(viewerKey, models.AuthenticatedViewer(claims.UserID, claims.IsStaff))
		return c.Next()
	}
}

// ViewerFrom returns the viewer resolved by Handler, or an anonymous viewer.
func ViewerFrom(c fiber.Ctx) models.Viewer {
	if v, ok := c.Locals(viewerKey).(models.Viewer); ok {
		return v
	}
	return models.Anonymous()
}

// RequireStaff rejects requests from non-staff viewers.
func RequireStaff() fiber.Handler {
	return func(c fiber.Ctx) error {
		v := ViewerFrom(c)
		if !v.Authenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		if !v.IsStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "staff only"})
		}
		return c.Next()
	}
}
