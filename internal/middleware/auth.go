// Package middleware provides HTTP middleware components for the application.
// It includes authentication and role checks for the fiber web framework.
package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"mentorpay/internal/models"
	"mentorpay/internal/utils"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadFormat     = errors.New("invalid authorization format")
)

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	secret string
	logger *slog.Logger
}

func NewAuthMiddleware(secret string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: secret,
		logger: logger.With("component", "auth"),
	}
}

// Handler rejects requests without a valid bearer token.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	claims, err := m.authenticate(c)
	if err != nil {
		m.logger.Debug("authentication failed", "path", c.Path(), "error", err)
		switch {
		case errors.Is(err, errMissingHeader), errors.Is(err, errBadFormat):
			return response.Unauthorized(c, err.Error())
		default:
			return response.Unauthorized(c, "invalid token")
		}
	}

	c.Locals(utils.ClaimsKey, claims)
	return c.Next()
}

// Optional attaches claims when a valid token is present and lets anonymous
// requests through. A malformed or expired token is still rejected.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	return m.Handler(c)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*models.UserClaims, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, errMissingHeader
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errBadFormat
	}
	return utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), m.secret)
}

// RequireRole allows the request through when the caller holds one of roles.
// Admins pass every role check.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if claims.Role == models.RoleAdmin {
			return c.Next()
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return response.Forbidden(c)
	}
}
