package utils

import (
	"errors"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber.Ctx local holding the caller's *models.UserClaims.
const ClaimsKey = "claims"

// GetUserClaims extracts the user claims from the Fiber context.
// Missing or mistyped claims are reported as ErrUnauthorized.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals(ClaimsKey)
	if v == nil {
		return nil, domainerrors.WithCause(domainerrors.ErrUnauthorized, errors.New("claims not found in context"))
	}

	claims, ok := v.(*models.UserClaims)
	if !ok || claims == nil {
		return nil, domainerrors.WithCause(domainerrors.ErrUnauthorized, errors.New("invalid claims type"))
	}
	return claims, nil
}
