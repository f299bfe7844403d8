package pagination

import (
	"strconv"

	domainerrors "mentorpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// ParseLimit reads the "limit" query parameter. A missing value yields
// defaultLimit; values above maxLimit are capped.
func ParseLimit(c *fiber.Ctx, defaultLimit, maxLimit int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, domainerrors.InvalidArgument("limit must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
