package handlers

import (
	"log/slog"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// respondError writes err as the JSON error envelope with the status of its
// kind. Internal details are logged, not returned.
func respondError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	de, ok := domainerrors.As(err)
	if !ok {
		de = domainerrors.Internal("unhandled error", err)
	}

	status := domainerrors.HTTPStatus(de.Kind)
	message := de.Message
	if de.Kind == domainerrors.KindInternal {
		message = "internal error"
	}
	if status >= fiber.StatusInternalServerError {
		logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "code", de.Code, "error", err)
	}
	return response.Error(c, status, de.Code, message)
}

// parseOptionalBody decodes a JSON body when one was sent.
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return parseBody(c, out)
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domainerrors.InvalidArgument("invalid request body")
	}
	return nil
}
