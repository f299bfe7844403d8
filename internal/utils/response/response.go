package response

import (
	"github.com/gofiber/fiber/v2"
)

// Body is the error envelope every endpoint returns.
type Body struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Body{Error: message, Code: code})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *fiber.Ctx) error {
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
}
