package handlers

import (
	"log/slog"

	"mentorpay/internal/repositories"
	"mentorpay/internal/utils/pagination"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	events repositories.PaymentEventRepository
	logger *slog.Logger
}

func NewAdminHandler(events repositories.PaymentEventRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{events: events, logger: logger}
}

// ListPaymentEvents shows the newest webhook deliveries, optionally for one account.
func (h *AdminHandler) ListPaymentEvents(c *fiber.Ctx) error {
	limit, err := pagination.ParseLimit(c, 50, 200)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	events, err := h.events.Recent(c.UserContext(), c.Query("accountId"), limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, fiber.Map{"events": events})
}
