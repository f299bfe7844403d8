package handlers

import (
	"log/slog"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/services/reconciler"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const signatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	reconciler reconciler.Service
	logger     *slog.Logger
}

func NewWebhookHandler(r reconciler.Service, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: r, logger: logger}
}

// PaymentEvents receives provider webhooks. Only a 2xx stops redelivery, so
// every failure that may succeed later answers 500.
func (h *WebhookHandler) PaymentEvents(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	err := h.reconciler.HandleDelivery(c.UserContext(), payload, c.Get(signatureHeader))
	if err == nil {
		return response.Success(c, fiber.Map{"received": true})
	}

	de, _ := domainerrors.As(err)
	switch domainerrors.KindOf(err) {
	case domainerrors.KindSignatureInvalid, domainerrors.KindInvalidArgument:
		h.logger.WarnContext(c.UserContext(), "webhook rejected", "error", err)
		return response.Error(c, fiber.StatusBadRequest, de.Code, de.Message)
	default:
		h.logger.ErrorContext(c.UserContext(), "webhook processing failed", "error", err)
		code := string(domainerrors.KindInternal)
		if de != nil {
			code = de.Code
		}
		return response.Error(c, fiber.StatusInternalServerError, code, "webhook processing failed")
	}
}
