package handlers

import (
	"log/slog"

	"mentorpay/internal/services/checkout"
	"mentorpay/internal/utils"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkout checkout.Service
	logger   *slog.Logger
}

func NewCheckoutHandler(checkout checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	PriceRef              string `json:"priceRef"`
	Quantity              int64  `json:"quantity"`
	DestinationAccountID  string `json:"destinationAccountId"`
	ApplicationFeePercent *int64 `json:"applicationFeePercent"`
	BuyerEmail            string `json:"buyerEmail"`
}

// CreateSession works for guests and signed-in buyers alike.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	in := checkout.Request{
		PriceRef:              req.PriceRef,
		Quantity:              req.Quantity,
		DestinationAccountID:  req.DestinationAccountID,
		ApplicationFeePercent: req.ApplicationFeePercent,
		BuyerEmail:            req.BuyerEmail,
	}
	if claims, err := utils.GetUserClaims(c); err == nil {
		in.BuyerUserID = claims.UserID
		if in.BuyerEmail == "" {
			in.BuyerEmail = claims.Email
		}
	}

	session, err := h.checkout.CreateCheckoutSession(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, session)
}
