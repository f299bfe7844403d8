package handlers

import (
	"log/slog"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/services/account"
	"mentorpay/internal/services/catalog"
	"mentorpay/internal/utils"
	"mentorpay/internal/utils/pagination"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalog  catalog.Service
	accounts account.Service
	logger   *slog.Logger
}

func NewProductHandler(catalog catalog.Service, accounts account.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		accounts: accounts,
		logger:   logger,
	}
}

// createProductRequest accepts the price either as a decimal amount in the
// currency's major unit or directly in minor units.
type createProductRequest struct {
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	Price                decimal.NullDecimal `json:"price"`
	UnitAmountMinorUnits int64               `json:"unitAmountMinorUnits"`
	Currency             string              `json:"currency"`
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req createProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	amount := req.UnitAmountMinorUnits
	if req.Price.Valid {
		if amount != 0 {
			return respondError(c, h.logger, domainerrors.InvalidArgument("send either price or unitAmountMinorUnits, not both"))
		}
		if amount, err = catalog.ToMinorUnits(req.Price.Decimal, req.Currency); err != nil {
			return respondError(c, h.logger, err)
		}
	}

	// Products always pay out to the caller's own account.
	accountID, err := h.accounts.ResolveAccountID(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), catalog.NewProduct{
		Name:                 req.Name,
		Description:          req.Description,
		UnitAmountMinorUnits: amount,
		Currency:             req.Currency,
		OwnerAccountID:       accountID,
		CreatedByUserID:      claims.UserID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Created(c, product)
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	limit, err := pagination.ParseLimit(c, catalog.DefaultListLimit, catalog.MaxListLimit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	list, err := h.catalog.ListProducts(c.UserContext(), catalog.ListFilter{
		OwnerAccountID: c.Query("accountId"),
		Limit:          limit,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, list)
}
