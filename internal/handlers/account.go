package handlers

import (
	"log/slog"

	"mentorpay/internal/services/account"
	"mentorpay/internal/services/onboarding"
	"mentorpay/internal/utils"
	"mentorpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	accounts   account.Service
	onboarding onboarding.Service
	logger     *slog.Logger
}

func NewAccountHandler(accounts account.Service, onboarding onboarding.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts:   accounts,
		onboarding: onboarding,
		logger:     logger,
	}
}

type accountRequest struct {
	AccountID string `json:"accountId"`
	ReturnURL string `json:"returnUrl"`
}

// CreateAccount returns the caller's recipient account, creating it on first use.
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	accountID, err := h.accounts.CreateAccount(c.UserContext(), claims.UserID, claims.Email)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, fiber.Map{"accountId": accountID})
}

func (h *AccountHandler) CreateLink(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req accountRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	accountID, err := h.accounts.ResolveOwnedAccount(c.UserContext(), claims.UserID, req.AccountID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	link, err := h.onboarding.CreateOnboardingLink(c.UserContext(), accountID, req.ReturnURL)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, link)
}

func (h *AccountHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	accountID, err := h.accounts.ResolveOwnedAccount(c.UserContext(), claims.UserID, c.Query("accountId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	status, err := h.accounts.FetchStatus(c.UserContext(), accountID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, status)
}

// RefreshStatus fetches the status and stores it on the caller's profile.
func (h *AccountHandler) RefreshStatus(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req accountRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if req.AccountID == "" {
		req.AccountID = c.Query("accountId")
	}

	accountID, err := h.accounts.ResolveOwnedAccount(c.UserContext(), claims.UserID, req.AccountID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	status, err := h.accounts.RefreshStatus(c.UserContext(), accountID, account.ScopeAll)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return response.Success(c, status)
}
