// Package checkout builds split-payment checkout sessions: the buyer pays
// the full price, the platform keeps a fee and the rest is transferred to
// the expert's recipient account.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/provider"
	"mentorpay/internal/services/catalog"
	"mentorpay/internal/utils/validation"

	"github.com/google/uuid"
)

const (
	sessionPlaceholder = "{CHECKOUT_SESSION_ID}"
	guestBuyer         = "guest"

	opResolvePrice  = "resolve price"
	opCreateSession = "create checkout session"
)

type Request struct {
	PriceRef             string
	Quantity             int64
	DestinationAccountID string
	// ApplicationFeePercent falls back to the configured default when nil.
	ApplicationFeePercent *int64
	BuyerEmail            string
	// BuyerUserID is 0 for guests.
	BuyerUserID uint
}

// Intent is the priced, fee-split view of a request. It is never stored.
type Intent struct {
	PriceRef             string
	Quantity             int64
	UnitAmount           int64
	Currency             string
	TotalAmount          int64
	FeePercent           int64
	ApplicationFeeAmount int64
	DestinationAmount    int64
	DestinationAccountID string
}

type Session struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type Config struct {
	AppURL            string
	SuccessPath       string
	CancelPath        string
	DefaultFeePercent int64
}

type Service interface {
	CreateCheckoutSession(ctx context.Context, req Request) (*Session, error)
}

type service struct {
	provider provider.Provider
	cfg      Config
	logger   *slog.Logger
}

func NewService(p provider.Provider, cfg Config, logger *slog.Logger) Service {
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &service{
		provider: p,
		cfg:      cfg,
		logger:   logger.With("component", "checkout"),
	}
}

func (s *service) CreateCheckoutSession(ctx context.Context, req Request) (*Session, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	feePercent := s.cfg.DefaultFeePercent
	if req.ApplicationFeePercent != nil {
		feePercent = *req.ApplicationFeePercent
	}

	v := validation.New()
	v.Required(req.PriceRef, "priceRef")
	v.Required(req.DestinationAccountID, "destinationAccountId")
	v.Check(req.Quantity >= 1, "quantity", "must be at least 1")
	v.Check(feePercent >= 0 && feePercent <= 100, "applicationFeePercent", "must be between 0 and 100")
	v.Email(req.BuyerEmail, "buyerEmail")
	if err := v.Err(); err != nil {
		return nil, err
	}

	// Always priced live: listings may be cached, purchases may not.
	price, err := s.provider.GetPrice(ctx, req.PriceRef)
	if err != nil {
		return nil, mapCheckoutError(err, opResolvePrice)
	}
	if !price.Active {
		return nil, domainerrors.ErrPriceInactive
	}
	if owner := price.ProductMetadata[catalog.OwnerMetadataKey]; owner != "" && owner != req.DestinationAccountID {
		return nil, domainerrors.InvalidArgument("destinationAccountId does not own this product")
	}

	intent, err := buildIntent(req, price, feePercent)
	if err != nil {
		return nil, err
	}

	buyer := guestBuyer
	if req.BuyerUserID != 0 {
		buyer = strconv.FormatUint(uint64(req.BuyerUserID), 10)
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, provider.CheckoutSessionParams{
		PriceRef:             intent.PriceRef,
		Quantity:             intent.Quantity,
		ApplicationFeeAmount: intent.ApplicationFeeAmount,
		DestinationAccountID: intent.DestinationAccountID,
		SuccessURL:           s.redirectURL(s.cfg.SuccessPath),
		CancelURL:            s.redirectURL(s.cfg.CancelPath),
		CustomerEmail:        req.BuyerEmail,
		Metadata: map[string]string{
			"destination_account_id":  intent.DestinationAccountID,
			"application_fee_percent": strconv.FormatInt(intent.FeePercent, 10),
			"buyer":                   buyer,
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, mapCheckoutError(err, opCreateSession)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		"session_id", sess.ID,
		"price_ref", intent.PriceRef,
		"total_amount", intent.TotalAmount,
		"application_fee_amount", intent.ApplicationFeeAmount,
		"currency", intent.Currency,
		"destination_account_id", intent.DestinationAccountID,
		"buyer", buyer)

	return &Session{SessionID: sess.ID, URL: sess.URL}, nil
}

func buildIntent(req Request, price *provider.Price, feePercent int64) (*Intent, error) {
	if price.UnitAmountMinorUnits <= 0 {
		return nil, domainerrors.InvalidArgument("price has no fixed unit amount")
	}
	if req.Quantity > catalog.MaxUnitAmount/price.UnitAmountMinorUnits {
		return nil, domainerrors.InvalidArgument("order total exceeds the maximum charge amount")
	}

	total := price.UnitAmountMinorUnits * req.Quantity
	fee := ApplicationFee(total, feePercent)
	return &Intent{
		PriceRef:             req.PriceRef,
		Quantity:             req.Quantity,
		UnitAmount:           price.UnitAmountMinorUnits,
		Currency:             price.Currency,
		TotalAmount:          total,
		FeePercent:           feePercent,
		ApplicationFeeAmount: fee,
		DestinationAmount:    total - fee,
		DestinationAccountID: req.DestinationAccountID,
	}, nil
}

func (s *service) redirectURL(path string) string {
	return s.cfg.AppURL + path + "?session_id=" + sessionPlaceholder
}

// mapCheckoutError keeps request-shape errors and treats anything the
// buyer cannot fix as a configuration problem.
func mapCheckoutError(err error, op string) error {
	switch domainerrors.KindOf(err) {
	case domainerrors.KindInvalidArgument:
		return err
	case domainerrors.KindNotFound:
		if op == opResolvePrice {
			return domainerrors.WithCause(domainerrors.ErrPriceNotFound, err)
		}
		return err
	case domainerrors.KindConfiguration:
		return fmt.Errorf("%s: %w", op, err)
	default:
		return domainerrors.Configuration("payment provider unavailable or misconfigured", fmt.Errorf("%s: %w", op, err))
	}
}
