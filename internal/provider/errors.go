package provider

import (
	"errors"
	"net/http"

	domainerrors "mentorpay/internal/errors"

	"github.com/stripe/stripe-go/v72"
)

// MapError converts a stripe-go or transport error into a DomainError,
// keeping the provider message for invalid requests.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domainerrors.As(err); ok {
		return err
	}

	var se *stripe.Error
	if !errors.As(err, &se) {
		return domainerrors.UpstreamUnavailable("payment provider unreachable", err)
	}

	switch {
	case se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound:
		return &domainerrors.DomainError{
			Kind:    domainerrors.KindNotFound,
			Code:    "PROVIDER_RESOURCE_MISSING",
			Message: providerMessage(se, "resource not found at payment provider"),
			Err:     err,
		}
	case se.HTTPStatusCode == http.StatusUnauthorized || se.HTTPStatusCode == http.StatusForbidden:
		return domainerrors.Configuration("payment provider rejected platform credentials", err)
	case se.HTTPStatusCode == http.StatusTooManyRequests ||
		se.HTTPStatusCode == http.StatusConflict ||
		se.HTTPStatusCode >= http.StatusInternalServerError ||
		se.Type == stripe.ErrorTypeAPI:
		return domainerrors.UpstreamUnavailable("payment provider unavailable", err)
	default:
		return &domainerrors.DomainError{
			Kind:    domainerrors.KindInvalidArgument,
			Code:    "PROVIDER_INVALID_REQUEST",
			Message: providerMessage(se, "payment provider rejected the request"),
			Err:     err,
		}
	}
}

func providerMessage(se *stripe.Error, fallback string) string {
	if se.Msg != "" {
		return se.Msg
	}
	return fallback
}
