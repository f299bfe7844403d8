package errors

// Kind sentinels. Match any error of the kind with errors.Is.
var (
	ErrInvalidArgument     = New(KindInvalidArgument, string(KindInvalidArgument), "invalid argument")
	ErrNotFound            = New(KindNotFound, string(KindNotFound), "not found")
	ErrUnauthorized        = New(KindUnauthorized, string(KindUnauthorized), "unauthorized")
	ErrSignatureInvalid    = New(KindSignatureInvalid, string(KindSignatureInvalid), "invalid webhook signature")
	ErrUpstreamUnavailable = New(KindUpstreamUnavailable, string(KindUpstreamUnavailable), "payment provider unavailable")
	ErrConfiguration       = New(KindConfiguration, string(KindConfiguration), "payment provider misconfigured")
)

var (
	ErrAccountNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "recipient account not found",
	}
	ErrProfileNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PROFILE_NOT_FOUND",
		Message: "no profile is linked to this recipient account",
	}
	ErrAccountNotOwned = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "ACCOUNT_NOT_OWNED",
		Message: "recipient account does not belong to the caller",
	}
	ErrPriceNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PRICE_NOT_FOUND",
		Message: "price not found",
	}
	ErrPriceInactive = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "PRICE_INACTIVE",
		Message: "price is no longer available for purchase",
	}
	ErrStoreUnavailable = &DomainError{
		Kind:    KindUpstreamUnavailable,
		Code:    "STORE_UNAVAILABLE",
		Message: "profile store unavailable",
	}
)
