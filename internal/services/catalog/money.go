package catalog

import (
	"strings"

	domainerrors "mentorpay/internal/errors"

	"github.com/shopspring/decimal"
)

// MaxUnitAmount is the largest unit amount the provider accepts.
const MaxUnitAmount int64 = 99_999_999

var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

var threeDecimalCurrencies = map[string]bool{
	"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
}

// CurrencyExponent is the number of minor-unit digits for currency.
func CurrencyExponent(currency string) int32 {
	c := strings.ToLower(currency)
	switch {
	case zeroDecimalCurrencies[c]:
		return 0
	case threeDecimalCurrencies[c]:
		return 3
	default:
		return 2
	}
}

// ToMinorUnits converts a major-unit amount to an exact count of minor
// units. Amounts finer than the currency's smallest unit are rejected.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	scaled := amount.Shift(CurrencyExponent(currency))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, domainerrors.InvalidArgument("price has more decimal places than " + strings.ToUpper(currency) + " allows")
	}
	if !scaled.IsPositive() {
		return 0, domainerrors.InvalidArgument("price must be greater than zero")
	}
	if scaled.GreaterThan(decimal.NewFromInt(MaxUnitAmount)) {
		return 0, domainerrors.InvalidArgument("price is too large")
	}
	return scaled.IntPart(), nil
}

// FormatMinorUnits renders minor units as a major-unit decimal string.
func FormatMinorUnits(minor int64, currency string) string {
	exp := CurrencyExponent(currency)
	return decimal.New(minor, -exp).StringFixed(exp)
}
