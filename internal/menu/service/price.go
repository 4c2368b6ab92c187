package service

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "cafe/internal/errors"
)

// ParsePrice reads a price typed by a user, such as "3", "2.50" or "$2.50".
func ParsePrice(s string) (decimal.Decimal, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "$")

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperrors.NewValidationError("invalid price", apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be a decimal number",
		})
	}
	if price.IsNegative() {
		return decimal.Decimal{}, apperrors.NewValidationError("invalid price", apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative",
		})
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Decimal{}, apperrors.NewValidationError("invalid price", apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must have at most two decimal places",
		})
	}

	return price, nil
}
