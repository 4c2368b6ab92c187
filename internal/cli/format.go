package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
)

const timeLayout = "2006-01-02 15:04:05"

var printer = message.NewPrinter(language.AmericanEnglish)

// formatPrice renders an amount in en-US currency style, e.g. $1,234.50.
func formatPrice(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func formatMenuItem(item domain.MenuItem) []string {
	return []string{
		"-----RECORD FOUND-----",
		"Name: " + item.Name,
		"Type: " + item.Type,
		"Price: " + formatPrice(item.Price),
		"Description: " + item.Description,
		"imageURL: " + item.ImageURL,
		"-----END OF RECORD-----",
	}
}

func formatOrder(order domain.Order) string {
	paid := "unpaid"
	if order.Paid {
		paid = "paid"
	}
	return fmt.Sprintf("Order %d | %s | %s | total %s | %s",
		order.ID, order.Login, order.ReceivedAt.Format(timeLayout), formatPrice(order.Total), paid)
}

func formatLine(line domain.ItemStatusLine) string {
	s := fmt.Sprintf("\t%s: %s (updated %s)", line.ItemName, line.Status, line.LastUpdated.Format(timeLayout))
	if line.Comments != "" {
		s += " - " + line.Comments
	}
	return s
}

// describeError renders an operation failure for the console according to
// the error taxonomy.
func describeError(err error) []string {
	if ae, ok := apperrors.IsAuthError(err); ok {
		return []string{capitalize(ae.Message) + "!"}
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		lines := []string{"Invalid input: " + ve.Message}
		for _, d := range ve.Details {
			lines = append(lines, fmt.Sprintf("\t%s: %s", d.Field, d.Message))
		}
		return lines
	}
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		return []string{"Not found: " + nf.Message}
	}
	if se, ok := apperrors.IsStoreError(err); ok {
		msg := "Store error: " + se.Message
		if se.Transient {
			msg += " (temporary, please try again)"
		}
		return []string{msg}
	}
	return []string{"Unexpected error: " + err.Error()}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
