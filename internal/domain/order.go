package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         uint
	Login      string
	Paid       bool
	ReceivedAt time.Time
	Total      decimal.Decimal
}

func (o Order) OwnedBy(login string) bool {
	return o.Login == login
}

// Item statuses are an open set; these are the values the client writes itself.
const (
	ItemStatusNotStarted = "Not Started"
	ItemStatusInProgress = "In Progress"
	ItemStatusComplete   = "Complete"
	ItemStatusCancelled  = "Cancelled"
)

type ItemStatusLine struct {
	OrderID     uint
	ItemName    string
	LastUpdated time.Time
	Status      string
	Comments    string
}

// SumPrices returns the order total for the given line prices.
func SumPrices(prices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total.Round(2)
}
