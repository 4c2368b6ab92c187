package domain

import "github.com/shopspring/decimal"

type MenuItem struct {
	Name        string
	Type        string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}
