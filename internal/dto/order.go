package dto

import "cafe/internal/domain"

type LineItemRequest struct {
	ItemName string
	Comment  string
}

type PlaceOrderRequest struct {
	Items []LineItemRequest
}

type PlaceOrderResult struct {
	Order domain.Order
	Lines []domain.ItemStatusLine
}

// UpdateStatusRequest targets a single line when ItemName is set and every
// line of the order when it is empty.
type UpdateStatusRequest struct {
	OrderID  uint
	ItemName string
	Status   string
	Comments string
}

type OrderDetails struct {
	Order domain.Order
	Lines []domain.ItemStatusLine
}
