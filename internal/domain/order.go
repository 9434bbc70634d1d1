package domain

import (
	"strings"
	"time"
)

// OrderStatus is an order fulfillment label. Administrators may use labels beyond the named ones.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

// NormalizeStatus trims an administrator supplied label and maps known labels to their canonical case.
func NormalizeStatus(raw string) OrderStatus {
	s := strings.TrimSpace(raw)
	for _, known := range []OrderStatus{StatusProcessing, StatusCancelled, StatusShipped, StatusDelivered} {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return OrderStatus(s)
}

// Cancellable reports whether the owner may still cancel.
func (s OrderStatus) Cancellable() bool {
	return s == StatusProcessing
}

// Order is the durable record of a finalized purchase.
type Order struct {
	ID                 int64       `json:"id"`
	UserID             int64       `json:"userId"`
	ProductID          string      `json:"productId"`
	ProductName        string      `json:"productName"`
	Quantity           int         `json:"quantity"`
	TotalPriceCents    int64       `json:"totalPriceCents"`
	ShippingName       string      `json:"shippingName"`
	ShippingAddress    string      `json:"shippingAddress"`
	ShippingPhone      string      `json:"shippingPhone"`
	PaymentMethod      string      `json:"paymentMethod"`
	Status             OrderStatus `json:"status"`
	CancellationReason *string     `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
}

// OrderFromDraft freezes a ready draft into an unsaved order owned by userID.
func OrderFromDraft(d CartDraft, userID int64) Order {
	return Order{
		UserID:          userID,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		Quantity:        d.Quantity,
		TotalPriceCents: d.SubtotalCents(),
		ShippingName:    d.ShippingName,
		ShippingAddress: d.ShippingAddress,
		ShippingPhone:   d.ShippingPhone,
		PaymentMethod:   d.PaymentMethod,
		Status:          StatusProcessing,
	}
}
