package order

import (
	"context"

	"driphorizon/internal/domain"
)

// Repository is the only writer of order rows.
type Repository interface {
	// Insert stores o and returns it with the assigned id and creation time.
	Insert(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// CancelIfProcessing sets status Cancelled and the reason only when the order belongs to ownerID and is
	// still Processing. It reports whether a row changed.
	CancelIfProcessing(ctx context.Context, id, ownerID int64, reason string) (bool, error)
	// UpdateStatus overwrites status unconditionally and leaves cancellation_reason as is.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListExcludingStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}
