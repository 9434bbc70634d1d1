package user

import (
	"context"

	"driphorizon/internal/domain"
)

// Repository persists and fetches users.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Upsert creates the user or resets its password when the username already exists.
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}
