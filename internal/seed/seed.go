package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"driphorizon/internal/domain"
)

type userUpserter interface {
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}

// Apply creates the administrator account or resets its password. It is idempotent.
func Apply(ctx context.Context, users userUpserter, adminUsername, adminPassword string) error {
	adminUsername = strings.TrimSpace(adminUsername)
	if adminUsername == "" || adminPassword == "" {
		return errors.New("admin username and password are required")
	}
	if _, err := users.Upsert(ctx, domain.User{Username: adminUsername, Password: adminPassword}); err != nil {
		return fmt.Errorf("upsert admin %s: %w", adminUsername, err)
	}
	return nil
}
