package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"driphorizon/internal/domain"
	"driphorizon/internal/events"
	"driphorizon/internal/metrics"
	orderrepo "driphorizon/internal/repository/order"
)

// Service applies the owner and administrator transitions of the order lifecycle.
type Service struct {
	repo    orderrepo.Repository
	events  events.Publisher
	metrics *metrics.Metrics
	logger  *log.Logger
}

func New(repo orderrepo.Repository, publisher events.Publisher, m *metrics.Metrics, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, events: publisher, metrics: m, logger: logger}
}

// CancelOrder moves the requester's own Processing order to Cancelled with reason.
// Orders owned by someone else are reported as not found.
func (s *Service) CancelOrder(ctx context.Context, orderID, requesterID int64, reason string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
		}
		return nil, domain.WrapStorage("get order", err)
	}
	if o.UserID != requesterID {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	if !o.Status.Cancellable() {
		s.metrics.Transition("cancel", "rejected")
		return nil, fmt.Errorf("order %d is %s: %w", orderID, o.Status, domain.ErrInvalidTransition)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason")
	}

	changed, err := s.repo.CancelIfProcessing(ctx, orderID, requesterID, reason)
	if err != nil {
		return nil, domain.WrapStorage("cancel order", err)
	}
	if !changed {
		// Another request moved the order between the read and the write.
		s.metrics.Transition("cancel", "rejected")
		return nil, fmt.Errorf("order %d is no longer Processing: %w", orderID, domain.ErrInvalidTransition)
	}
	s.metrics.Transition("cancel", "applied")
	s.logger.Printf("order: cancelled order_id=%d user_id=%d", orderID, requesterID)

	o.Status = domain.StatusCancelled
	o.CancellationReason = &reason
	s.publish(ctx, events.Cancelled(*o, reason))
	return o, nil
}

// AdminSetStatus overwrites the status of any order. The stored cancellation reason is kept.
func (s *Service) AdminSetStatus(ctx context.Context, actor domain.Identity, orderID int64, status string) (*domain.Order, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	next := domain.NormalizeStatus(status)
	var missing []string
	if orderID <= 0 {
		missing = append(missing, "order_id")
	}
	if next == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
		}
		return nil, domain.WrapStorage("update order status", err)
	}
	s.metrics.Transition("admin_status", "applied")
	s.logger.Printf("order: status override order_id=%d status=%s by=%s", orderID, next, actor.Username)
	s.publish(ctx, events.StatusChanged(orderID, next))

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, domain.WrapStorage("get order", err)
	}
	return o, nil
}

// ListOwnerOrders returns every order of userID, newest first, whatever its status.
func (s *Service) ListOwnerOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	if userID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapStorage("list user orders", err)
	}
	return orders, nil
}

// ListActiveOrdersForAdmin returns all orders that are not Cancelled.
func (s *Service) ListActiveOrdersForAdmin(ctx context.Context, actor domain.Identity) ([]domain.Order, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	orders, err := s.repo.ListExcludingStatus(ctx, domain.StatusCancelled)
	if err != nil {
		return nil, domain.WrapStorage("list active orders", err)
	}
	return orders, nil
}

func (s *Service) publish(ctx context.Context, ev events.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.metrics.EventFailed()
		s.logger.Printf("order: publish %s order_id=%d err=%v", ev.Type, ev.OrderID, err)
	}
}
