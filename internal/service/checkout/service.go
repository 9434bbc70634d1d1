// Package checkout turns a visitor's session draft into exactly one durable order.
package checkout

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
	"driphorizon/internal/session"
)

const draftKey = "cart_draft"

type productLookup interface {
	Lookup(id string) (domain.Product, error)
}

type orderInserter interface {
	Insert(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type Service struct {
	catalog  productLookup
	sessions session.Store
	orders   orderInserter
	events   events.Publisher
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// New wires the workflow. publisher, m and logger may be nil.
func New(catalog productLookup, sessions session.Store, orders orderInserter, publisher events.Publisher, m *metrics.Metrics, logger *log.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		catalog:  catalog,
		sessions: sessions,
		orders:   orders,
		events:   publisher,
		metrics:  m,
		logger:   logger,
	}
}

// ShippingInput is the shipping and payment form.
type ShippingInput struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
}

// CartView is the read-only projection of the current draft.
type CartView struct {
	Empty          bool           `json:"empty"`
	ProductID      string         `json:"productId,omitempty"`
	ProductName    string         `json:"productName,omitempty"`
	ImageRef       string         `json:"imageRef,omitempty"`
	UnitPriceCents int64          `json:"unitPriceCents,omitempty"`
	Quantity       int            `json:"quantity,omitempty"`
	SubtotalCents  int64          `json:"subtotalCents,omitempty"`
	Ready          bool           `json:"ready"`
	Shipping       *ShippingInput `json:"shipping,omitempty"`
}

// Receipt acknowledges a finalize. Persisted is false for anonymous checkouts.
type Receipt struct {
	Persisted bool          `json:"persisted"`
	OrderID   int64         `json:"orderId,omitempty"`
	Order     *domain.Order `json:"order,omitempty"`
	Summary   string        `json:"summary"`
}

// SelectProduct starts a new draft for productID, discarding any previous draft and its shipping data.
func (s *Service) SelectProduct(ctx context.Context, sessionID, productID string) (domain.CartDraft, error) {
	p, err := s.catalog.Lookup(productID)
	if err != nil {
		return domain.CartDraft{}, err
	}
	draft := domain.NewCartDraft(p)
	s.sessions.Set(sessionID, draftKey, draft)
	return draft, nil
}

// SetQuantity clamps qty into [1,10] and stores it on the draft being selected.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, qty int) (domain.CartDraft, error) {
	var updated domain.CartDraft
	err := s.sessions.Update(sessionID, draftKey, func(cur any, ok bool) (any, bool, error) {
		draft, isDraft := cur.(domain.CartDraft)
		if !ok || !isDraft || draft.Stage != domain.StageSelecting {
			return nil, false, domain.ErrNoActiveDraft
		}
		draft.Quantity = domain.ClampQuantity(qty)
		updated = draft
		return draft, true, nil
	})
	return updated, err
}

func (s *Service) ViewCart(ctx context.Context, sessionID string) CartView {
	v, ok := s.sessions.Get(sessionID, draftKey)
	draft, isDraft := v.(domain.CartDraft)
	if !ok || !isDraft {
		return CartView{Empty: true}
	}
	view := CartView{
		ProductID:      draft.ProductID,
		ProductName:    draft.ProductName,
		ImageRef:       draft.ImageRef,
		UnitPriceCents: draft.UnitPriceCents,
		Quantity:       draft.Quantity,
		SubtotalCents:  draft.SubtotalCents(),
		Ready:          draft.Ready(),
	}
	if draft.Ready() {
		view.Shipping = &ShippingInput{
			Name:          draft.ShippingName,
			Address:       draft.ShippingAddress,
			Phone:         draft.ShippingPhone,
			PaymentMethod: draft.PaymentMethod,
		}
	}
	return view
}

// SubmitShippingInfo freezes shipping, payment and quantity on the draft and marks it ready to finalize.
func (s *Service) SubmitShippingInfo(ctx context.Context, sessionID string, in ShippingInput) (domain.CartDraft, error) {
	in = ShippingInput{
		Name:          strings.TrimSpace(in.Name),
		Address:       strings.TrimSpace(in.Address),
		Phone:         strings.TrimSpace(in.Phone),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
	}
	var ready domain.CartDraft
	err := s.sessions.Update(sessionID, draftKey, func(cur any, ok bool) (any, bool, error) {
		draft, isDraft := cur.(domain.CartDraft)
		var missing []string
		if !ok || !isDraft || draft.Stage != domain.StageSelecting {
			missing = append(missing, "product")
		}
		missing = append(missing, missingShippingFields(in)...)
		if len(missing) > 0 {
			return nil, false, domain.NewValidationError(missing...)
		}
		draft.ShippingName = in.Name
		draft.ShippingAddress = in.Address
		draft.ShippingPhone = in.Phone
		draft.PaymentMethod = in.PaymentMethod
		draft.Stage = domain.StageReady
		ready = draft
		return draft, true, nil
	})
	return ready, err
}

// FinalizePurchase consumes the ready draft and, for an authenticated owner, inserts one Processing order.
// The draft is gone after this call whatever the outcome.
func (s *Service) FinalizePurchase(ctx context.Context, sessionID string, owner domain.Identity) (*Receipt, error) {
	v, ok := s.sessions.Take(sessionID, draftKey)
	draft, isDraft := v.(domain.CartDraft)
	if !ok || !isDraft || !draft.Ready() {
		s.metrics.Checkout("interrupted")
		return nil, domain.ErrOrderProcessInterrupted
	}

	if !owner.Authenticated() {
		s.metrics.Checkout("guest")
		s.logger.Printf("checkout: guest purchase acknowledged product_id=%s qty=%d", draft.ProductID, draft.Quantity)
		return &Receipt{
			Persisted: false,
			Summary:   "Thank you for your purchase! (Please log in next time to track your orders).",
		}, nil
	}

	if _, err := s.catalog.Lookup(draft.ProductID); err != nil {
		s.metrics.Checkout("product_missing")
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", draft.ProductID, domain.ErrNotFound)
		}
		return nil, err
	}

	created, err := s.orders.Insert(ctx, domain.OrderFromDraft(draft, owner.UserID))
	if err != nil {
		s.metrics.Checkout("storage_error")
		s.logger.Printf("checkout: insert failed user_id=%d product_id=%s err=%v", owner.UserID, draft.ProductID, err)
		return nil, domain.WrapStorage("insert order", err)
	}
	s.metrics.Checkout("persisted")
	s.publish(ctx, events.Placed(*created))

	summary := fmt.Sprintf("Thank you for your purchase of %d x %s (total %s)! Your order #%d has been placed and tracked.",
		created.Quantity, created.ProductName, domain.FormatCents(created.TotalPriceCents), created.ID)
	return &Receipt{
		Persisted: true,
		OrderID:   created.ID,
		Order:     created,
		Summary:   summary,
	}, nil
}

// publish is best-effort: the order is already committed.
func (s *Service) publish(ctx context.Context, ev events.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.metrics.EventFailed()
		s.logger.Printf("checkout: publish %s order_id=%d err=%v", ev.Type, ev.OrderID, err)
	}
}

func missingShippingFields(in ShippingInput) []string {
	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Address == "" {
		missing = append(missing, "address")
	}
	if in.Phone == "" {
		missing = append(missing, "phone")
	}
	if in.PaymentMethod == "" {
		missing = append(missing, "payment_method")
	}
	return missing
}
