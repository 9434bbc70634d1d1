package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"driphorizon/internal/domain"
	"driphorizon/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	orders map[int64]domain.Order
	err    error
}

func newMemRepo(orders ...domain.Order) *memRepo {
	r := &memRepo{orders: make(map[int64]domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *memRepo) Insert(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = int64(len(r.orders) + 1)
	r.orders[o.ID] = o
	return &o, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *memRepo) CancelIfProcessing(_ context.Context, id, ownerID int64, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != ownerID || o.Status != domain.StatusProcessing {
		return false, nil
	}
	o.Status = domain.StatusCancelled
	o.CancellationReason = &reason
	r.orders[id] = o
	return true, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *memRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r *memRepo) ListExcludingStatus(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.filter(func(o domain.Order) bool { return o.Status != status }), nil
}

func (r *memRepo) filter(keep func(domain.Order) bool) []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var admin = domain.Identity{UserID: 1, Username: "admin", Admin: true}

func processing(id, owner int64) domain.Order {
	return domain.Order{ID: id, UserID: owner, ProductID: "21", Quantity: 1, TotalPriceCents: 7999, Status: domain.StatusProcessing}
}

func TestCancelOrder_Success(t *testing.T) {
	repo := newMemRepo(processing(1, 7))
	pub := &recordingPublisher{}
	svc := New(repo, pub, nil, nil)

	o, err := svc.CancelOrder(context.Background(), 1, 7, "  changed my mind ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.Status)
	require.NotNil(t, o.CancellationReason)
	assert.Equal(t, "changed my mind", *o.CancellationReason)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeOrderCancelled, pub.events[0].Type)
}

func TestCancelOrder_NotOwnedOrMissing(t *testing.T) {
	svc := New(newMemRepo(processing(1, 7)), nil, nil, nil)

	_, err := svc.CancelOrder(context.Background(), 1, 8, "mine now")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.CancelOrder(context.Background(), 99, 7, "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelOrder_RejectsNonProcessing(t *testing.T) {
	shipped := processing(1, 7)
	shipped.Status = domain.StatusShipped
	repo := newMemRepo(shipped)
	svc := New(repo, nil, nil, nil)

	_, err := svc.CancelOrder(context.Background(), 1, 7, "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StatusShipped, stored.Status)
	assert.Nil(t, stored.CancellationReason)
}

func TestCancelOrder_RequiresReason(t *testing.T) {
	repo := newMemRepo(processing(1, 7))
	svc := New(repo, nil, nil, nil)

	_, err := svc.CancelOrder(context.Background(), 1, 7, "   ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"reason"}, verr.Fields)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
}

func TestCancelOrder_ConcurrentSingleWinner(t *testing.T) {
	repo := newMemRepo(processing(1, 7))
	svc := New(repo, nil, nil, nil)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CancelOrder(context.Background(), 1, 7, "dup")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 1, wins)
}

func TestCancelOrder_StorageFailure(t *testing.T) {
	repo := newMemRepo(processing(1, 7))
	repo.err = errors.New("db down")
	svc := New(repo, nil, nil, nil)

	_, err := svc.CancelOrder(context.Background(), 1, 7, "reason")
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestAdminSetStatus(t *testing.T) {
	repo := newMemRepo(processing(1, 7))
	pub := &recordingPublisher{}
	svc := New(repo, pub, nil, nil)
	ctx := context.Background()

	o, err := svc.AdminSetStatus(ctx, admin, 1, "shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, o.Status)

	o, err = svc.AdminSetStatus(ctx, admin, 1, "Out for delivery")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatus("Out for delivery"), o.Status)
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.TypeOrderStatusChanged, pub.events[1].Type)
}

func TestAdminSetStatus_OverridesCancelledAndKeepsReason(t *testing.T) {
	repo := newMemRepo(processing(1, 7))
	svc := New(repo, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.CancelOrder(ctx, 1, 7, "wrong size")
	require.NoError(t, err)

	o, err := svc.AdminSetStatus(ctx, admin, 1, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, o.Status)
	require.NotNil(t, o.CancellationReason)
	assert.Equal(t, "wrong size", *o.CancellationReason)
}

func TestAdminSetStatus_Errors(t *testing.T) {
	svc := New(newMemRepo(processing(1, 7)), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.AdminSetStatus(ctx, domain.Identity{UserID: 7}, 1, "Shipped")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AdminSetStatus(ctx, admin, 0, " ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"order_id", "status"}, verr.Fields)

	_, err = svc.AdminSetStatus(ctx, admin, 42, "Shipped")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListings(t *testing.T) {
	cancelled := processing(2, 7)
	cancelled.Status = domain.StatusCancelled
	repo := newMemRepo(processing(1, 7), cancelled, processing(3, 8))
	svc := New(repo, nil, nil, nil)
	ctx := context.Background()

	mine, err := svc.ListOwnerOrders(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(2), mine[0].ID)

	_, err = svc.ListOwnerOrders(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	active, err := svc.ListActiveOrdersForAdmin(ctx, admin)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, o := range active {
		assert.NotEqual(t, domain.StatusCancelled, o.Status)
	}

	_, err = svc.ListActiveOrdersForAdmin(ctx, domain.Identity{UserID: 7})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
