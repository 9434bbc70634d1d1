package order

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"driphorizon/internal/domain"
	"driphorizon/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_InsertAndList(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertUser(ctx, t, pool, "ann")

	repo := NewPostgres(pool, nil)
	first, err := repo.Insert(ctx, sampleOrder(userID))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second, err := repo.Insert(ctx, sampleOrder(userID))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected monotonic ids, got %d then %d", first.ID, second.ID)
	}
	if first.Status != domain.StatusProcessing || first.CancellationReason != nil || first.TotalPriceCents != 23997 {
		t.Fatalf("unexpected inserted order %+v", first)
	}

	list, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := repo.GetByID(ctx, second.ID+100); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgres_CancelIsCheckAndSet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertUser(ctx, t, pool, "bob")
	otherID := insertUser(ctx, t, pool, "eve")

	repo := NewPostgres(pool, nil)
	o, err := repo.Insert(ctx, sampleOrder(userID))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if ok, err := repo.CancelIfProcessing(ctx, o.ID, otherID, "not mine"); err != nil || ok {
		t.Fatalf("expected foreign cancel to change nothing, ok=%v err=%v", ok, err)
	}

	var wg sync.WaitGroup
	results := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CancelIfProcessing(ctx, o.ID, userID, "changed my mind")
			if err != nil {
				t.Errorf("cancel: %v", err)
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)
	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning cancel, got %d", wins)
	}

	if err := repo.UpdateStatus(ctx, o.ID, domain.StatusShipped); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusShipped || got.CancellationReason == nil || *got.CancellationReason != "changed my mind" {
		t.Fatalf("expected shipped with preserved reason, got %+v", got)
	}

	active, err := repo.ListExcludingStatus(ctx, domain.StatusCancelled)
	if err != nil {
		t.Fatalf("ListExcludingStatus: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected overridden order in admin list, got %d", len(active))
	}
	if err := repo.UpdateStatus(ctx, o.ID+100, domain.StatusShipped); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func sampleOrder(userID int64) domain.Order {
	return domain.Order{
		UserID:          userID,
		ProductID:       "21",
		ProductName:     "Womens Sneaker 1",
		Quantity:        3,
		TotalPriceCents: 23997,
		ShippingName:    "Ann",
		ShippingAddress: "1 Main St",
		ShippingPhone:   "555-0100",
		PaymentMethod:   "card",
		Status:          domain.StatusProcessing,
	}
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	if err := pool.QueryRow(ctx, `INSERT INTO users (username, password) VALUES ($1, 'pw') RETURNING id`, name).Scan(&id); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE orders, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
