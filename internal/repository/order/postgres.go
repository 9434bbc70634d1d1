package order

import (
	"context"
	"errors"
	"io"
	"log"

	"driphorizon/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, product_id, product_name, quantity, total_price_cents,
       shipping_name, shipping_address, shipping_phone, payment_method, status, cancellation_reason, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Insert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	// Single statement, so the row is either fully committed or absent.
	const q = `
INSERT INTO orders (
    user_id, product_id, product_name, quantity, total_price_cents,
    shipping_name, shipping_address, shipping_phone, payment_method, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns
	created, err := scanOrder(r.pool.QueryRow(ctx, q,
		o.UserID,
		o.ProductID,
		o.ProductName,
		o.Quantity,
		o.TotalPriceCents,
		o.ShippingName,
		o.ShippingAddress,
		o.ShippingPhone,
		o.PaymentMethod,
		string(o.Status),
	))
	if err != nil {
		r.logger.Printf("order repo: insert user_id=%d product_id=%s error=%v", o.UserID, o.ProductID, err)
		return nil, err
	}
	r.logger.Printf("order repo: inserted id=%d user_id=%d total_cents=%d", created.ID, created.UserID, created.TotalPriceCents)
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Printf("order repo: get id=%d error=%v", id, err)
	}
	return o, err
}

func (r *postgresRepo) CancelIfProcessing(ctx context.Context, id, ownerID int64, reason string) (bool, error) {
	const q = `
UPDATE orders
SET status = $4, cancellation_reason = $3
WHERE id = $1 AND user_id = $2 AND status = $5
`
	cmd, err := r.pool.Exec(ctx, q, id, ownerID, reason, string(domain.StatusCancelled), string(domain.StatusProcessing))
	if err != nil {
		r.logger.Printf("order repo: cancel id=%d user_id=%d error=%v", id, ownerID, err)
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		r.logger.Printf("order repo: update status id=%d status=%s error=%v", id, status, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY id DESC`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListExcludingStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE status <> $1 ORDER BY id DESC`
	return r.list(ctx, q, string(status))
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.ProductID,
		&o.ProductName,
		&o.Quantity,
		&o.TotalPriceCents,
		&o.ShippingName,
		&o.ShippingAddress,
		&o.ShippingPhone,
		&o.PaymentMethod,
		&status,
		&o.CancellationReason,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
