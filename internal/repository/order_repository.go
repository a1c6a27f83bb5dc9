package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID returns (nil, nil) when the order does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, user_id, status, total_amount, currency, created_at, updated_at
		FROM orders WHERE id = $1
	`

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalAmount,
		&order.Currency,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return order, err
}

// MarkConfirmed moves the order out of pending once its payment has been
// verified. Returns the number of rows updated.
func (r *OrderRepository) MarkConfirmed(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status <> $1
	`

	res, err := r.db.ExecContext(ctx, query, models.OrderStatusConfirmed, time.Now(), id)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
