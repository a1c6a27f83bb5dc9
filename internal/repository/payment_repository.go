package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (
			id, order_id, user_id, amount, currency,
			payment_status, payment_method, transaction_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.Method,
		payment.TransactionID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

// GetByTransactionID looks up a payment by its current gateway identifier.
// Returns (nil, nil) when no row matches.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	query := `
		SELECT id, order_id, user_id, amount, currency,
			   payment_status, payment_method, transaction_id, created_at, updated_at
		FROM payments WHERE transaction_id = $1
	`

	payment := &models.Payment{}
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.Method,
		&payment.TransactionID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return payment, err
}

// MarkCompleted transitions the payment matched by gatewayOrderID to
// completed and re-points transaction_id at the gateway payment id. The
// status guard makes a duplicate callback a no-op; the returned count is the
// number of rows actually updated (0 or 1).
func (r *PaymentRepository) MarkCompleted(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (int64, error) {
	query := `
		UPDATE payments
		SET payment_status = $1, transaction_id = $2, updated_at = $3
		WHERE transaction_id = $4 AND payment_status <> $1
	`

	res, err := r.db.ExecContext(ctx, query,
		models.PaymentStatusCompleted,
		gatewayPaymentID,
		time.Now(),
		gatewayOrderID,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
