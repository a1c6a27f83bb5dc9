package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records one attempt to collect funds for an Order. TransactionID
// holds the gateway order id from mint time until verification succeeds, at
// which point it is re-pointed to the gateway payment id.
type Payment struct {
	ID            string        `json:"id" db:"id"`
	OrderID       string        `json:"order_id" db:"order_id"`
	UserID        string        `json:"user_id" db:"user_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Currency      string        `json:"currency" db:"currency"`
	Status        PaymentStatus `json:"payment_status" db:"payment_status"`
	Method        string        `json:"payment_method" db:"payment_method"`
	TransactionID string        `json:"transaction_id" db:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// CustomerInfo is forwarded to the gateway for prefill and receipts only,
// never persisted here.
type CustomerInfo struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Contact string `json:"contact"`
}

// CreateOrderRequest is the order-creation endpoint's JSON body.
type CreateOrderRequest struct {
	Amount         float64       `json:"amount" binding:"required,gt=0"`
	Currency       string        `json:"currency"`
	OrderID        string        `json:"orderId" binding:"required"`
	UserID         string        `json:"userId" binding:"required"`
	CustomerInfo   *CustomerInfo `json:"customerInfo" binding:"required"`
	IdempotencyKey string        `json:"idempotency_key"`
}

// CreateOrderResponse hands the client everything the hosted checkout
// widget needs. Amount is in minor units (paise). PaymentID is empty when
// the pending row failed to persist.
type CreateOrderResponse struct {
	RazorpayOrderID string        `json:"razorpayOrderId"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	Key             string        `json:"key"`
	CustomerInfo    *CustomerInfo `json:"customerInfo"`
	PaymentID       string        `json:"paymentId,omitempty"`
}

// VerifyPaymentRequest is the completion payload the hosted widget returns.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           string `json:"orderId" binding:"required"`
}

// VerifyPaymentResponse distinguishes "authenticated" from "authenticated and
// fully persisted" so callers can retry the write or alert instead of
// treating partial failure as success.
type VerifyPaymentResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	PaymentID        string `json:"paymentId"`
	PaymentPersisted bool   `json:"paymentPersisted"`
	OrderPersisted   bool   `json:"orderPersisted"`
}

// Database schema
const PaymentSchema = `
CREATE TABLE IF NOT EXISTS payments (
    id VARCHAR(36) PRIMARY KEY,
    order_id VARCHAR(64) NOT NULL,
    user_id VARCHAR(64) NOT NULL,
    amount DECIMAL(12, 2) NOT NULL,
    currency VARCHAR(3) NOT NULL DEFAULT 'INR',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_method VARCHAR(20) NOT NULL,
    transaction_id VARCHAR(64) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
CREATE INDEX IF NOT EXISTS idx_payments_transaction_id ON payments(transaction_id);
`
