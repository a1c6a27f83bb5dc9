package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/gateway"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/metrics"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/pkg/redis"
)

const (
	defaultCurrency = "INR"
	paymentMethod   = "razorpay"

	idempotencyTTL = 24 * time.Hour
)

// PaymentStore is the slice of the payment repository the services need.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	MarkCompleted(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (int64, error)
}

// OrderStore is the slice of the order repository the services need.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	MarkConfirmed(ctx context.Context, id string) (int64, error)
}

// Cache backs the order-creation idempotency window.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CheckoutService mints gateway orders and records the pending payment
// attempt for each of them.
type CheckoutService struct {
	gw       gateway.Client
	payments PaymentStore
	cache    Cache
	keyID    string
	logger   *zap.Logger
}

func NewCheckoutService(gw gateway.Client, payments PaymentStore, cache Cache, keyID string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		gw:       gw,
		payments: payments,
		cache:    cache,
		keyID:    keyID,
		logger:   logger,
	}
}

// MinorUnits converts a major-unit amount to the gateway's minor-unit
// representation (rupees to paise), rounding half up. The conversion is
// one-way; the original amount is always kept alongside it.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder validates the request, mints a gateway order and persists a
// pending payment row. A failed insert is logged but does not fail the call:
// the gateway order already exists and the client still needs its handles.
func (s *CheckoutService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if req.OrderID == "" || req.UserID == "" || req.CustomerInfo == nil {
		return nil, ErrInvalidRequest
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.gw == nil || s.keyID == "" {
		return nil, ErrConfiguration
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	if req.IdempotencyKey != "" {
		if cached := s.cachedResponse(ctx, req.IdempotencyKey); cached != nil {
			return cached, nil
		}
	}

	gwOrder, err := s.gw.CreateOrder(&gateway.OrderRequest{
		Amount:   MinorUnits(req.Amount),
		Currency: currency,
		Receipt:  req.OrderID,
		Notes: map[string]interface{}{
			"order_id":       req.OrderID,
			"user_id":        req.UserID,
			"customer_name":  req.CustomerInfo.Name,
			"customer_email": req.CustomerInfo.Email,
		},
	})
	if err != nil {
		metrics.OrdersCreated.WithLabelValues("gateway_error").Inc()
		s.logger.Error("gateway order create failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	now := time.Now()
	payment := &models.Payment{
		ID:            uuid.New().String(),
		OrderID:       req.OrderID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      currency,
		Status:        models.PaymentStatusPending,
		Method:        paymentMethod,
		TransactionID: gwOrder.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	paymentID := payment.ID
	if err := s.payments.Create(ctx, payment); err != nil {
		// The gateway order is already minted; surface the handles anyway.
		s.logger.Error("failed to persist pending payment",
			zap.String("order_id", req.OrderID),
			zap.String("gateway_order_id", gwOrder.ID),
			zap.Error(err))
		paymentID = ""
	}

	resp := &models.CreateOrderResponse{
		RazorpayOrderID: gwOrder.ID,
		Amount:          gwOrder.Amount,
		Currency:        currency,
		Key:             s.keyID,
		CustomerInfo:    req.CustomerInfo,
		PaymentID:       paymentID,
	}

	if req.IdempotencyKey != "" {
		s.cacheResponse(ctx, req.IdempotencyKey, resp)
	}

	metrics.OrdersCreated.WithLabelValues("ok").Inc()
	s.logger.Info("gateway order created",
		zap.String("order_id", req.OrderID),
		zap.String("gateway_order_id", gwOrder.ID),
		zap.Int64("amount_minor", gwOrder.Amount))

	return resp, nil
}

func (s *CheckoutService) cachedResponse(ctx context.Context, key string) *models.CreateOrderResponse {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, idempotencyKey(key))
	if err != nil {
		if err != redis.ErrNotFound {
			s.logger.Warn("idempotency cache read failed", zap.Error(err))
		}
		return nil
	}

	resp := &models.CreateOrderResponse{}
	if err := json.Unmarshal([]byte(data), resp); err != nil {
		return nil
	}
	return resp
}

func (s *CheckoutService) cacheResponse(ctx context.Context, key string, resp *models.CreateOrderResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, idempotencyKey(key), data, idempotencyTTL); err != nil {
		s.logger.Warn("idempotency cache write failed", zap.Error(err))
	}
}

func idempotencyKey(key string) string {
	return "idempotency:order:" + key
}
