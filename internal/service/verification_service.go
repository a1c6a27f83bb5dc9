package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/gateway"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/metrics"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
)

// VerificationService authenticates gateway callbacks and reconciles the
// payment and order records behind them.
type VerificationService struct {
	gw        gateway.Client
	payments  PaymentStore
	orders    OrderStore
	keySecret string
	logger    *zap.Logger
}

func NewVerificationService(gw gateway.Client, payments PaymentStore, orders OrderStore, keySecret string, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		gw:        gw,
		payments:  payments,
		orders:    orders,
		keySecret: keySecret,
		logger:    logger,
	}
}

// VerifyPayment checks the callback signature and, only on a match, marks
// the payment completed and the order confirmed. Persistence failures after
// a valid signature are reported through the Persisted flags rather than the
// HTTP status: the payment is real even when a write is not.
func (s *VerificationService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.OrderID == "" {
		return nil, ErrInvalidRequest
	}
	if s.keySecret == "" {
		return nil, ErrConfiguration
	}

	if !VerifySignature(s.keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.Verifications.WithLabelValues("signature_invalid").Inc()
		s.logger.Warn("payment signature rejected",
			zap.String("order_id", req.OrderID),
			zap.String("gateway_order_id", req.RazorpayOrderID))
		return nil, ErrSignatureInvalid
	}

	if err := s.checkAmount(ctx, req); err != nil {
		metrics.Verifications.WithLabelValues("amount_mismatch").Inc()
		return nil, err
	}

	resp := &models.VerifyPaymentResponse{
		Success:   true,
		Message:   "Payment verified successfully",
		PaymentID: req.RazorpayPaymentID,
	}

	rows, err := s.payments.MarkCompleted(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		s.logger.Error("failed to mark payment completed",
			zap.String("gateway_order_id", req.RazorpayOrderID),
			zap.Error(err))
	}
	resp.PaymentPersisted = err == nil && rows > 0

	rows, err = s.orders.MarkConfirmed(ctx, req.OrderID)
	if err != nil {
		s.logger.Error("failed to mark order confirmed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
	}
	resp.OrderPersisted = err == nil && rows > 0

	if !resp.PaymentPersisted || !resp.OrderPersisted {
		metrics.Verifications.WithLabelValues("partial_persist").Inc()
		s.logger.Warn("payment authenticated but not fully persisted",
			zap.String("order_id", req.OrderID),
			zap.String("gateway_payment_id", req.RazorpayPaymentID),
			zap.Bool("payment_persisted", resp.PaymentPersisted),
			zap.Bool("order_persisted", resp.OrderPersisted))
	} else {
		metrics.Verifications.WithLabelValues("ok").Inc()
		s.logger.Info("payment verified",
			zap.String("order_id", req.OrderID),
			zap.String("gateway_payment_id", req.RazorpayPaymentID))
	}

	return resp, nil
}

// checkAmount compares what the gateway says it captured against the
// pending payment row. Skipped when either side is unavailable: a missing
// row or an unwired gateway client degrades to signature-only verification.
func (s *VerificationService) checkAmount(ctx context.Context, req *models.VerifyPaymentRequest) error {
	if s.gw == nil {
		return nil
	}

	stored, err := s.payments.GetByTransactionID(ctx, req.RazorpayOrderID)
	if err != nil {
		s.logger.Warn("payment lookup failed during amount check", zap.Error(err))
		return nil
	}
	if stored == nil {
		return nil
	}

	captured, err := s.gw.FetchPayment(req.RazorpayPaymentID)
	if err != nil {
		s.logger.Warn("gateway payment fetch failed during amount check",
			zap.String("gateway_payment_id", req.RazorpayPaymentID),
			zap.Error(err))
		return nil
	}

	if captured.Amount != MinorUnits(stored.Amount) {
		s.logger.Error("captured amount does not match pending payment",
			zap.String("order_id", req.OrderID),
			zap.Int64("captured_minor", captured.Amount),
			zap.Int64("expected_minor", MinorUnits(stored.Amount)))
		return ErrAmountMismatch
	}

	return nil
}

// HandleWebhook reconciles a payment.captured webhook event. The signature
// over the raw body has already been checked by the handler; this applies
// the same conditional transitions as VerifyPayment, so a webhook landing
// after the client callback is a no-op.
func (s *VerificationService) HandleWebhook(ctx context.Context, event *models.WebhookEvent) error {
	if event.Event != models.WebhookEventPaymentCaptured {
		s.logger.Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" || entity.ID == "" {
		return ErrInvalidRequest
	}

	rows, err := s.payments.MarkCompleted(ctx, entity.OrderID, entity.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Already reconciled via the client callback, or no pending row.
		return nil
	}

	payment, err := s.payments.GetByTransactionID(ctx, entity.ID)
	if err != nil || payment == nil {
		s.logger.Warn("webhook payment lookup failed after update",
			zap.String("gateway_payment_id", entity.ID), zap.Error(err))
		return nil
	}

	if _, err := s.orders.MarkConfirmed(ctx, payment.OrderID); err != nil {
		s.logger.Error("webhook order confirm failed",
			zap.String("order_id", payment.OrderID), zap.Error(err))
	}

	s.logger.Info("payment reconciled via webhook",
		zap.String("order_id", payment.OrderID),
		zap.String("gateway_payment_id", entity.ID))
	return nil
}
