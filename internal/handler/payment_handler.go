package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/service"
)

type PaymentHandler struct {
	checkout      *service.CheckoutService
	verification  *service.VerificationService
	webhookSecret string
	logger        *zap.Logger
}

func NewPaymentHandler(checkout *service.CheckoutService, verification *service.VerificationService, webhookSecret string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkout:      checkout,
		verification:  verification,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateOrder handles POST /api/v1/payments/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: amount, orderId, userId, customerInfo"})
		return
	}

	resp, err := h.checkout.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.renderError(c, err, "Failed to create payment order")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required payment verification fields"})
		return
	}

	resp, err := h.verification.VerifyPayment(c.Request.Context(), &req)
	if err != nil {
		h.renderError(c, err, "Payment verification failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Webhook handles POST /api/v1/webhooks/razorpay. The gateway signs the raw
// body; the signature must be checked before the JSON is even parsed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if h.webhookSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !service.VerifyWebhookSignature(h.webhookSecret, body, signature) {
		h.logger.Warn("webhook signature rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed webhook payload"})
		return
	}

	if err := h.verification.HandleWebhook(c.Request.Context(), &event); err != nil {
		h.logger.Error("webhook handling failed", zap.Error(err))
	}

	// Razorpay retries non-2xx; once authenticated, always acknowledge.
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentHandler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSignatureInvalid),
		errors.Is(err, service.ErrAmountMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConfiguration):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGateway):
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway request failed"})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
