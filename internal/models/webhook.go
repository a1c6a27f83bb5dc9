package models

// Webhook event names this service reacts to.
const WebhookEventPaymentCaptured = "payment.captured"

// WebhookEvent is the subset of Razorpay's webhook envelope the service
// reads.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookPaymentEntity mirrors the gateway payment entity inside a webhook.
type WebhookPaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}
