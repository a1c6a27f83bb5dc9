package gateway

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// OrderRequest is the payload for minting a gateway-side order. Amount is in
// minor units (paise).
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]interface{}
}

// Order is the gateway's view of a minted order.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

// Payment is the gateway's view of a captured payment.
type Payment struct {
	ID       string
	OrderID  string
	Amount   int64
	Currency string
	Status   string
}

// Client is the slice of the Razorpay API this service uses.
type Client interface {
	CreateOrder(req *OrderRequest) (*Order, error)
	FetchPayment(paymentID string) (*Payment, error)
}

type razorpayClient struct {
	client *razorpay.Client
}

// NewRazorpayClient builds a Client backed by the official SDK.
func NewRazorpayClient(keyID, keySecret string) Client {
	return &razorpayClient{client: razorpay.NewClient(keyID, keySecret)}
}

func (c *razorpayClient) CreateOrder(req *OrderRequest) (*Order, error) {
	data := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	return &Order{
		ID:       asString(body["id"]),
		Amount:   asInt64(body["amount"]),
		Currency: asString(body["currency"]),
		Status:   asString(body["status"]),
	}, nil
}

func (c *razorpayClient) FetchPayment(paymentID string) (*Payment, error) {
	body, err := c.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}

	return &Payment{
		ID:       asString(body["id"]),
		OrderID:  asString(body["order_id"]),
		Amount:   asInt64(body["amount"]),
		Currency: asString(body["currency"]),
		Status:   asString(body["status"]),
	}, nil
}

// The SDK decodes JSON into map[string]interface{}; numbers arrive as
// float64.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
