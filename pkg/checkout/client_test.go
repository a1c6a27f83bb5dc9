package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
)

func TestAPIClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payments/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"razorpayOrderId":"order_gw_1","amount":10000,"currency":"INR","key":"k"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL)
	resp, err := client.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Amount:  100,
		OrderID: "ord1",
		UserID:  "u1",
		CustomerInfo: &models.CustomerInfo{
			Name:  "A",
			Email: "a@x.com",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_gw_1", resp.RazorpayOrderID)
	assert.Equal(t, int64(10000), resp.Amount)
}

// Error bodies surface as the error message the orchestrator shows the user.
func TestAPIClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"amount must be greater than zero"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL)
	_, err := client.VerifyPayment(context.Background(), &models.VerifyPaymentRequest{
		RazorpayOrderID:   "o",
		RazorpayPaymentID: "p",
		RazorpaySignature: "s",
		OrderID:           "ord1",
	})
	require.Error(t, err)
	assert.Equal(t, "amount must be greater than zero", err.Error())
}
