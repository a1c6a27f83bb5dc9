package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/gateway"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/pkg/redis"
)

type fakeGateway struct {
	createCalls  int
	fetchCalls   int
	order        *gateway.Order
	payment      *gateway.Payment
	createErr    error
	fetchErr     error
	lastOrderReq *gateway.OrderRequest
}

func (f *fakeGateway) CreateOrder(req *gateway.OrderRequest) (*gateway.Order, error) {
	f.createCalls++
	f.lastOrderReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.order != nil {
		return f.order, nil
	}
	return &gateway.Order{
		ID:       "order_gw_1",
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   "created",
	}, nil
}

func (f *fakeGateway) FetchPayment(paymentID string) (*gateway.Payment, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.payment != nil {
		return f.payment, nil
	}
	return nil, errors.New("payment not found")
}

type fakePaymentStore struct {
	created       []*models.Payment
	createErr     error
	byTransaction map[string]*models.Payment
	getErr        error
	completedRows int64
	completeErr   error
	completeCalls int
}

func (f *fakePaymentStore) Create(_ context.Context, p *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakePaymentStore) GetByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byTransaction[transactionID], nil
}

func (f *fakePaymentStore) MarkCompleted(_ context.Context, gatewayOrderID, gatewayPaymentID string) (int64, error) {
	f.completeCalls++
	if f.completeErr != nil {
		return 0, f.completeErr
	}
	return f.completedRows, nil
}

type fakeOrderStore struct {
	orders        map[string]*models.Order
	confirmedRows int64
	confirmErr    error
	confirmCalls  int
}

func (f *fakeOrderStore) GetByID(_ context.Context, id string) (*models.Order, error) {
	return f.orders[id], nil
}

func (f *fakeOrderStore) MarkConfirmed(_ context.Context, id string) (int64, error) {
	f.confirmCalls++
	if f.confirmErr != nil {
		return 0, f.confirmErr
	}
	return f.confirmedRows, nil
}

type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.ErrNotFound
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validCreateRequest() *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		Amount:  100,
		OrderID: "ord1",
		UserID:  "u1",
		CustomerInfo: &models.CustomerInfo{
			Name:  "A",
			Email: "a@x.com",
		},
	}
}
