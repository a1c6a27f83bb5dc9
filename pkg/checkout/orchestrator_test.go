package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
)

type fakeLoader struct {
	err   error
	calls int
}

func (f *fakeLoader) Load(context.Context) error {
	f.calls++
	return f.err
}

// fakeWidget resolves immediately with the configured outcome.
type fakeWidget struct {
	completion *Completion
	dismiss    bool
	hang       bool
	lastOpts   *WidgetOptions
}

func (f *fakeWidget) Open(opts *WidgetOptions, onComplete func(Completion), onDismiss func()) {
	f.lastOpts = opts
	if f.hang {
		return
	}
	if f.dismiss {
		onDismiss()
		return
	}
	if f.completion != nil {
		onComplete(*f.completion)
	}
}

type fakeAPI struct {
	createCalls int
	verifyCalls int
	createErr   error
	verifyErr   error
	verifyResp  *models.VerifyPaymentResponse
}

func (f *fakeAPI) CreateOrder(_ context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.CreateOrderResponse{
		RazorpayOrderID: "order_gw_1",
		Amount:          10000,
		Currency:        "INR",
		Key:             "rzp_test_key",
		CustomerInfo:    req.CustomerInfo,
		PaymentID:       "pmt-1",
	}, nil
}

func (f *fakeAPI) VerifyPayment(context.Context, *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if f.verifyResp != nil {
		return f.verifyResp, nil
	}
	return &models.VerifyPaymentResponse{Success: true, PaymentID: "pay_gw_1"}, nil
}

func testIdentity() *Identity {
	return &Identity{ID: "u1", DisplayName: "A"}
}

func testOptions(onSuccess func(string), onError func(string)) Options {
	return Options{
		Amount:  100,
		OrderID: "ord1",
		Customer: models.CustomerInfo{
			Name:  "A",
			Email: "a@x.com",
		},
		OnSuccess: onSuccess,
		OnError:   onError,
	}
}

func TestPay_Succeeds(t *testing.T) {
	widget := &fakeWidget{completion: &Completion{
		RazorpayOrderID:   "order_gw_1",
		RazorpayPaymentID: "pay_gw_1",
		RazorpaySignature: "sig",
	}}
	api := &fakeAPI{}
	o := NewOrchestrator(&fakeLoader{}, widget, api, zap.NewNop())

	var gotPaymentID string
	state := o.Pay(context.Background(), testIdentity(), testOptions(func(id string) {
		gotPaymentID = id
	}, nil))

	assert.Equal(t, StateSucceeded, state)
	assert.Equal(t, "pay_gw_1", gotPaymentID)
	assert.Equal(t, 1, api.createCalls)
	assert.Equal(t, 1, api.verifyCalls)

	// The overlay received the minted order's handles, not raw input.
	require.NotNil(t, widget.lastOpts)
	assert.Equal(t, "order_gw_1", widget.lastOpts.OrderID)
	assert.Equal(t, int64(10000), widget.lastOpts.Amount)
	assert.Equal(t, "rzp_test_key", widget.lastOpts.Key)

	assert.Equal(t, StateIdle, o.State(), "orchestrator is reusable after a run")
}

// Script-load failure must fail the flow before any backend call.
func TestPay_ScriptLoadFailure(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(&fakeLoader{err: errors.New("blocked")}, &fakeWidget{}, api, zap.NewNop())

	var reason string
	state := o.Pay(context.Background(), testIdentity(), testOptions(nil, func(r string) { reason = r }))

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, ReasonGatewayUnavailable, reason)
	assert.Zero(t, api.createCalls, "no order creation after a failed script load")
}

func TestPay_Unauthenticated(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(&fakeLoader{}, &fakeWidget{}, api, zap.NewNop())

	var reason string
	state := o.Pay(context.Background(), nil, testOptions(nil, func(r string) { reason = r }))

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, ReasonNotAuthenticated, reason)
	assert.Zero(t, api.createCalls)
}

func TestPay_OrderCreationFails(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("payment gateway request failed")}
	o := NewOrchestrator(&fakeLoader{}, &fakeWidget{}, api, zap.NewNop())

	var reason string
	state := o.Pay(context.Background(), testIdentity(), testOptions(nil, func(r string) { reason = r }))

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, "payment gateway request failed", reason)
	assert.Zero(t, api.verifyCalls)
}

func TestPay_UserDismissesOverlay(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(&fakeLoader{}, &fakeWidget{dismiss: true}, api, zap.NewNop())

	var reason string
	state := o.Pay(context.Background(), testIdentity(), testOptions(nil, func(r string) { reason = r }))

	assert.Equal(t, StateCancelled, state)
	assert.Equal(t, ReasonCancelled, reason)
	assert.Zero(t, api.verifyCalls, "dismissal never reaches verification")
	assert.Equal(t, StateIdle, o.State())
}

func TestPay_VerificationFails(t *testing.T) {
	widget := &fakeWidget{completion: &Completion{RazorpayOrderID: "o", RazorpayPaymentID: "p", RazorpaySignature: "s"}}
	api := &fakeAPI{verifyErr: errors.New("Payment verification failed")}
	o := NewOrchestrator(&fakeLoader{}, widget, api, zap.NewNop())

	var reason string
	state := o.Pay(context.Background(), testIdentity(), testOptions(nil, func(r string) { reason = r }))

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, ReasonVerifyFailed, reason)
}

func TestPay_VerificationNotSuccessful(t *testing.T) {
	widget := &fakeWidget{completion: &Completion{RazorpayOrderID: "o", RazorpayPaymentID: "p", RazorpaySignature: "s"}}
	api := &fakeAPI{verifyResp: &models.VerifyPaymentResponse{Success: false}}
	o := NewOrchestrator(&fakeLoader{}, widget, api, zap.NewNop())

	state := o.Pay(context.Background(), testIdentity(), testOptions(nil, nil))
	assert.Equal(t, StateFailed, state)
}

// A widget that never resolves is bounded by the caller's context.
func TestPay_WidgetTimeout(t *testing.T) {
	api := &fakeAPI{}
	o := NewOrchestrator(&fakeLoader{}, &fakeWidget{hang: true}, api, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var reason string
	state := o.Pay(ctx, testIdentity(), testOptions(nil, func(r string) { reason = r }))

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, ReasonTimedOut, reason)
	assert.Zero(t, api.verifyCalls)
}
