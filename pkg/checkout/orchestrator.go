// Package checkout drives a buyer through the hosted Razorpay checkout:
// load the gateway script, mint an order, hand off to the hosted overlay,
// then verify the completion payload with the backend.
package checkout

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
)

type State string

const (
	StateIdle            State = "idle"
	StateLoadingScript   State = "loadingScript"
	StateCreatingOrder   State = "creatingOrder"
	StateAwaitingGateway State = "awaitingGateway"
	StateVerifying       State = "verifying"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
	StateCancelled       State = "cancelled"
)

// Failure reasons surfaced through the error callback.
const (
	ReasonGatewayUnavailable = "Payment gateway unavailable"
	ReasonNotAuthenticated   = "User not authenticated"
	ReasonVerifyFailed       = "Payment verification failed"
	ReasonCancelled          = "Payment cancelled by user"
	ReasonTimedOut           = "Payment timed out"
)

// Identity is the opaque authenticated user handed to the orchestrator.
type Identity struct {
	ID          string
	DisplayName string
}

// ScriptLoader injects the gateway's checkout script into the host
// environment. Load must be safe to call when the script is already present.
type ScriptLoader interface {
	Load(ctx context.Context) error
}

// Completion is the payload the hosted overlay posts back on success.
type Completion struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// WidgetOptions configures the hosted overlay.
type WidgetOptions struct {
	Key        string
	Amount     int64
	Currency   string
	OrderID    string
	Name       string
	Email      string
	Contact    string
	ThemeColor string
}

// Widget is the opaque hosted checkout overlay. Open must invoke exactly one
// of the two callbacks; the overlay owns its own UI loop until then.
type Widget interface {
	Open(opts *WidgetOptions, onComplete func(Completion), onDismiss func())
}

// API is the backend pair of endpoints the orchestrator calls.
type API interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error)
}

// Options describes one payment attempt.
type Options struct {
	Amount    float64
	Currency  string
	OrderID   string
	Customer  models.CustomerInfo
	OnSuccess func(paymentID string)
	OnError   func(reason string)
}

// Orchestrator runs one payment attempt at a time. It never panics toward
// the caller; every failure path lands in the error callback and the
// orchestrator is reusable afterwards.
type Orchestrator struct {
	loader ScriptLoader
	widget Widget
	api    API
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

func NewOrchestrator(loader ScriptLoader, widget Widget, api API, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		loader: loader,
		widget: widget,
		api:    api,
		logger: logger,
		state:  StateIdle,
	}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Pay runs the full flow and returns the terminal state. The wait on the
// hosted overlay is bounded by ctx: pass a deadline to avoid hanging on a
// widget that never resolves.
func (o *Orchestrator) Pay(ctx context.Context, identity *Identity, opts Options) State {
	o.setState(StateLoadingScript)

	if err := o.loader.Load(ctx); err != nil {
		o.logger.Warn("checkout script load failed", zap.Error(err))
		return o.fail(opts, ReasonGatewayUnavailable)
	}

	if identity == nil || identity.ID == "" {
		return o.fail(opts, ReasonNotAuthenticated)
	}

	o.setState(StateCreatingOrder)

	order, err := o.api.CreateOrder(ctx, &models.CreateOrderRequest{
		Amount:       opts.Amount,
		Currency:     opts.Currency,
		OrderID:      opts.OrderID,
		UserID:       identity.ID,
		CustomerInfo: &opts.Customer,
	})
	if err != nil {
		o.logger.Warn("order creation failed", zap.String("order_id", opts.OrderID), zap.Error(err))
		return o.fail(opts, err.Error())
	}

	o.setState(StateAwaitingGateway)

	completions := make(chan Completion, 1)
	dismissals := make(chan struct{}, 1)
	o.widget.Open(&WidgetOptions{
		Key:        order.Key,
		Amount:     order.Amount,
		Currency:   order.Currency,
		OrderID:    order.RazorpayOrderID,
		Name:       opts.Customer.Name,
		Email:      opts.Customer.Email,
		Contact:    opts.Customer.Contact,
		ThemeColor: "#16a34a",
	}, func(c Completion) {
		completions <- c
	}, func() {
		dismissals <- struct{}{}
	})

	select {
	case completion := <-completions:
		return o.verify(ctx, opts, completion)
	case <-dismissals:
		o.setState(StateCancelled)
		if opts.OnError != nil {
			opts.OnError(ReasonCancelled)
		}
		o.setState(StateIdle)
		return StateCancelled
	case <-ctx.Done():
		return o.fail(opts, ReasonTimedOut)
	}
}

func (o *Orchestrator) verify(ctx context.Context, opts Options, completion Completion) State {
	o.setState(StateVerifying)

	resp, err := o.api.VerifyPayment(ctx, &models.VerifyPaymentRequest{
		RazorpayOrderID:   completion.RazorpayOrderID,
		RazorpayPaymentID: completion.RazorpayPaymentID,
		RazorpaySignature: completion.RazorpaySignature,
		OrderID:           opts.OrderID,
	})
	if err != nil || !resp.Success {
		o.logger.Warn("payment verification failed", zap.String("order_id", opts.OrderID), zap.Error(err))
		return o.fail(opts, ReasonVerifyFailed)
	}

	o.setState(StateSucceeded)
	if opts.OnSuccess != nil {
		opts.OnSuccess(resp.PaymentID)
	}
	o.setState(StateIdle)
	return StateSucceeded
}

// fail reports through the error callback and leaves the orchestrator
// reusable.
func (o *Orchestrator) fail(opts Options, reason string) State {
	o.setState(StateFailed)
	if opts.OnError != nil {
		opts.OnError(reason)
	}
	o.setState(StateIdle)
	return StateFailed
}
