package service

import "errors"

// Sentinel errors for the payment flow. Handlers map these onto HTTP status
// codes; anything else is treated as an internal error.
var (
	ErrInvalidRequest   = errors.New("missing required fields")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrConfiguration    = errors.New("payment gateway is not configured")
	ErrGateway          = errors.New("payment gateway request failed")
	ErrSignatureInvalid = errors.New("payment verification failed")
	ErrAmountMismatch   = errors.New("payment amount does not match order")
)
