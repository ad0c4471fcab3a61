package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrUnknownOrder = errors.New("unknown or already completed order")
)

// StaleCartError blocks checkout when a cart line can no longer be bought.
type StaleCartError struct {
	ProductID string
	Message   string
}

func (e *StaleCartError) Error() string { return e.Message }

// PaymentError wraps a failed payment call. The cart is left untouched.
type PaymentError struct {
	Op  string
	Err error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s failed: %v", e.Op, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }
