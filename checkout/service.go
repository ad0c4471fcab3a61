// Package checkout turns a session cart into a paid PayPal order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brianmwiruki/Thrills/cart"
	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/paypal"
	"github.com/brianmwiruki/Thrills/pricing"
	"go.uber.org/zap"
)

// PaymentGateway creates and captures provider orders.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, order paypal.OrderDetails) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error)
}

type Request struct {
	Form      models.CheckoutForm `json:"form"`
	PromoCode string              `json:"promo_code"`
	Donation  string              `json:"donation"`
}

type Result struct {
	OrderID string          `json:"order_id"`
	Summary pricing.Summary `json:"summary"`
}

type Capture struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type pendingOrder struct {
	sessionID   string
	cartVersion uint64
	total       models.Cents
	createdAt   time.Time
}

// Service tracks the orders it created until they are captured.
type Service struct {
	products ProductFetcher
	payments PaymentGateway
	calc     *pricing.Calculator
	log      *zap.Logger

	mu      sync.Mutex
	pending map[string]pendingOrder
}

func NewService(products ProductFetcher, payments PaymentGateway, calc *pricing.Calculator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		products: products,
		payments: payments,
		calc:     calc,
		log:      log,
		pending:  map[string]pendingOrder{},
	}
}

// Calculator exposes the pricing rules used for orders.
func (s *Service) Calculator() *pricing.Calculator { return s.calc }

// Begin validates and prices the cart of sessionID and creates the PayPal
// order for it.
func (s *Service) Begin(ctx context.Context, sessionID string, store *cart.Store, req Request) (Result, error) {
	snap := store.Snapshot()
	if len(snap.Items) == 0 {
		return Result{}, ErrEmptyCart
	}
	if err := ValidateForm(req.Form); err != nil {
		return Result{}, err
	}
	donation, err := pricing.ParseDonation(req.Donation)
	if err != nil {
		return Result{}, err
	}

	v, err := ValidateCart(ctx, s.products, snap.Items)
	if err != nil {
		return Result{}, err
	}
	if !v.Valid {
		return Result{}, &StaleCartError{ProductID: v.ProductID, Message: v.Message}
	}

	summary := s.calc.Calculate(pricing.Input{
		Items:              snap.Items,
		PromoCode:          req.PromoCode,
		Donation:           donation,
		DestinationCountry: req.Form.Country,
	})
	order := paypal.NewCheckoutOrder(summary, snap.Items, req.Form)
	if err := order.Verify(); err != nil {
		return Result{}, fmt.Errorf("build order: %w", err)
	}

	orderID, err := s.payments.CreateOrder(ctx, order)
	if err != nil {
		s.log.Error("create order failed", zap.String("session_id", sessionID), zap.Error(err))
		return Result{}, &PaymentError{Op: "create", Err: err}
	}

	s.track(orderID, pendingOrder{sessionID: sessionID, cartVersion: snap.Version, total: summary.Total})
	s.log.Info("checkout started",
		zap.String("session_id", sessionID),
		zap.String("order_id", orderID),
		zap.String("total", summary.Total.String()))
	return Result{OrderID: orderID, Summary: summary}, nil
}

// Complete captures a pending order of sessionID. The cart is cleared only
// when PayPal confirms the capture.
func (s *Service) Complete(ctx context.Context, sessionID string, store *cart.Store, orderID string) (Capture, error) {
	p, ok := s.lookup(orderID)
	if !ok || sessionID == "" || p.sessionID != sessionID {
		return Capture{}, ErrUnknownOrder
	}

	res, err := s.capture(ctx, orderID)
	if err != nil {
		s.log.Error("capture failed, cart preserved",
			zap.String("session_id", sessionID), zap.String("order_id", orderID), zap.Error(err))
		return Capture{}, err
	}

	s.forget(orderID)
	if v := store.Snapshot().Version; v != p.cartVersion {
		s.log.Warn("cart changed after checkout started",
			zap.String("session_id", sessionID), zap.Uint64("started_at", p.cartVersion), zap.Uint64("now", v))
	}
	store.ClearCart()
	s.log.Info("order completed", zap.String("session_id", sessionID), zap.String("order_id", orderID))
	return Capture{OrderID: orderID, Status: res.Status}, nil
}

// BeginDonation creates a standalone donation order.
func (s *Service) BeginDonation(ctx context.Context, amount models.Cents) (string, error) {
	if err := pricing.ValidateStandaloneDonation(amount); err != nil {
		return "", err
	}
	order := paypal.NewDonationOrder(amount)
	orderID, err := s.payments.CreateOrder(ctx, order)
	if err != nil {
		return "", &PaymentError{Op: "create", Err: err}
	}
	s.track(orderID, pendingOrder{total: amount})
	s.log.Info("received green donation", zap.String("order_id", orderID), zap.String("amount", amount.String()))
	return orderID, nil
}

// CompleteDonation captures a standalone donation order.
func (s *Service) CompleteDonation(ctx context.Context, orderID string) (Capture, error) {
	p, ok := s.lookup(orderID)
	if !ok || p.sessionID != "" {
		return Capture{}, ErrUnknownOrder
	}
	res, err := s.capture(ctx, orderID)
	if err != nil {
		return Capture{}, err
	}
	s.forget(orderID)
	return Capture{OrderID: orderID, Status: res.Status}, nil
}

// ExpirePending drops orders that were never captured.
func (s *Service) ExpirePending(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, p := range s.pending {
		if p.createdAt.Before(cutoff) {
			delete(s.pending, id)
			n++
		}
	}
	return n
}

func (s *Service) capture(ctx context.Context, orderID string) (*paypal.CaptureResult, error) {
	res, err := s.payments.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, &PaymentError{Op: "capture", Err: err}
	}
	if !res.Completed() {
		return nil, &PaymentError{Op: "capture", Err: errors.New("order status " + res.Status)}
	}
	return res, nil
}

func (s *Service) track(orderID string, p pendingOrder) {
	p.createdAt = time.Now()
	s.mu.Lock()
	s.pending[orderID] = p
	s.mu.Unlock()
}

func (s *Service) lookup(orderID string) (pendingOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[orderID]
	return p, ok
}

func (s *Service) forget(orderID string) {
	s.mu.Lock()
	delete(s.pending, orderID)
	s.mu.Unlock()
}
