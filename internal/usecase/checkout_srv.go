package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movie-storefront/internal/apperr"
	"movie-storefront/internal/data/entity"
	"movie-storefront/internal/dto/response"
	"movie-storefront/pkg/utils"

	"go.uber.org/zap"
)

type CheckoutState string

const (
	StateSelect       CheckoutState = "select"
	StatePayment      CheckoutState = "payment"
	StateConfirmation CheckoutState = "confirmation"
)

// SettlementFunc is the payment-gateway boundary. The default implementation
// only simulates settlement latency; a real gateway call slots in here and
// must report declines and timeouts as errors so the session stays in the
// payment state.
type SettlementFunc func(ctx context.Context, amount float64) error

func DefaultSettlement(delay time.Duration) SettlementFunc {
	return func(ctx context.Context, amount float64) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			return nil
		}
	}
}

// CheckoutService drives batch checkout: a linear select -> payment ->
// confirmation machine over a working copy of the order queue. Deleting and
// toggling only touch the working list; the durable queue is mutated by the
// caller after Finish, so store changes and UI transitions stay decoupled.
type CheckoutService interface {
	Begin(ctx context.Context) (*response.CheckoutSessionResponse, error)
	Get(sessionID string) (*response.CheckoutSessionResponse, error)

	ToggleOrder(sessionID, orderID string) (*response.CheckoutSessionResponse, error)
	ToggleSelectAll(sessionID string) (*response.CheckoutSessionResponse, error)
	DeleteSelected(sessionID string) (*response.CheckoutSessionResponse, error)
	ContinueToPayment(sessionID string) (*response.CheckoutSessionResponse, error)
	Back(sessionID string) (*response.CheckoutSessionResponse, error)
	CompletePayment(ctx context.Context, sessionID string) (*response.CheckoutSessionResponse, error)

	// Finish returns the settled order ids and drops the session. Removing
	// those ids from the order queue is the caller's responsibility.
	Finish(sessionID string) ([]string, error)
}

type checkoutSession struct {
	id       string
	state    CheckoutState
	orders   []*entity.TicketOrder
	selected map[string]bool
	settled  []string
}

type checkoutService struct {
	orders   OrderService
	settle   SettlementFunc
	log      *zap.Logger
	mu       sync.Mutex
	sessions map[string]*checkoutSession
}

func NewCheckoutService(orders OrderService, settle SettlementFunc, log *zap.Logger) CheckoutService {
	return &checkoutService{
		orders:   orders,
		settle:   settle,
		log:      log.With(zap.String("service", "checkout")),
		sessions: make(map[string]*checkoutSession),
	}
}

// Begin snapshots the current order queue with every order pre-selected.
func (s *checkoutService) Begin(ctx context.Context) (*response.CheckoutSessionResponse, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}

	sess := &checkoutSession{
		id:       utils.GenerateUUIDString(),
		state:    StateSelect,
		orders:   orders,
		selected: make(map[string]bool, len(orders)),
	}
	for _, order := range orders {
		sess.selected[order.ID] = true
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("Batch checkout started",
		zap.String("session_id", sess.id),
		zap.Int("orders", len(orders)),
	)

	return s.buildResponse(sess), nil
}

func (s *checkoutService) Get(sessionID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(sess), nil
}

func (s *checkoutService) ToggleOrder(sessionID, orderID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.state != StateSelect {
		return nil, &apperr.ValidationError{Reason: "order selection is only available before payment"}
	}

	found := false
	for _, order := range sess.orders {
		if order.ID == orderID {
			found = true
			break
		}
	}
	if !found {
		return nil, &apperr.NotFoundError{Resource: "order", ID: orderID}
	}

	sess.selected[orderID] = !sess.selected[orderID]

	return s.buildResponse(sess), nil
}

// ToggleSelectAll flips between full coverage and none.
func (s *checkoutService) ToggleSelectAll(sessionID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.state != StateSelect {
		return nil, &apperr.ValidationError{Reason: "order selection is only available before payment"}
	}

	target := !allSelected(sess)
	for _, order := range sess.orders {
		sess.selected[order.ID] = target
	}

	return s.buildResponse(sess), nil
}

// DeleteSelected removes the currently checked orders from the working list
// only and clears the selection. The durable queue is untouched; the user is
// pruning before committing to checkout.
func (s *checkoutService) DeleteSelected(sessionID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.state != StateSelect {
		return nil, &apperr.ValidationError{Reason: "pruning is only available before payment"}
	}

	kept := make([]*entity.TicketOrder, 0, len(sess.orders))
	for _, order := range sess.orders {
		if !sess.selected[order.ID] {
			kept = append(kept, order)
		}
	}
	sess.orders = kept
	sess.selected = make(map[string]bool, len(kept))

	return s.buildResponse(sess), nil
}

// ContinueToPayment advances to payment; with nothing selected it stays put.
func (s *checkoutService) ContinueToPayment(sessionID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.state != StateSelect {
		return nil, &apperr.ValidationError{Reason: "already past order selection"}
	}

	if len(selectedOrders(sess)) == 0 {
		return s.buildResponse(sess), nil
	}

	sess.state = StatePayment
	return s.buildResponse(sess), nil
}

// Back steps from payment to select; confirmation has no backward exit.
func (s *checkoutService) Back(sessionID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.state != StatePayment {
		return nil, &apperr.ValidationError{Reason: "can only step back from payment"}
	}

	sess.state = StateSelect
	return s.buildResponse(sess), nil
}

// CompletePayment settles the checked subset. On settlement failure the
// session stays in payment so the user can retry or cancel.
func (s *checkoutService) CompletePayment(ctx context.Context, sessionID string) (*response.CheckoutSessionResponse, error) {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if sess.state != StatePayment {
		s.mu.Unlock()
		return nil, &apperr.ValidationError{Reason: "payment has not started"}
	}

	orders := selectedOrders(sess)
	amount := sumPricing(orders).Total
	s.mu.Unlock()

	// Settlement runs without the lock; it may take a while.
	if err := s.settle(ctx, amount); err != nil {
		s.log.Warn("Settlement failed",
			zap.Error(err),
			zap.String("session_id", sessionID),
			zap.Float64("amount", amount),
		)
		return nil, fmt.Errorf("complete payment: %w", &apperr.SettlementError{Reason: err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err = s.session(sessionID)
	if err != nil {
		return nil, err
	}
	// Back may have run while the lock was released; a stale settlement
	// must not advance the session past a selection it no longer reflects.
	if sess.state != StatePayment {
		return nil, &apperr.ValidationError{Reason: "checkout left payment during settlement"}
	}

	sess.settled = make([]string, 0, len(orders))
	for _, order := range orders {
		sess.settled = append(sess.settled, order.ID)
	}
	sess.state = StateConfirmation

	s.log.Info("Settlement completed",
		zap.String("session_id", sessionID),
		zap.Int("orders", len(sess.settled)),
		zap.Float64("amount", amount),
	)

	return s.buildResponse(sess), nil
}

func (s *checkoutService) Finish(sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.state != StateConfirmation {
		return nil, &apperr.ValidationError{Reason: "checkout has not been confirmed"}
	}

	settled := sess.settled
	delete(s.sessions, sessionID)

	return settled, nil
}

// ==================== internals ====================

// session must be called with s.mu held.
func (s *checkoutService) session(sessionID string) (*checkoutSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "checkout session", ID: sessionID}
	}
	return sess, nil
}

func allSelected(sess *checkoutSession) bool {
	if len(sess.orders) == 0 {
		return false
	}
	for _, order := range sess.orders {
		if !sess.selected[order.ID] {
			return false
		}
	}
	return true
}

func selectedOrders(sess *checkoutSession) []*entity.TicketOrder {
	var out []*entity.TicketOrder
	for _, order := range sess.orders {
		if sess.selected[order.ID] {
			out = append(out, order)
		}
	}
	return out
}

// sumPricing adds the stored per-order pricing; totals always reflect the
// current working selection, never a cached earlier state.
func sumPricing(orders []*entity.TicketOrder) entity.Pricing {
	var total entity.Pricing
	for _, order := range orders {
		total.Subtotal += order.Pricing.Subtotal
		total.Tax += order.Pricing.Tax
		total.Total += order.Pricing.Total
	}
	return total
}

func (s *checkoutService) buildResponse(sess *checkoutSession) *response.CheckoutSessionResponse {
	selectedIDs := make([]string, 0, len(sess.orders))
	for _, order := range sess.orders {
		if sess.selected[order.ID] {
			selectedIDs = append(selectedIDs, order.ID)
		}
	}

	return &response.CheckoutSessionResponse{
		SessionID:      sess.id,
		State:          string(sess.state),
		Orders:         response.OrdersToResponse(sess.orders),
		SelectedIDs:    selectedIDs,
		AllSelected:    allSelected(sess),
		Pricing:        response.PricingToResponse(sumPricing(selectedOrders(sess))),
		SettledOrderID: sess.settled,
	}
}
