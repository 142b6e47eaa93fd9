package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-storefront/internal/dto/request"
	"movie-storefront/internal/usecase"
	"movie-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	service usecase.CheckoutService
	orders  usecase.OrderService
	log     *zap.Logger
}

func NewCheckoutHandler(service usecase.CheckoutService, orders usecase.OrderService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		orders:  orders,
		log:     log.With(zap.String("handler", "checkout")),
	}
}

// Begin handles POST /api/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Begin(r.Context())
	if err != nil {
		respondError(w, h.log, err, "begin checkout")
		return
	}

	utils.ResponseCreated(w, "success", session)
}

// Get handles GET /api/checkout/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get checkout session")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// ToggleOrder handles POST /api/checkout/{id}/toggle
func (h *CheckoutHandler) ToggleOrder(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	session, err := h.service.ToggleOrder(chi.URLParam(r, "id"), req.OrderID)
	if err != nil {
		respondError(w, h.log, err, "toggle order")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// ToggleSelectAll handles POST /api/checkout/{id}/toggle-all
func (h *CheckoutHandler) ToggleSelectAll(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.ToggleSelectAll(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "toggle select all")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// DeleteSelected handles POST /api/checkout/{id}/delete-selected
func (h *CheckoutHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.DeleteSelected(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "delete selected orders")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// ContinueToPayment handles POST /api/checkout/{id}/continue
func (h *CheckoutHandler) ContinueToPayment(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.ContinueToPayment(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "continue to payment")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// Back handles POST /api/checkout/{id}/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Back(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "back to selection")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// CompletePayment handles POST /api/checkout/{id}/pay
func (h *CheckoutHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CompletePayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "complete payment")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// Finish handles POST /api/checkout/{id}/finish. Settled orders leave the
// shared queue here so the split between session state and persisted state
// stays in one place.
func (h *CheckoutHandler) Finish(w http.ResponseWriter, r *http.Request) {
	settled, err := h.service.Finish(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "finish checkout")
		return
	}

	for _, orderID := range settled {
		if _, err := h.orders.Remove(r.Context(), orderID); err != nil {
			respondError(w, h.log, err, "remove settled order")
			return
		}
	}

	utils.ResponseSuccess(w, "success", map[string]any{"settled_order_ids": settled})
}
