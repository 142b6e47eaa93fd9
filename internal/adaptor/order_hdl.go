package adaptor

import (
	"net/http"
	"time"

	"movie-storefront/internal/usecase"
	"movie-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// watchPollTimeout bounds the long poll so proxies do not kill the request.
const watchPollTimeout = 25 * time.Second

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, h.log, err, "list orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// Remove handles DELETE /api/orders/{id}
func (h *OrderHandler) Remove(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "remove order")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// WatchQueue handles GET /api/orders/watch. It long-polls the queue's change
// signal: the response is the fresh order list either when the queue changes
// or when the poll times out, so a client refreshing its view just re-issues
// the request.
func (h *OrderHandler) WatchQueue(w http.ResponseWriter, r *http.Request) {
	changes, cancel := h.service.Watch()
	defer cancel()

	select {
	case <-changes:
	case <-time.After(watchPollTimeout):
	case <-r.Context().Done():
		return
	}

	orders, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, h.log, err, "watch orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// Clear handles DELETE /api/orders
func (h *OrderHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		respondError(w, h.log, err, "clear orders")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
