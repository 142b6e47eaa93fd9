package wire

import (
	"movie-storefront/internal/adaptor"
	"movie-storefront/internal/data/repository"
	"movie-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// GET /api/orders - List queued orders
	r.Get("/api/orders", orderHandler.List)

	// GET /api/orders/watch - Long-poll for queue changes
	r.Get("/api/orders/watch", orderHandler.WatchQueue)

	// DELETE /api/orders/{id} - Drop one order from the queue
	r.Delete("/api/orders/{id}", orderHandler.Remove)

	// DELETE /api/orders - Empty the queue
	r.Delete("/api/orders", orderHandler.Clear)
}
