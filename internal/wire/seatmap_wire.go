package wire

import (
	"movie-storefront/internal/adaptor"
	"movie-storefront/internal/data/repository"
	"movie-storefront/pkg/middleware"
	"movie-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSeatMap(
	r chi.Router,
	seatMapHandler *adaptor.SeatMapHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Seat-map sessions work for guests; a bearer token only adds order
	// attribution, so every route takes the optional variant.
	r.Route("/api/seatmap", func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, log))

		// POST /api/seatmap - Open a seat-map session for a showtime
		r.Post("/", seatMapHandler.CreateSession)

		// GET /api/seatmap/{id} - Current seat map state
		r.Get("/{id}", seatMapHandler.GetSession)

		// DELETE /api/seatmap/{id} - Discard the session
		r.Delete("/{id}", seatMapHandler.CloseSession)

		// POST /api/seatmap/{id}/select - Toggle a seat selection
		r.Post("/{id}/select", seatMapHandler.SelectSeat)

		// POST /api/seatmap/{id}/paint - Apply the edit brush to a seat
		r.Post("/{id}/paint", seatMapHandler.PaintSeat)

		// PUT /api/seatmap/{id}/mode - Switch between viewer and editor
		r.Put("/{id}/mode", seatMapHandler.SetMode)

		// POST /api/seatmap/{id}/layout - Persist the edited layout
		r.Post("/{id}/layout", seatMapHandler.SaveLayout)

		// POST /api/seatmap/{id}/cancel-edit - Roll back unsaved edits
		r.Post("/{id}/cancel-edit", seatMapHandler.CancelEdit)

		// PUT /api/seatmap/{id}/layout/{layoutId} - Load a stored layout
		r.Put("/{id}/layout/{layoutId}", seatMapHandler.LoadLayout)

		// POST /api/seatmap/{id}/tickets - Adjust a ticket quantity
		r.Post("/{id}/tickets", seatMapHandler.AdjustQuantity)

		// POST /api/seatmap/{id}/checkout - Reconcile and queue the order
		r.Post("/{id}/checkout", seatMapHandler.Checkout)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/layouts - List stored seat layouts
	r.Get("/api/layouts", seatMapHandler.ListLayouts)

	// GET /api/layouts/{id} - One stored layout
	r.Get("/api/layouts/{id}", seatMapHandler.GetLayout)

	// DELETE /api/layouts/{id} - Remove a stored layout
	r.Delete("/api/layouts/{id}", seatMapHandler.DeleteLayout)
}
