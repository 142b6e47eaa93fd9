package wire

import (
	"movie-storefront/internal/adaptor"
	"movie-storefront/internal/data/repository"
	"movie-storefront/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCheckout(
	r chi.Router,
	checkoutHandler *adaptor.CheckoutHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/checkout", func(r chi.Router) {
		// POST /api/checkout - Snapshot the queue into a checkout session
		r.Post("/", checkoutHandler.Begin)

		// GET /api/checkout/{id} - Current checkout state
		r.Get("/{id}", checkoutHandler.Get)

		// POST /api/checkout/{id}/toggle - Check or uncheck one order
		r.Post("/{id}/toggle", checkoutHandler.ToggleOrder)

		// POST /api/checkout/{id}/toggle-all - Flip the select-all checkbox
		r.Post("/{id}/toggle-all", checkoutHandler.ToggleSelectAll)

		// POST /api/checkout/{id}/delete-selected - Drop checked orders
		r.Post("/{id}/delete-selected", checkoutHandler.DeleteSelected)

		// POST /api/checkout/{id}/continue - Advance to payment
		r.Post("/{id}/continue", checkoutHandler.ContinueToPayment)

		// POST /api/checkout/{id}/back - Return to order selection
		r.Post("/{id}/back", checkoutHandler.Back)

		// POST /api/checkout/{id}/pay - Settle the selected orders
		r.Post("/{id}/pay", checkoutHandler.CompletePayment)

		// POST /api/checkout/{id}/finish - Confirm and prune settled orders
		r.Post("/{id}/finish", checkoutHandler.Finish)
	})
}
