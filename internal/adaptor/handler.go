package adaptor

import (
	"errors"

	"movie-storefront/internal/apperr"
	"movie-storefront/internal/usecase"
	"movie-storefront/pkg/utils"

	"go.uber.org/zap"

	"net/http"
)

type Handler struct {
	Auth     *AuthHandler
	Movie    *MovieHandler
	SeatMap  *SeatMapHandler
	Order    *OrderHandler
	Checkout *CheckoutHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Movie:    NewMovieHandler(service.Movie, log),
		SeatMap:  NewSeatMapHandler(service.SeatMap, service.Order, log),
		Order:    NewOrderHandler(service.Order, log),
		Checkout: NewCheckoutHandler(service.Checkout, service.Order, log),
	}
}

// respondError maps the error taxonomy to HTTP codes. Typed errors carry the
// recovery policy; anything untyped is an internal failure.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *apperr.ValidationError
		mismatchErr   *apperr.CountMismatchError
		notFoundErr   *apperr.NotFoundError
		conflictErr   *apperr.ConflictError
		persistErr    *apperr.PersistenceError
		settlementErr *apperr.SettlementError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, validationErr.Error(), nil)

	case errors.As(err, &mismatchErr):
		log.Warn(operation+" rejected - count mismatch",
			zap.Error(err),
			zap.Int("delta", mismatchErr.Delta()))
		utils.ResponseUnprocessable(w, mismatchErr.Error(), map[string]int{
			"tickets": mismatchErr.Tickets,
			"seats":   mismatchErr.Seats,
			"delta":   mismatchErr.Delta(),
		})

	case errors.As(err, &notFoundErr):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, notFoundErr.Error())

	case errors.As(err, &conflictErr):
		log.Warn(operation+" rejected - conflict", zap.Error(err))
		utils.ResponseConflict(w, conflictErr.Error())

	case errors.As(err, &persistErr):
		log.Error(operation+" failed - persistence", zap.Error(err))
		utils.ResponseInternalError(w, "Storage failure, please retry")

	case errors.As(err, &settlementErr):
		log.Warn(operation+" failed - settlement", zap.Error(err))
		utils.ResponseBadGateway(w, settlementErr.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
