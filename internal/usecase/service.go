package usecase

import (
	"time"

	"movie-storefront/internal/data/repository"
	"movie-storefront/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Movie    MovieService
	SeatMap  SeatMapService
	Order    OrderService
	Checkout CheckoutService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	prices := NewPriceProvider(config.Pricing)
	orders := NewOrderService(repo, log)
	settle := DefaultSettlement(time.Duration(config.Checkout.SettlementDelayMs) * time.Millisecond)

	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Movie:    NewMovieService(config, log),
		SeatMap:  NewSeatMapService(repo, prices, config, log),
		Order:    orders,
		Checkout: NewCheckoutService(orders, settle, log),
	}
}
