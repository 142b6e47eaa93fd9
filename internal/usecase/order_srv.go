package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-storefront/internal/data/entity"
	"movie-storefront/internal/data/repository"
	"movie-storefront/internal/dto/response"
	"movie-storefront/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService is the order queue: finalized per-movie orders waiting for
// payment. Orders are immutable once created; the queue only appends and
// removes.
type OrderService interface {
	List(ctx context.Context) ([]response.OrderResponse, error)
	ListOrders(ctx context.Context) ([]*entity.TicketOrder, error)
	Create(ctx context.Context, data *entity.CheckoutData, userID *uuid.UUID) (*response.OrderResponse, error)
	Remove(ctx context.Context, orderID string) ([]response.OrderResponse, error)
	Clear(ctx context.Context) error

	// Watch exposes the store's advisory change signal so the UI layer can
	// refresh its view when another instance settles a checkout.
	Watch() (<-chan struct{}, func())
}

type orderService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOrderService(repo *repository.Repository, log *zap.Logger) OrderService {
	return &orderService{
		repo: repo,
		log:  log.With(zap.String("service", "order")),
	}
}

func (s *orderService) List(ctx context.Context) ([]response.OrderResponse, error) {
	orders, err := s.repo.Order.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return response.OrdersToResponse(orders), nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]*entity.TicketOrder, error) {
	return s.repo.Order.List(ctx)
}

// Create turns checkout data into a queued order: id and creation timestamp
// are generated here, never supplied by the caller.
func (s *orderService) Create(ctx context.Context, data *entity.CheckoutData, userID *uuid.UUID) (*response.OrderResponse, error) {
	order := &entity.TicketOrder{
		ID:               utils.GenerateOrderID(),
		MovieID:          data.MovieID,
		MovieTitle:       data.MovieTitle,
		TheaterName:      data.TheaterName,
		Showtime:         data.Showtime,
		UserID:           userID,
		SelectedSeats:    data.SelectedSeats,
		TicketSelections: data.TicketSelections,
		Pricing:          data.Pricing,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Order.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("movie_id", order.MovieID),
		zap.Int("seats", len(order.SelectedSeats)),
		zap.Float64("total", order.Pricing.Total),
	)

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) Remove(ctx context.Context, orderID string) ([]response.OrderResponse, error) {
	remaining, err := s.repo.Order.Remove(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("remove order: %w", err)
	}
	return response.OrdersToResponse(remaining), nil
}

func (s *orderService) Clear(ctx context.Context) error {
	return s.repo.Order.Clear(ctx)
}

func (s *orderService) Watch() (<-chan struct{}, func()) {
	return s.repo.Order.Watch()
}
