package repository

import (
	"context"
	"fmt"

	"movie-storefront/internal/data/entity"
	"movie-storefront/pkg/kvstore"

	"go.uber.org/zap"
)

// OrderRepository is the durable order queue. List order is insertion order;
// nothing reorders on read.
type OrderRepository interface {
	List(ctx context.Context) ([]*entity.TicketOrder, error)
	Append(ctx context.Context, order *entity.TicketOrder) error
	Remove(ctx context.Context, orderID string) ([]*entity.TicketOrder, error)
	Clear(ctx context.Context) error

	// Watch signals when another instance rewrites the queue, so a session
	// can refresh its view. Advisory only, no payload.
	Watch() (<-chan struct{}, func())
}

type orderRepository struct {
	store kvstore.Store
	log   *zap.Logger
}

func NewOrderRepository(store kvstore.Store, log *zap.Logger) OrderRepository {
	return &orderRepository{
		store: store,
		log:   log.With(zap.String("repository", "order")),
	}
}

func (r *orderRepository) List(ctx context.Context) ([]*entity.TicketOrder, error) {
	orders, err := loadList[entity.TicketOrder](ctx, r.store, OrdersKey)
	if err != nil {
		r.log.Error("Failed to load order queue", zap.Error(err))
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]*entity.TicketOrder, len(orders))
	for i := range orders {
		out[i] = &orders[i]
	}
	return out, nil
}

func (r *orderRepository) Append(ctx context.Context, order *entity.TicketOrder) error {
	orders, err := loadList[entity.TicketOrder](ctx, r.store, OrdersKey)
	if err != nil {
		r.log.Error("Failed to load order queue before append", zap.Error(err))
		return fmt.Errorf("append order %s: %w", order.ID, err)
	}

	orders = append(orders, *order)

	if err := saveList(ctx, r.store, OrdersKey, orders); err != nil {
		r.log.Error("Failed to persist order queue",
			zap.Error(err),
			zap.String("order_id", order.ID),
		)
		return fmt.Errorf("append order %s: %w", order.ID, err)
	}

	r.log.Info("Order queued",
		zap.String("order_id", order.ID),
		zap.String("movie_title", order.MovieTitle),
		zap.Float64("total", order.Pricing.Total),
	)
	return nil
}

// Remove drops the matching order if present and returns the resulting list.
// Removing an absent id is a no-op, not an error.
func (r *orderRepository) Remove(ctx context.Context, orderID string) ([]*entity.TicketOrder, error) {
	orders, err := loadList[entity.TicketOrder](ctx, r.store, OrdersKey)
	if err != nil {
		r.log.Error("Failed to load order queue before remove", zap.Error(err))
		return nil, fmt.Errorf("remove order %s: %w", orderID, err)
	}

	kept := make([]entity.TicketOrder, 0, len(orders))
	for _, order := range orders {
		if order.ID != orderID {
			kept = append(kept, order)
		}
	}

	if len(kept) != len(orders) {
		if err := saveList(ctx, r.store, OrdersKey, kept); err != nil {
			r.log.Error("Failed to persist order queue after remove",
				zap.Error(err),
				zap.String("order_id", orderID),
			)
			return nil, fmt.Errorf("remove order %s: %w", orderID, err)
		}
		r.log.Info("Order removed", zap.String("order_id", orderID))
	}

	out := make([]*entity.TicketOrder, len(kept))
	for i := range kept {
		out[i] = &kept[i]
	}
	return out, nil
}

func (r *orderRepository) Clear(ctx context.Context) error {
	if err := saveList(ctx, r.store, OrdersKey, []entity.TicketOrder{}); err != nil {
		r.log.Error("Failed to clear order queue", zap.Error(err))
		return fmt.Errorf("clear orders: %w", err)
	}

	r.log.Info("Order queue cleared")
	return nil
}

func (r *orderRepository) Watch() (<-chan struct{}, func()) {
	return r.store.Watch(OrdersKey)
}
