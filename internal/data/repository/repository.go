package repository

import (
	"context"
	"encoding/json"
	"errors"

	"movie-storefront/internal/apperr"
	"movie-storefront/pkg/kvstore"

	"go.uber.org/zap"
)

// Fixed document keys in the backing store.
const (
	LayoutsKey  = "seat_layouts"
	OrdersKey   = "ticket_orders"
	ProfilesKey = "user_profiles"
	SessionsKey = "auth_sessions"
)

type Repository struct {
	Layout  LayoutRepository
	Order   OrderRepository
	User    UserRepository
	Session SessionRepository
}

func NewRepository(store kvstore.Store, log *zap.Logger) *Repository {
	return &Repository{
		Layout:  NewLayoutRepository(store, log),
		Order:   NewOrderRepository(store, log),
		User:    NewUserRepository(store, log),
		Session: NewSessionRepository(store, log),
	}
}

// loadList reads and decodes the document at key. A missing key is an empty
// list; a document that fails to parse is a PersistenceError, never a raw
// json error.
func loadList[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "read", Key: key, Err: err}
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &apperr.PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return list, nil
}

// saveList serializes the whole list back to key. Every mutation writes
// immediately; this is a single-writer store, batching buys nothing.
func saveList[T any](ctx context.Context, store kvstore.Store, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return &apperr.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := store.Set(ctx, key, data); err != nil {
		return &apperr.PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}
