package repository

import (
	"context"
	"fmt"
	"strings"

	"movie-storefront/internal/data/entity"
	"movie-storefront/pkg/kvstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*entity.UserProfile, error)
	Create(ctx context.Context, user *entity.UserProfile) error
}

type userRepository struct {
	store kvstore.Store
	log   *zap.Logger
}

func NewUserRepository(store kvstore.Store, log *zap.Logger) UserRepository {
	return &userRepository{
		store: store,
		log:   log.With(zap.String("repository", "user")),
	}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	users, err := loadList[entity.UserProfile](ctx, r.store, ProfilesKey)
	if err != nil {
		r.log.Error("Failed to load profiles", zap.Error(err))
		return nil, fmt.Errorf("find user %s: %w", id.String(), err)
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	users, err := loadList[entity.UserProfile](ctx, r.store, ProfilesKey)
	if err != nil {
		r.log.Error("Failed to load profiles", zap.Error(err))
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.UserProfile) error {
	users, err := loadList[entity.UserProfile](ctx, r.store, ProfilesKey)
	if err != nil {
		r.log.Error("Failed to load profiles before create", zap.Error(err))
		return fmt.Errorf("create user: %w", err)
	}

	users = append(users, *user)

	if err := saveList(ctx, r.store, ProfilesKey, users); err != nil {
		r.log.Error("Failed to persist profiles",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("create user: %w", err)
	}

	r.log.Info("Profile created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)
	return nil
}
