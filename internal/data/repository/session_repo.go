package repository

import (
	"context"
	"fmt"
	"time"

	"movie-storefront/internal/data/entity"
	"movie-storefront/pkg/kvstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindValid(ctx context.Context, token uuid.UUID) (*entity.Session, error)
	Revoke(ctx context.Context, token uuid.UUID) error
}

type sessionRepository struct {
	store kvstore.Store
	log   *zap.Logger
}

func NewSessionRepository(store kvstore.Store, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		store: store,
		log:   log.With(zap.String("repository", "session")),
	}
}

// Create appends the session, dropping ones already expired while it holds
// the document anyway.
func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessions, err := loadList[entity.Session](ctx, r.store, SessionsKey)
	if err != nil {
		r.log.Error("Failed to load sessions before create", zap.Error(err))
		return fmt.Errorf("create session: %w", err)
	}

	now := time.Now()
	kept := make([]entity.Session, 0, len(sessions)+1)
	for _, s := range sessions {
		if now.Before(s.ExpiresAt) {
			kept = append(kept, s)
		}
	}
	kept = append(kept, *session)

	if err := saveList(ctx, r.store, SessionsKey, kept); err != nil {
		r.log.Error("Failed to persist sessions", zap.Error(err))
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindValid(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	sessions, err := loadList[entity.Session](ctx, r.store, SessionsKey)
	if err != nil {
		r.log.Error("Failed to load sessions", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	now := time.Now()
	for i := range sessions {
		if sessions[i].Token == token && sessions[i].Valid(now) {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// Revoke marks the session revoked. Revoking an unknown token is a no-op, so
// logout is idempotent.
func (r *sessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	sessions, err := loadList[entity.Session](ctx, r.store, SessionsKey)
	if err != nil {
		r.log.Error("Failed to load sessions before revoke", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}

	now := time.Now()
	changed := false
	for i := range sessions {
		if sessions[i].Token == token && sessions[i].RevokedAt == nil {
			sessions[i].RevokedAt = &now
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := saveList(ctx, r.store, SessionsKey, sessions); err != nil {
		r.log.Error("Failed to persist sessions after revoke", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
