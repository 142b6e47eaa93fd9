package repository

import (
	"context"
	"fmt"

	"movie-storefront/internal/data/entity"
	"movie-storefront/pkg/kvstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LayoutRepository interface {
	List(ctx context.Context) ([]*entity.SeatLayout, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SeatLayout, error)
	FindLatest(ctx context.Context) (*entity.SeatLayout, error)
	Save(ctx context.Context, layout *entity.SeatLayout) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type layoutRepository struct {
	store kvstore.Store
	log   *zap.Logger
}

func NewLayoutRepository(store kvstore.Store, log *zap.Logger) LayoutRepository {
	return &layoutRepository{
		store: store,
		log:   log.With(zap.String("repository", "layout")),
	}
}

func (r *layoutRepository) List(ctx context.Context) ([]*entity.SeatLayout, error) {
	layouts, err := loadList[entity.SeatLayout](ctx, r.store, LayoutsKey)
	if err != nil {
		r.log.Error("Failed to load layouts", zap.Error(err))
		return nil, fmt.Errorf("list layouts: %w", err)
	}

	out := make([]*entity.SeatLayout, len(layouts))
	for i := range layouts {
		out[i] = &layouts[i]
	}
	return out, nil
}

func (r *layoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SeatLayout, error) {
	layouts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, layout := range layouts {
		if layout.ID == id {
			return layout, nil
		}
	}
	return nil, nil
}

func (r *layoutRepository) FindLatest(ctx context.Context) (*entity.SeatLayout, error) {
	layouts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var latest *entity.SeatLayout
	for _, layout := range layouts {
		if latest == nil || layout.UpdatedAt.After(latest.UpdatedAt) {
			latest = layout
		}
	}
	return latest, nil
}

// Save upserts by id and serializes the full list.
func (r *layoutRepository) Save(ctx context.Context, layout *entity.SeatLayout) error {
	layouts, err := loadList[entity.SeatLayout](ctx, r.store, LayoutsKey)
	if err != nil {
		r.log.Error("Failed to load layouts before save", zap.Error(err))
		return fmt.Errorf("save layout %s: %w", layout.ID.String(), err)
	}

	replaced := false
	for i := range layouts {
		if layouts[i].ID == layout.ID {
			layouts[i] = *layout
			replaced = true
			break
		}
	}
	if !replaced {
		layouts = append(layouts, *layout)
	}

	if err := saveList(ctx, r.store, LayoutsKey, layouts); err != nil {
		r.log.Error("Failed to persist layouts",
			zap.Error(err),
			zap.String("layout_id", layout.ID.String()),
		)
		return fmt.Errorf("save layout %s: %w", layout.ID.String(), err)
	}

	r.log.Info("Layout saved",
		zap.String("layout_id", layout.ID.String()),
		zap.String("name", layout.Name),
		zap.Int("seats", len(layout.Seats)),
	)
	return nil
}

// Delete is idempotent; removing a missing layout is a no-op.
func (r *layoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	layouts, err := loadList[entity.SeatLayout](ctx, r.store, LayoutsKey)
	if err != nil {
		return fmt.Errorf("delete layout %s: %w", id.String(), err)
	}

	kept := layouts[:0]
	for _, layout := range layouts {
		if layout.ID != id {
			kept = append(kept, layout)
		}
	}
	if len(kept) == len(layouts) {
		return nil
	}

	if err := saveList(ctx, r.store, LayoutsKey, kept); err != nil {
		return fmt.Errorf("delete layout %s: %w", id.String(), err)
	}

	r.log.Info("Layout deleted", zap.String("layout_id", id.String()))
	return nil
}
