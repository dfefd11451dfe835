package repository

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/pkg/docstore"
)

const CollectionUserProgress = "user_progress"

type ProgressRepository struct {
	Store docstore.Store
}

func NewProgressRepository(store docstore.Store) *ProgressRepository {
	return &ProgressRepository{Store: store}
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	if err := r.Store.Get(ctx, CollectionUserProgress, userID, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.UserProgress) error {
	return r.Store.Set(ctx, CollectionUserProgress, progress.UserID, progress)
}
