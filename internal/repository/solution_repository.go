package repository

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/pkg/docstore"
	"time"
)

const (
	CollectionSolutions = "solutions"
)

type SolutionRepository struct {
	Store docstore.Store
}

func NewSolutionRepository(store docstore.Store) *SolutionRepository {
	return &SolutionRepository{Store: store}
}

func (r *SolutionRepository) Create(ctx context.Context, solution *model.Solution) error {
	return r.Store.Set(ctx, CollectionSolutions, solution.ID, solution)
}

func (r *SolutionRepository) FindByID(ctx context.Context, id string) (*model.Solution, error) {
	var solution model.Solution
	if err := r.Store.Get(ctx, CollectionSolutions, id, &solution); err != nil {
		return nil, err
	}
	return &solution, nil
}

// Query 等值过滤 + 单字段排序，由底层存储执行
func (r *SolutionRepository) Query(ctx context.Context, filters []docstore.Filter, orderBy *docstore.Order) ([]model.Solution, error) {
	var solutions []model.Solution
	if err := r.Store.Query(ctx, CollectionSolutions, filters, orderBy, &solutions); err != nil {
		return nil, err
	}
	return solutions, nil
}

func (r *SolutionRepository) FindAll(ctx context.Context) ([]model.Solution, error) {
	return r.Query(ctx, nil, nil)
}

// IncrementViewCount 原子自增浏览数并刷新 lastUpdated
func (r *SolutionRepository) IncrementViewCount(ctx context.Context, id string) error {
	if err := r.Store.Increment(ctx, CollectionSolutions, id, "viewCount", 1); err != nil {
		return err
	}
	return r.Store.Update(ctx, CollectionSolutions, id, map[string]interface{}{
		"lastUpdated": time.Now(),
	})
}
