package repository

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/pkg/docstore"
)

const CollectionSolutionContent = "solution_content"

type ContentRepository struct {
	Store docstore.Store
}

func NewContentRepository(store docstore.Store) *ContentRepository {
	return &ContentRepository{Store: store}
}

// Upsert 以 {solutionId}_q{questionNumber} 为键写入，重复提交覆盖旧值
func (r *ContentRepository) Upsert(ctx context.Context, content *model.SolutionContent) error {
	return r.Store.Set(ctx, CollectionSolutionContent, content.ID, content)
}

func (r *ContentRepository) FindByID(ctx context.Context, id string) (*model.SolutionContent, error) {
	var content model.SolutionContent
	if err := r.Store.Get(ctx, CollectionSolutionContent, id, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// FindBySolution 返回某个解答的全部题目，按题号升序
func (r *ContentRepository) FindBySolution(ctx context.Context, solutionID string) ([]model.SolutionContent, error) {
	var contents []model.SolutionContent
	err := r.Store.Query(ctx, CollectionSolutionContent,
		[]docstore.Filter{docstore.Eq("solutionId", solutionID)},
		&docstore.Order{Field: "questionNumber"},
		&contents,
	)
	if err != nil {
		return nil, err
	}
	return contents, nil
}
