package repository

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/pkg/docstore"
)

const CollectionAIHelpLogs = "ai_help_logs"

type AIHelpLogRepository struct {
	Store docstore.Store
}

func NewAIHelpLogRepository(store docstore.Store) *AIHelpLogRepository {
	return &AIHelpLogRepository{Store: store}
}

func (r *AIHelpLogRepository) Append(ctx context.Context, entry *model.AIHelpLog) error {
	_, err := r.Store.Add(ctx, CollectionAIHelpLogs, entry)
	return err
}

// FindByUser 最近的问答记录，时间倒序，最多 limit 条
func (r *AIHelpLogRepository) FindByUser(ctx context.Context, userID string, limit int) ([]model.AIHelpLog, error) {
	var entries []model.AIHelpLog
	err := r.Store.Query(ctx, CollectionAIHelpLogs,
		[]docstore.Filter{docstore.Eq("userId", userID)},
		&docstore.Order{Field: "timestamp", Desc: true},
		&entries,
	)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
