package repository

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/pkg/docstore"
)

const CollectionAccessEvents = "access_events"

type AccessLogRepository struct {
	Store docstore.Store
}

func NewAccessLogRepository(store docstore.Store) *AccessLogRepository {
	return &AccessLogRepository{Store: store}
}

// Append 追加审计记录，没有更新或删除路径
func (r *AccessLogRepository) Append(ctx context.Context, event *model.AccessEvent) error {
	_, err := r.Store.Add(ctx, CollectionAccessEvents, event)
	return err
}

func (r *AccessLogRepository) FindByUser(ctx context.Context, userID string) ([]model.AccessEvent, error) {
	var events []model.AccessEvent
	err := r.Store.Query(ctx, CollectionAccessEvents,
		[]docstore.Filter{docstore.Eq("userId", userID)},
		&docstore.Order{Field: "timestamp", Desc: true},
		&events,
	)
	if err != nil {
		return nil, err
	}
	return events, nil
}
