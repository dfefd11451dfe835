package service

import (
	"context"
	"errors"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/pkg/docstore"
	"time"
)

// XP 规则：浏览一份解答给 5 点，其余交互给 2 点
const (
	XPSolutionViewed = 5
	XPDefaultAction  = 2
)

type ProgressService struct {
	progressRepo *repository.ProgressRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{progressRepo: progressRepo}
}

// RecordActivity 按访问事件累加 XP 和学习时长，并维护连续活跃天数：
// 昨天活跃过则 streak+1，断档则重置为 1，同一天内不重复计。
func (s *ProgressService) RecordActivity(ctx context.Context, userID, action string, timeSpent int) error {
	progress, err := s.progressRepo.FindByUser(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		progress = &model.UserProgress{UserID: userID}
	} else if err != nil {
		return err
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	switch progress.LastActiveDate {
	case today:
		// 当天已计入
	case yesterday:
		progress.StreakDays++
	default:
		progress.StreakDays = 1
	}
	progress.LastActiveDate = today

	if action == model.ActionSolutionViewed {
		progress.XP += XPSolutionViewed
	} else {
		progress.XP += XPDefaultAction
	}
	if timeSpent > 0 {
		progress.TotalTimeSpent += timeSpent
	}
	progress.UpdatedAt = now

	return s.progressRepo.Save(ctx, progress)
}

// GetProgress 没有记录的用户返回零值进度
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*model.UserProgress, error) {
	progress, err := s.progressRepo.FindByUser(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return &model.UserProgress{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}
