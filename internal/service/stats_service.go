package service

import (
	"context"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/pkg/logger"

	"go.uber.org/zap"
)

type StatsService struct {
	solutionRepo *repository.SolutionRepository
}

func NewStatsService(solutionRepo *repository.SolutionRepository) *StatsService {
	return &StatsService{solutionRepo: solutionRepo}
}

// ComputeStats 全量扫描解答集合做汇总。统计读永远不向调用方报错：
// 存储故障返回清零的统计和一条说明。
func (s *StatsService) ComputeStats(ctx context.Context) *model.SolutionStats {
	stats := &model.SolutionStats{
		ByBoard:   map[string]int{},
		ByClass:   map[string]int{},
		BySubject: map[string]int{},
	}

	solutions, err := s.solutionRepo.FindAll(ctx)
	if err != nil {
		logger.Log.Warn("stats scan failed, returning zeroed stats", zap.Error(err))
		stats.Message = "statistics are temporarily unavailable"
		return stats
	}

	if len(solutions) == 0 {
		stats.Message = "no solutions found"
		return stats
	}

	for _, sol := range solutions {
		stats.TotalSolutions++
		if sol.IsAvailable {
			stats.AvailableSolutions++
		}

		switch sol.Difficulty {
		case model.DifficultyEasy:
			stats.EasyCount++
		case model.DifficultyMedium:
			stats.MediumCount++
		case model.DifficultyHard:
			stats.HardCount++
		}

		stats.TotalViews += sol.ViewCount
		if sol.ViewCount > stats.MostViewed {
			stats.MostViewed = sol.ViewCount
		}

		stats.ByBoard[orUnknown(sol.Board)]++
		stats.ByClass[orUnknown(sol.Class)]++
		stats.BySubject[orUnknown(sol.Subject)]++
	}

	return stats
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
