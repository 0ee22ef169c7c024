package service

import (
	"context"
	"fmt"

	"cloudvault/internal/domain"
)

// StatsRepo описывает агрегирующие запросы по таблице files
type StatsRepo interface {
	GetPersonalStats(ctx context.Context, ownerID string) (*domain.FileStats, error)
}

type StatsService struct {
	statsRepo StatsRepo
}

func NewStatsService(statsRepo StatsRepo) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// GetStats возвращает количество и суммарный размер файлов личного
// рабочего пространства пользователя
func (s *StatsService) GetStats(ctx context.Context, ownerID string) (*domain.FileStats, error) {
	stats, err := s.statsRepo.GetPersonalStats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
