package repository

import (
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	"cloudvault/internal/domain"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetPersonalStats считает количество и суммарный размер файлов
// личного рабочего пространства пользователя.
func (r *StatsRepository) GetPersonalStats(ctx context.Context, ownerID string) (*domain.FileStats, error) {
	var stats domain.FileStats
	query := `
        SELECT COUNT(*) AS total_files, COALESCE(SUM(file_size), 0) AS total_size
        FROM files
        WHERE owner_id = $1 AND organization_id IS NULL`

	err := r.db.GetContext(ctx, &stats, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats: %w", err)
	}

	return &stats, nil
}
