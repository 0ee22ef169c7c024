package repository

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"cloudvault/internal/domain"
)

type FileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create вставляет запись о файле. Идентификатор и время создания
// генерируются базой данных.
func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	query := `
        INSERT INTO files (owner_id, organization_id, file_name, file_url, file_size, is_public)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		file.OwnerID,
		file.OrganizationID,
		file.FileName,
		file.FileURL,
		file.FileSize,
		file.IsPublic,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert file record: %w", err)
	}

	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	query := `SELECT * FROM files WHERE id = $1`

	err := r.db.GetContext(ctx, &file, query, id)
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// ListPersonal возвращает файлы личного рабочего пространства пользователя.
// Файлы, принадлежащие организациям, не попадают в личный список.
func (r *FileRepository) ListPersonal(ctx context.Context, ownerID string) ([]domain.File, error) {
	var files []domain.File
	query := `
        SELECT * FROM files
        WHERE owner_id = $1 AND organization_id IS NULL
        ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &files, query, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ListOrganization возвращает файлы рабочего пространства организации
func (r *FileRepository) ListOrganization(ctx context.Context, organizationID string) ([]domain.File, error) {
	var files []domain.File
	query := `
        SELECT * FROM files
        WHERE organization_id = $1
        ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &files, query, organizationID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Rename меняет отображаемое имя файла. Остальные поля неизменяемы.
func (r *FileRepository) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	query := `UPDATE files SET file_name = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, newName, id)
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// SetVisibility устанавливает флаг публичности файла
func (r *FileRepository) SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool) error {
	query := `UPDATE files SET is_public = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, isPublic, id)
	if err != nil {
		return fmt.Errorf("failed to update file visibility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM files WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
