package domain

import (
	"github.com/google/uuid"
	"time"
)

type File struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	OrganizationID *string   `json:"organization_id,omitempty" db:"organization_id"`
	FileName       string    `json:"file_name" db:"file_name"`
	FileURL        string    `json:"file_url" db:"file_url"`
	FileSize       int64     `json:"file_size" db:"file_size"`
	IsPublic       bool      `json:"is_public" db:"is_public"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// FileUpload представляет один файл, принятый на загрузку
type FileUpload struct {
	Name           string
	Size           int64
	OwnerID        string
	OrganizationID *string
	Data           []byte
}

// FileStats представляет агрегаты для личного рабочего пространства
type FileStats struct {
	TotalFiles int64 `json:"total_files" db:"total_files"`
	TotalSize  int64 `json:"total_size" db:"total_size"`
}
