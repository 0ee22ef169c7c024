package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cloudvault/internal/domain"
	"cloudvault/internal/service/s3"
)

// Определение констант для работы с файлами
const (
	// MaxFileSize — максимальный размер одного файла (50MB)
	MaxFileSize = 50 * 1024 * 1024
)

// Определение пользовательских ошибок
var (
	ErrFileTooLarge  = errors.New("file size exceeds maximum allowed size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidName   = errors.New("invalid file name")
	ErrAccessDenied  = errors.New("access denied")
	ErrPrivateFile   = errors.New("file is private")
	ErrFileNotFound  = errors.New("file not found")
	ErrS3Operation   = errors.New("s3 operation failed")
	ErrDatabaseError = errors.New("database operation failed")
)

// FileRepo описывает операции над таблицей files, нужные сервису
type FileRepo interface {
	Create(ctx context.Context, file *domain.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error)
	ListPersonal(ctx context.Context, ownerID string) ([]domain.File, error)
	ListOrganization(ctx context.Context, organizationID string) ([]domain.File, error)
	Rename(ctx context.Context, id uuid.UUID, newName string) error
	SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileService представляет сервис для работы с файлами
type FileService struct {
	fileRepo     FileRepo
	s3Client     s3.Storage
	shareBaseURL string
}

func NewFileService(fileRepo FileRepo, s3Client s3.Storage, shareBaseURL string) *FileService {
	return &FileService{
		fileRepo:     fileRepo,
		s3Client:     s3Client,
		shareBaseURL: strings.TrimSuffix(shareBaseURL, "/"),
	}
}

// UploadFile загружает файл в хранилище и создает запись метаданных.
// Файл больше MaxFileSize отклоняется до обращения к хранилищу.
func (s *FileService) UploadFile(ctx context.Context, upload *domain.FileUpload) (*domain.File, error) {
	if upload == nil || upload.Name == "" || upload.OwnerID == "" {
		return nil, fmt.Errorf("%w: missing required parameters", ErrInvalidFile)
	}

	if upload.Size > MaxFileSize {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrFileTooLarge, MaxFileSize)
	}

	s3Key := storageKey(upload)

	// Загружаем байты в S3
	if err := s.s3Client.UploadBytes(s3Key, upload.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrS3Operation, err)
	}

	newFile := &domain.File{
		OwnerID:        upload.OwnerID,
		OrganizationID: upload.OrganizationID,
		FileName:       upload.Name,
		FileURL:        s.s3Client.PublicURL(s3Key),
		FileSize:       upload.Size,
		IsPublic:       false,
	}

	// Создаем запись в БД
	if err := s.fileRepo.Create(ctx, newFile); err != nil {
		// При ошибке удаляем объект из S3
		if deleteErr := s.s3Client.DeleteObject(s3Key); deleteErr != nil {
			log.Printf("[FileService] failed to delete object from s3 after db error: %v", deleteErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	return newFile, nil
}

// ListFiles возвращает файлы текущего рабочего пространства, новые первыми.
// Область определяется явно: организация токена либо личное пространство.
func (s *FileService) ListFiles(ctx context.Context, ownerID string, organizationID *string) ([]domain.File, error) {
	var (
		files []domain.File
		err   error
	)

	if organizationID != nil {
		files, err = s.fileRepo.ListOrganization(ctx, *organizationID)
	} else {
		files, err = s.fileRepo.ListPersonal(ctx, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if files == nil {
		files = []domain.File{}
	}

	return files, nil
}

// RenameFile меняет отображаемое имя файла. Новое имя должно быть
// непустым; совпадающее с текущим имя не приводит к записи в БД.
func (s *FileService) RenameFile(ctx context.Context, id uuid.UUID, newName string, ownerID string, organizationID *string) (*domain.File, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}

	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canManage(file, ownerID, organizationID) {
		return nil, ErrAccessDenied
	}

	if newName == file.FileName {
		return file, nil
	}

	if err := s.fileRepo.Rename(ctx, id, newName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	file.FileName = newName
	return file, nil
}

// SetVisibility переключает флаг публичности файла
func (s *FileService) SetVisibility(ctx context.Context, id uuid.UUID, isPublic bool, ownerID string) (*domain.File, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, err
	}

	if file.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	if err := s.fileRepo.SetVisibility(ctx, id, isPublic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	file.IsPublic = isPublic
	return file, nil
}

// DeleteFile удаляет запись метаданных и соответствующий объект в S3.
// Отсутствующий в S3 объект не считается ошибкой.
func (s *FileService) DeleteFile(ctx context.Context, id uuid.UUID, ownerID string) error {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return err
	}

	if file.OwnerID != ownerID {
		return ErrAccessDenied
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFileNotFound
		}
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// Метаданные удалены, чистим байты в хранилище
	s3Key := s.s3Client.ObjectKey(file.FileURL)
	if s3Key == "" {
		log.Printf("[FileService] cannot derive s3 key from url %s, object left in storage", file.FileURL)
		return nil
	}

	if err := s.s3Client.DeleteObject(s3Key); err != nil {
		log.Printf("[FileService] failed to delete object %s from s3: %v", s3Key, err)
	}

	return nil
}

// GetSharedFile возвращает файл для публичного просмотра.
// Политика видимости: файл отдается, если он публичный либо запрошен
// владельцем; иначе возвращается ErrPrivateFile.
func (s *FileService) GetSharedFile(ctx context.Context, id uuid.UUID, requesterID string) (*domain.File, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, err
	}

	if !file.IsPublic && (requesterID == "" || requesterID != file.OwnerID) {
		return nil, ErrPrivateFile
	}

	return file, nil
}

// ShareLink формирует публичную ссылку на файл: <origin>/share/<id>
func (s *FileService) ShareLink(ctx context.Context, id uuid.UUID, ownerID string, organizationID *string) (string, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return "", err
	}

	if !canManage(file, ownerID, organizationID) {
		return "", ErrAccessDenied
	}

	return fmt.Sprintf("%s/share/%s", s.shareBaseURL, file.ID), nil
}

func (s *FileService) getFile(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	return file, nil
}

// canManage проверяет право на операции из списка файлов: владелец
// или участник организации, которой принадлежит файл
func canManage(file *domain.File, ownerID string, organizationID *string) bool {
	if file.OwnerID == ownerID {
		return true
	}
	if file.OrganizationID != nil && organizationID != nil && *file.OrganizationID == *organizationID {
		return true
	}
	return false
}

// storageKey строит ключ объекта: <область>/<unix-millis>.<расширение>
func storageKey(upload *domain.FileUpload) string {
	scope := upload.OwnerID
	if upload.OrganizationID != nil {
		scope = *upload.OrganizationID
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.Name), "."))
	if ext == "" {
		return fmt.Sprintf("%s/%d", scope, time.Now().UnixMilli())
	}

	return fmt.Sprintf("%s/%d.%s", scope, time.Now().UnixMilli(), ext)
}
