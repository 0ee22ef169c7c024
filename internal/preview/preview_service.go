package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/h2non/bimg"
	"github.com/jmoiron/sqlx"

	"cloudvault/internal/domain"
	"cloudvault/internal/format"
	"cloudvault/internal/service/s3"
)

func init() {
	if err := os.MkdirAll(tmpDir, 0777); err != nil {
		log.Printf("Warning: failed to create directory %s: %v", tmpDir, err)
	}
}

const (
	maxImageSize  = 1024            // максимальный размер превью в пикселях
	jpegQuality   = 85              // качество JPEG
	previewPrefix = "previews/"     // префикс для превью в S3
	tmpDir        = "/tmp/previews" // директория для временных файлов

	previewMaxAge = 30 * 24 * time.Hour
)

type Service struct {
	s3Client s3.Storage
	db       *sqlx.DB
}

// NewService создает новый сервис для работы с превью
func NewService(s3Client s3.Storage, db *sqlx.DB) *Service {
	return &Service{
		s3Client: s3Client,
		db:       db,
	}
}

// StartCleanupTask запускает периодическую очистку старых превью
func (s *Service) StartCleanupTask() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			s.cleanupOldPreviews(context.Background())
		}
	}()
}

// cleanupOldPreviews удаляет старые превью из S3 и базы данных
func (s *Service) cleanupOldPreviews(ctx context.Context) {
	log.Printf("[Preview] Starting preview cleanup task")

	var staleKeys []string
	query := `
        DELETE FROM file_previews
        WHERE created_at < NOW() - INTERVAL '30 days'
        RETURNING s3_key`

	err := s.db.SelectContext(ctx, &staleKeys, query)
	if err != nil {
		log.Printf("[Preview] Error cleaning up old previews from database: %v", err)
		return
	}

	s.removeStaleObjects(staleKeys)

	log.Printf("[Preview] Completed preview cleanup task. Removed %d old previews", len(staleKeys))
}

// removeStaleObjects удаляет объекты превью из S3. Ошибка по одному
// ключу не останавливает удаление остальных.
func (s *Service) removeStaleObjects(keys []string) {
	for _, key := range keys {
		if err := s.s3Client.DeleteObject(key); err != nil {
			log.Printf("[Preview] Error deleting preview from S3: %v", err)
		}
	}
}

// GetOrGeneratePreview получает или генерирует превью файла.
// Превью строится только для изображений и видео; категория файла
// определяется по расширению имени.
func (s *Service) GetOrGeneratePreview(ctx context.Context, file *domain.File) ([]byte, error) {
	kind := format.KindForName(file.FileName)
	if kind != format.KindImage && kind != format.KindVideo {
		return nil, fmt.Errorf("no preview for file type %s", kind)
	}

	previewKey := previewPrefix + file.ID.String()

	// Пытаемся получить существующее превью
	cached, err := s.s3Client.GetObject(ctx, previewKey)
	if err == nil {
		defer cached.Close()
		return io.ReadAll(cached)
	}

	log.Printf("[Preview] Превью для %s не найдено, генерируем новое", file.ID)

	sourceKey := s.s3Client.ObjectKey(file.FileURL)
	if sourceKey == "" {
		return nil, fmt.Errorf("cannot derive object key from url %s", file.FileURL)
	}

	source, err := s.s3Client.GetObject(ctx, sourceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get source object: %w", err)
	}
	defer source.Close()

	fileData, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}

	var previewData []byte
	switch kind {
	case format.KindImage:
		previewData, err = s.generateImagePreview(fileData)
	case format.KindVideo:
		previewData, err = s.generateVideoPreview(bytes.NewReader(fileData))
	}
	if err != nil {
		log.Printf("[Preview] Ошибка генерации превью: %v", err)
		return nil, fmt.Errorf("failed to generate preview: %w", err)
	}

	if err := s.savePreview(ctx, file, previewKey, previewData); err != nil {
		log.Printf("[Preview] Предупреждение: не удалось сохранить превью: %v", err)
	}

	return previewData, nil
}

// generateImagePreview генерирует превью для изображений
func (s *Service) generateImagePreview(data []byte) ([]byte, error) {
	return s.optimizeImage(data)
}

// optimizeImage оптимизирует изображение до нужного размера
func (s *Service) optimizeImage(data []byte) ([]byte, error) {
	image := bimg.NewImage(data)

	size, err := image.Size()
	if err != nil {
		return nil, fmt.Errorf("failed to get image size: %w", err)
	}

	width, height := calculateNewDimensions(size.Width, size.Height, maxImageSize)

	processed, err := image.Process(bimg.Options{
		Width:   width,
		Height:  height,
		Quality: jpegQuality,
		Type:    bimg.JPEG,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	return processed, nil
}

// calculateNewDimensions вычисляет новые размеры с сохранением пропорций
func calculateNewDimensions(width, height, maxSize int) (newWidth, newHeight int) {
	if width > height {
		newWidth = maxSize
		newHeight = (height * maxSize) / width
	} else {
		newHeight = maxSize
		newWidth = (width * maxSize) / height
	}
	return
}

// savePreview сохраняет превью в S3 и фиксирует его в file_previews
func (s *Service) savePreview(ctx context.Context, file *domain.File, key string, data []byte) error {
	if err := s.s3Client.UploadBytes(key, data); err != nil {
		return fmt.Errorf("failed to upload preview: %w", err)
	}

	query := `
        INSERT INTO file_previews (file_id, s3_key)
        VALUES ($1, $2)
        ON CONFLICT (file_id) DO UPDATE
        SET s3_key = EXCLUDED.s3_key, created_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, file.ID, key); err != nil {
		return fmt.Errorf("failed to record preview: %w", err)
	}

	return nil
}

func (s *Service) generateVideoPreview(data io.Reader) ([]byte, error) {
	// Создаем временную директорию
	tmpPath := filepath.Join(tmpDir, fmt.Sprintf("preview_%d", time.Now().UnixNano()))
	if err := os.MkdirAll(tmpPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpPath)

	// Сохраняем видео во временный файл
	videoPath := filepath.Join(tmpPath, "input.mp4")
	videoFile, err := os.Create(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(videoFile, data); err != nil {
		videoFile.Close()
		return nil, fmt.Errorf("failed to save video data: %w", err)
	}
	videoFile.Close()

	duration, err := getVideoDuration(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get video duration: %w", err)
	}

	previewTime := calculatePreviewTime(duration)
	outputPath := filepath.Join(tmpPath, "output.jpg")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", previewTime,
		"-i", videoPath,
		"-vf", fmt.Sprintf("scale=%d:-1:force_original_aspect_ratio=decrease", maxImageSize),
		"-frames:v", "1",
		"-q:v", "2",
		"-f", "image2",
		"-y",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to extract frame: %w (stderr: %s)", err, stderr.String())
	}

	imgData, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame image: %w", err)
	}

	return s.optimizeImage(imgData)
}

// getVideoDuration получает длительность видео
func getVideoDuration(videoPath string) (string, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get duration: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// calculatePreviewTime вычисляет время для кадра превью
func calculatePreviewTime(duration string) string {
	durationFloat, err := strconv.ParseFloat(duration, 64)
	if err != nil {
		return "00:00:01"
	}

	if durationFloat <= 10 {
		return "00:00:01"
	}

	// Берем кадр на 10% от начала видео
	previewSeconds := durationFloat * 0.1
	hours := int(previewSeconds) / 3600
	minutes := (int(previewSeconds) % 3600) / 60
	seconds := int(previewSeconds) % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
