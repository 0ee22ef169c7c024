package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cloudvault/internal/auth"
	"cloudvault/internal/domain"
	"cloudvault/internal/service"
)

// UploadResult представляет результат загрузки одного файла
type UploadResult struct {
	File  *domain.File `json:"file,omitempty"`
	Error string       `json:"error,omitempty"`
}

// MultiUploadResponse представляет ответ на множественную загрузку
type MultiUploadResponse struct {
	Results []UploadResult `json:"results"`
}

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadFile обрабатывает загрузку файлов. Файлы пакета обрабатываются
// строго последовательно; ошибка прерывает оставшуюся часть пакета,
// уже загруженные файлы остаются.
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	results := make([]UploadResult, 0, len(files))
	for _, fileHeader := range files {
		upload := &domain.FileUpload{
			Name:           fileHeader.Filename,
			Size:           fileHeader.Size,
			OwnerID:        identity.UserID,
			OrganizationID: identity.OrganizationID,
		}

		// Слишком большой файл не читаем: сервис отклонит его по размеру
		// до обращения к хранилищу
		if fileHeader.Size <= service.MaxFileSize {
			file, err := fileHeader.Open()
			if err != nil {
				log.Printf("[UploadFile] Failed to open %s: %v", fileHeader.Filename, err)
				results = append(results, UploadResult{Error: err.Error()})
				break
			}

			upload.Data, err = io.ReadAll(file)
			file.Close()
			if err != nil {
				log.Printf("[UploadFile] Failed to read %s: %v", fileHeader.Filename, err)
				results = append(results, UploadResult{Error: err.Error()})
				break
			}
		}

		uploadedFile, err := h.fileService.UploadFile(r.Context(), upload)
		if err != nil {
			log.Printf("[UploadFile] Failed to upload %s: %v", fileHeader.Filename, err)
			results = append(results, UploadResult{Error: err.Error()})
			break
		}

		results = append(results, UploadResult{File: uploadedFile})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MultiUploadResponse{Results: results})
}

// ListFiles возвращает файлы текущего рабочего пространства
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	files, err := h.fileService.ListFiles(r.Context(), identity.UserID, identity.OrganizationID)
	if err != nil {
		log.Printf("[ListFiles] Failed to list files: %v", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

// RenameFile меняет отображаемое имя файла
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		http.Error(w, "Invalid file ID", http.StatusBadRequest)
		return
	}

	var req struct {
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	file, err := h.fileService.RenameFile(r.Context(), fileID, req.NewName, identity.UserID, identity.OrganizationID)
	if err != nil {
		log.Printf("[RenameFile] Failed to rename %s: %v", fileID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(file)
}

// SetVisibility переключает публичность файла
func (h *FileHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		http.Error(w, "Invalid file ID", http.StatusBadRequest)
		return
	}

	var req struct {
		IsPublic bool `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	file, err := h.fileService.SetVisibility(r.Context(), fileID, req.IsPublic, identity.UserID)
	if err != nil {
		log.Printf("[SetVisibility] Failed to update %s: %v", fileID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(file)
}

// DeleteFile удаляет запись о файле и его байты в хранилище
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		http.Error(w, "Invalid file ID", http.StatusBadRequest)
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), fileID, identity.UserID); err != nil {
		log.Printf("[DeleteFile] Failed to delete %s: %v", fileID, err)
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetShareLink возвращает публичную ссылку на файл
func (h *FileHandler) GetShareLink(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.VerifyToken(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		http.Error(w, "Invalid file ID", http.StatusBadRequest)
		return
	}

	link, err := h.fileService.ShareLink(r.Context(), fileID, identity.UserID, identity.OrganizationID)
	if err != nil {
		log.Printf("[GetShareLink] Failed for %s: %v", fileID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"share_url": link})
}

// writeServiceError переводит ошибки сервисного слоя в HTTP статусы
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
	case errors.Is(err, service.ErrPrivateFile):
		http.Error(w, "This file is private", http.StatusForbidden)
	case errors.Is(err, service.ErrAccessDenied):
		http.Error(w, "Access denied", http.StatusForbidden)
	case errors.Is(err, service.ErrFileTooLarge):
		http.Error(w, "File size exceeds 50MB limit", http.StatusRequestEntityTooLarge)
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrInvalidFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrS3Operation):
		http.Error(w, "Storage operation failed", http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
