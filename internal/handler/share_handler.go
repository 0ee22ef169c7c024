package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cloudvault/internal/auth"
	"cloudvault/internal/format"
	"cloudvault/internal/service"
)

type ShareHandler struct {
	fileService *service.FileService
}

func NewShareHandler(fileService *service.FileService) *ShareHandler {
	return &ShareHandler{fileService: fileService}
}

// sharedFileResponse содержит все, что нужно странице просмотра:
// саму запись и производные поля для отображения
type sharedFileResponse struct {
	ID            uuid.UUID   `json:"id"`
	FileName      string      `json:"file_name"`
	FileSize      int64       `json:"file_size"`
	FormattedSize string      `json:"formatted_size"`
	Kind          format.Kind `json:"kind"`
	Extension     string      `json:"extension"`
	DownloadURL   string      `json:"download_url"`
	IsPublic      bool        `json:"is_public"`
	CreatedAt     time.Time   `json:"created_at"`
}

// GetSharedFile отдает файл по публичной ссылке. Токен не обязателен:
// владелец может смотреть свой приватный файл, остальным приватные
// файлы недоступны.
func (h *ShareHandler) GetSharedFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		http.Error(w, "Invalid file ID", http.StatusBadRequest)
		return
	}

	requesterID := ""
	if identity := auth.IdentityFromRequest(r); identity != nil {
		requesterID = identity.UserID
	}

	file, err := h.fileService.GetSharedFile(r.Context(), fileID, requesterID)
	if err != nil {
		log.Printf("[GetSharedFile] Failed for %s: %v", fileID, err)
		writeServiceError(w, err)
		return
	}

	response := sharedFileResponse{
		ID:            file.ID,
		FileName:      file.FileName,
		FileSize:      file.FileSize,
		FormattedSize: format.FileSize(file.FileSize),
		Kind:          format.KindForName(file.FileName),
		Extension:     format.Extension(file.FileName),
		DownloadURL:   file.FileURL,
		IsPublic:      file.IsPublic,
		CreatedAt:     file.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
