package preview

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cloudvault/internal/auth"
	"cloudvault/internal/service"
)

type Handler struct {
	service     *Service
	fileService *service.FileService
}

func NewHandler(service *Service, fileService *service.FileService) *Handler {
	return &Handler{
		service:     service,
		fileService: fileService,
	}
}

// GetPreview отдает миниатюру файла по публичной ссылке.
// Действует та же политика видимости, что и для самой страницы просмотра.
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
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
		switch {
		case errors.Is(err, service.ErrFileNotFound):
			http.Error(w, "File not found", http.StatusNotFound)
		case errors.Is(err, service.ErrPrivateFile):
			http.Error(w, "This file is private", http.StatusForbidden)
		default:
			log.Printf("[GetPreview] Failed to get file %s: %v", fileID, err)
			http.Error(w, "Failed to get file info", http.StatusInternalServerError)
		}
		return
	}

	previewData, err := h.service.GetOrGeneratePreview(r.Context(), file)
	if err != nil {
		log.Printf("[GetPreview] Failed to generate preview for %s: %v", fileID, err)
		http.Error(w, "Preview not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400") // кешируем на 24 часа

	w.WriteHeader(http.StatusOK)
	w.Write(previewData)
}
