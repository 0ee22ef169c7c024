package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudvault/internal/domain"
)

func setVisibility(t *testing.T, router http.Handler, token string, fileID uuid.UUID, isPublic bool) *domain.File {
	t.Helper()
	body := `{"is_public": false}`
	if isPublic {
		body = `{"is_public": true}`
	}

	req := httptest.NewRequest(http.MethodPut, "/v1/files/"+fileID.String()+"/visibility", strings.NewReader(body))
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	return &updated
}

func TestSetVisibility_Endpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "user_1", "")
	file := uploadFile(t, router, token, "report.pdf", []byte("%PDF"))

	updated := setVisibility(t, router, token, file.ID, true)
	assert.True(t, updated.IsPublic)
	assert.Equal(t, file.FileName, updated.FileName)
	assert.Equal(t, file.FileSize, updated.FileSize)
	assert.Equal(t, file.FileURL, updated.FileURL)

	t.Run("stranger denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/v1/files/"+file.ID.String()+"/visibility",
			strings.NewReader(`{"is_public": false}`))
		req.Header.Set("Authorization", bearerToken(t, "user_2", ""))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetSharedFile_PrivateFile(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "user_1", "")
	file := uploadFile(t, router, token, "secret.docx", []byte("doc"))

	t.Run("anonymous gets private error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/share/"+file.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "private")
	})

	t.Run("stranger gets private error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/share/"+file.ID.String(), nil)
		req.Header.Set("Authorization", bearerToken(t, "user_2", ""))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner sees own private file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/share/"+file.ID.String(), nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGetSharedFile_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/share/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/share/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Полный путь файла: загрузка, публикация, просмотр анонимом.
func TestPublicShareFlow_PDF(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "user_1", "")

	content := make([]byte, 2*1024*1024)
	file := uploadFile(t, router, token, "report.pdf", content)
	assert.False(t, file.IsPublic)
	assert.Equal(t, int64(2*1024*1024), file.FileSize)

	setVisibility(t, router, token, file.ID, true)

	req := httptest.NewRequest(http.MethodGet, "/share/"+file.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var shared struct {
		ID            uuid.UUID `json:"id"`
		FileName      string    `json:"file_name"`
		FormattedSize string    `json:"formatted_size"`
		Kind          string    `json:"kind"`
		Extension     string    `json:"extension"`
		DownloadURL   string    `json:"download_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shared))

	assert.Equal(t, file.ID, shared.ID)
	assert.Equal(t, "report.pdf", shared.FileName)
	assert.Equal(t, "2 MB", shared.FormattedSize)
	assert.Equal(t, "pdf", shared.Kind)
	assert.Equal(t, "PDF", shared.Extension)
	assert.Equal(t, file.FileURL, shared.DownloadURL)
}
