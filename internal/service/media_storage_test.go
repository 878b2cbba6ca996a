package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// multipartFile собирает настоящий *multipart.FileHeader через разбор формы
func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalMediaStorage_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalMediaStorage(dir, "/uploads/", 1024)

	url, err := storage.Save(multipartFile(t, "Pitch.MP4", "video/mp4", []byte("fake video")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".mp4"))

	stored := filepath.Join(dir, filepath.Base(url))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "fake video", string(data))

	require.NoError(t, storage.Remove(url))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// Повторное удаление не ошибка
	assert.NoError(t, storage.Remove(url))
}

func TestLocalMediaStorage_Rejects(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalMediaStorage(dir, "/uploads", 16)

	_, err := storage.Save(multipartFile(t, "notes.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = storage.Save(multipartFile(t, "big.mp4", "video/mp4", bytes.Repeat([]byte("x"), 32)))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = storage.Save(nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
