package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/yourusername/leadership-api/internal/pkg/errors"
)

// MediaStorage сохраняет загруженные видеоответы и возвращает их публичный URL
type MediaStorage interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(url string) error
}

// LocalMediaStorage хранит файлы в локальной директории, раздаваемой как статика
type LocalMediaStorage struct {
	dir          string
	publicPrefix string
	maxSize      int64
}

// NewLocalMediaStorage создаёт хранилище и директорию загрузок
func NewLocalMediaStorage(dir, publicPrefix string, maxSize int64) *LocalMediaStorage {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn().Err(err).Str("component", "MediaStorage").Str("dir", dir).Msg("failed to create upload directory")
	}
	return &LocalMediaStorage{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		maxSize:      maxSize,
	}
}

// Save проверяет заявленный тип и размер файла и сохраняет его под случайным именем
func (s *LocalMediaStorage) Save(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: video file is required", apperrors.ErrValidation)
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		return "", fmt.Errorf("%w: only video files are allowed", apperrors.ErrValidation)
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrValidation, s.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.NewString() + ext
	filePath := filepath.Join(s.dir, filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// Содержимое может оказаться больше заявленного размера
	limit := s.maxSize
	if limit <= 0 {
		limit = file.Size
	}
	written, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(filePath)
		return "", fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrValidation, s.maxSize)
	}

	url := path.Join(s.publicPrefix, filename)
	log.Info().Str("component", "MediaStorage").Str("file", filename).Int64("size", written).Msg("media stored")
	return url, nil
}

// Remove удаляет ранее сохраненный файл по его URL; отсутствие файла не ошибка
func (s *LocalMediaStorage) Remove(url string) error {
	if url == "" {
		return nil
	}
	filePath := filepath.Join(s.dir, filepath.Base(url))
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", filePath, err)
	}
	return nil
}
