package storage

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidFile = errors.New("некорректный файл")

// FileStorage keeps uploaded images. Files are addressed by the URL
// returned from UploadFile.
type FileStorage interface {
	UploadFile(ctx context.Context, folder string, data []byte, filename string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error

	GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)
}
