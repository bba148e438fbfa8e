package storage

import (
	"context"
	"io"
)

type FileInfo struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// Store uploads generated documents (payslips) to object storage.
type Store interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) (*FileInfo, error)
	URL(key string) string
}
