// Package storage provides statement blob storage with a local filesystem
// implementation. Uploaded statements are stored by document ID; the
// extraction service reads them back by path.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored statement file
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for statement file operations
type Storage interface {
	// Save stores an uploaded statement and returns its metadata
	Save(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// Open retrieves a stored statement by its document ID
	Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// Path resolves the on-disk path for a stored statement
	Path(ctx context.Context, id uuid.UUID) (string, error)

	// Delete removes a stored statement by its document ID
	Delete(ctx context.Context, id uuid.UUID) error
}
