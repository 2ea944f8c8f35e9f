// Package repository persists receipt images and extraction results so a
// receipt can be re-run through the pipeline without re-uploading it.
package repository

import (
	"context"

	"github.com/google/uuid"
)

// StoredImage is a receipt image at rest.
type StoredImage struct {
	ID        uuid.UUID `json:"id"`
	Data      []byte    `json:"data"`
	Ext       string    `json:"ext"`
	SHA256    string    `json:"sha256"`
	SizeBytes int64     `json:"size_bytes"`
}

// ImageStore is the persistence boundary the pipeline depends on.
type ImageStore interface {
	Put(ctx context.Context, img StoredImage) error
	Get(ctx context.Context, id uuid.UUID) (StoredImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}
