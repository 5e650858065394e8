package domain

import (
	"context"
	"io"
)

// BlobWriter uploads data to object storage. The engine uses it to archive
// raw scrape batches when archiving is enabled.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}
