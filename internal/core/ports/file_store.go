package ports

import (
	"context"
	"io"
)

// FileStore persists uploaded files. Save returns the reference stored on the
// record: a URL path or absolute URL the client can fetch.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Remove deletes the file behind a reference previously returned by Save.
	Remove(ctx context.Context, ref string) error
}

// Uploader validates an attachment and hands it to a FileStore.
type Uploader interface {
	Store(ctx context.Context, in UploadInput) (string, error)
	Discard(ctx context.Context, ref string) error
}
