package app

import (
	"context"
	"io/fs"
	"time"
)

// Storage is the collaborator over one directory of files. Write has
// create-or-truncate semantics and must have committed the bytes when it
// returns nil.
type Storage interface {
	List(ctx context.Context) ([]fs.FileInfo, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Remove(ctx context.Context, name string) error
}

// Renamer is probed on Storage for the single-step rename fast path.
// The executor treats it strictly as an optimization of write-then-remove.
type Renamer interface {
	Rename(ctx context.Context, oldName, newName string) error
}

// ExifReader resolves the capture time of an image file.
type ExifReader interface {
	CaptureTime(ctx context.Context, path string) (time.Time, error)
}

// Resizer downscales image bytes. ShouldResize is the pure sizing
// predicate; SourceWidth decodes only the header.
type Resizer interface {
	SourceWidth(data []byte) (int, error)
	ShouldResize(sourceWidth, targetWidth int) bool
	Resize(data []byte, mimeType string, targetWidth, quality int) ([]byte, error)
}

// ProgressFunc is called after each entry completes during scanning or
// execution.
type ProgressFunc func(current, total int)
