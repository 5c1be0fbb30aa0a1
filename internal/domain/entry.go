package domain

import (
	"strings"
	"time"
)

// Entry is one scanned source file. Entries are immutable after scanning;
// the planner only reads them and the executor addresses the underlying
// file through Path.
type Entry struct {
	ID           string
	OriginalName string // filename without the extension
	Ext          string // last dot-delimited suffix, dot included, lower-cased
	Path         string // name as seen in the storage root
	Size         int64
	LastModified time.Time
	TakenAt      time.Time // EXIF capture time, zero when unknown
	PreviewPath  string    // absolute path for display, not used by planning
}

// Status of a planned entry. Pending and Error are assigned by the planner,
// Success, Error and Skipped by the executor.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// PlannedEntry is an Entry with its computed target name. NewName excludes
// the extension. A fresh planner pass always builds a fresh list; the
// executor mutates statuses in place during a run.
type PlannedEntry struct {
	Entry
	NewName      string
	Status       Status
	ErrorMessage string
}

// TargetName is the full on-disk target, extension included.
func (p PlannedEntry) TargetName() string {
	return p.NewName + p.Ext
}

// TargetKey is the case-insensitive form of TargetName used for
// collision checks within a batch.
func (p PlannedEntry) TargetKey() string {
	return strings.ToLower(p.TargetName())
}

// IsImageExtension reports whether ext (dot included) is in the fixed
// allow-list the scanner retains.
func IsImageExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif", ".heic", ".heif":
		return true
	default:
		return false
	}
}

// MIMEType maps an extension to the MIME type the resizer selects its
// output encoding from. Unknown extensions fall through to octet-stream,
// which the resizer encodes as JPEG.
func MIMEType(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
