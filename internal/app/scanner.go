package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"picren/internal/domain"
	apperrors "picren/internal/errors"
	"picren/internal/logging"
)

// Scanner enumerates the direct children of a storage root and turns the
// image files among them into entries. It never recurses.
type Scanner struct {
	Dir        string // absolute root, used for preview paths and EXIF reads
	Store      Storage
	Exif       ExifReader
	ReadExif   bool // only pay for EXIF when the pattern asks for it
	Logger     logging.Logger
	OnProgress ProgressFunc
}

// Scan lists the root and returns the retained entries sorted ascending by
// original name using locale-aware collation. Files without an extension
// separator and files outside the image allow-list are excluded.
func (s *Scanner) Scan(ctx context.Context) ([]domain.Entry, error) {
	if s.Store == nil {
		return nil, errors.New("scanner requires Store")
	}

	stop := s.Logger.Measure("Scanning directory")
	defer stop()

	infos, err := s.Store.List(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, apperrors.Wrap(apperrors.Cancelled, "scan", s.Dir, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, apperrors.Wrap(apperrors.AccessDenied, "scan", s.Dir, err)
		}
		return nil, apperrors.Wrap(apperrors.IOFailure, "scan", s.Dir, err)
	}

	var candidates []fs.FileInfo
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		ext := filepath.Ext(info.Name())
		if ext == "" || !domain.IsImageExtension(ext) {
			continue
		}
		candidates = append(candidates, info)
	}
	s.Logger.Verbosef("Found %d image files among %d children in %s", len(candidates), len(infos), s.Dir)

	entries := make([]domain.Entry, 0, len(candidates))
	for i, info := range candidates {
		select {
		case <-ctx.Done():
			return nil, apperrors.Wrap(apperrors.Cancelled, "scan", s.Dir, ctx.Err())
		default:
		}

		name := info.Name()
		ext := strings.ToLower(filepath.Ext(name))
		entry := domain.Entry{
			ID:           uuid.NewString(),
			OriginalName: strings.TrimSuffix(name, filepath.Ext(name)),
			Ext:          ext,
			Path:         name,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			PreviewPath:  filepath.Join(s.Dir, name),
		}

		if s.ReadExif && s.Exif != nil {
			takenAt, exifErr := s.Exif.CaptureTime(ctx, entry.PreviewPath)
			if exifErr != nil {
				if errors.Is(exifErr, context.Canceled) || errors.Is(exifErr, context.DeadlineExceeded) {
					return nil, apperrors.Wrap(apperrors.Cancelled, "scan", s.Dir, exifErr)
				}
				s.Logger.Verbosef("EXIF not found for %s, falling back to modification time", name)
			} else {
				entry.TakenAt = takenAt
			}
		}

		entries = append(entries, entry)
		if s.OnProgress != nil {
			s.OnProgress(i+1, len(candidates))
		}
	}

	c := collate.New(language.Und)
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := c.CompareString(entries[i].OriginalName, entries[j].OriginalName); cmp != 0 {
			return cmp < 0
		}
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}
