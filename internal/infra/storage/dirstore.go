package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirStore is the storage collaborator over one directory. Backed by
// afero so tests can run against an in-memory filesystem.
type DirStore struct {
	Fs   afero.Fs
	Root string
}

func New(root string) DirStore {
	return DirStore{Fs: afero.NewOsFs(), Root: root}
}

func (d DirStore) List(ctx context.Context) ([]fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.ReadDir(d.Fs, d.Root)
}

func (d DirStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.ReadFile(d.Fs, filepath.Join(d.Root, name))
}

// Write creates or truncates name and commits the bytes before returning.
func (d DirStore) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, err := d.Fs.OpenFile(filepath.Join(d.Root, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (d DirStore) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Fs.Remove(filepath.Join(d.Root, name))
}

// Rename satisfies the executor's fast-path probe.
func (d DirStore) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Fs.Rename(filepath.Join(d.Root, oldName), filepath.Join(d.Root, newName))
}
