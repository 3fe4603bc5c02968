package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// FS is the Output backed by the local file system.
type FS struct{}

// ReadFile reads path.
func (FS) ReadFile(_ context.Context, path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read generated file")
	}

	return b, nil
}

// WriteFile replaces path with data. The content goes to a temporary file in
// the same directory first, so a concurrent build never sees half a file.
func (FS) WriteFile(_ context.Context, path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint: gosec
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "rename temp file")
	}

	return nil
}

// Remove deletes path.
func (FS) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Wrap(err, "remove generated file")
	}

	return nil
}
