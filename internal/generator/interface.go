package generator

import "context"

// Output is where generated files are read back from and written to.
// ReadFile must return an error matching fs.ErrNotExist for missing files.
//
//go:generate mockgen -package mockgenerator -source=interface.go -destination=mock/mockgenerator.go *
type Output interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	Remove(ctx context.Context, path string) error
}
