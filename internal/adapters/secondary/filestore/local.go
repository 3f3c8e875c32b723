package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	ports "model-catalog-service/internal/core/ports/output"
)

// Local stores blobs on the local filesystem beneath a base directory.
// Location strings from the catalog are slash-separated and resolved under
// the base; anything escaping it is rejected.
type Local struct {
	base string
}

func NewLocal(base string) (*Local, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{base: base}, nil
}

var _ ports.FileStore = (*Local)(nil)

func (s *Local) Add(ctx context.Context, location string, data io.Reader) error {
	path, err := s.resolve(location)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to store file %s: %w", location, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to store file %s: %w", location, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("unable to store file %s: %w", location, err)
	}
	return nil
}

func (s *Local) Retrieve(ctx context.Context, location string) (io.ReadCloser, error) {
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("unable to find file: %s", location)
		}
		return nil, fmt.Errorf("unable to read file %s: %w", location, err)
	}
	return f, nil
}

func (s *Local) Delete(ctx context.Context, location string) error {
	path, err := s.resolve(location)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			log.WithField("location", location).Warn("file does not exist")
			return nil
		}
		return fmt.Errorf("unable to delete file %s: %w", location, err)
	}
	return nil
}

func (s *Local) resolve(location string) (string, error) {
	rel := strings.TrimPrefix(location, "/")
	path := filepath.Join(s.base, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, filepath.Clean(s.base)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file location: %s", location)
	}
	return path, nil
}
