package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	ports "model-catalog-service/internal/core/ports/output"
)

// Memory keeps blobs in a process-local map. Used by tests and the
// "memory" storage profile.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

var _ ports.FileStore = (*Memory)(nil)

func (s *Memory) Add(ctx context.Context, location string, data io.Reader) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("unable to store file %s: %w", location, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[location] = content
	return nil
}

func (s *Memory) Retrieve(ctx context.Context, location string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[location]
	if !ok {
		return nil, fmt.Errorf("unable to find file: %s", location)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *Memory) Delete(ctx context.Context, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[location]; !ok {
		log.WithField("location", location).Warn("file does not exist")
		return nil
	}
	delete(s.files, location)
	return nil
}
