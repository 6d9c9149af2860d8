package finder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/klokku/eventfinder/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// CachedSource keeps the last dataset read by a FileSource and reads the
// file again only when its modification time or size changes. A rewrite
// that keeps the size and lands within the filesystem's mtime resolution
// is not noticed and the old dataset keeps being served.
type CachedSource struct {
	file *FileSource
	bus  *event_bus.EventBus

	mu      sync.RWMutex
	dataset Dataset
	modTime time.Time
	size    int64
	loaded  bool
}

func NewCachedSource(file *FileSource, bus *event_bus.EventBus) *CachedSource {
	return &CachedSource{file: file, bus: bus}
}

func (s *CachedSource) Check(ctx context.Context) error {
	if err := s.file.Check(ctx); err != nil {
		s.invalidate()
		return err
	}
	return nil
}

func (s *CachedSource) Load(ctx context.Context) (Dataset, error) {
	info, err := os.Stat(s.file.Path())
	if err != nil {
		s.invalidate()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataNotFound, s.file.Path())
		}
		return nil, fmt.Errorf("failed to stat dataset file: %w", err)
	}

	s.mu.RLock()
	if s.loaded && s.modTime.Equal(info.ModTime()) && s.size == info.Size() {
		dataset := s.dataset
		s.mu.RUnlock()
		return dataset, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// another caller may have refreshed while we waited for the lock
	if s.loaded && s.modTime.Equal(info.ModTime()) && s.size == info.Size() {
		return s.dataset, nil
	}

	dataset, err := s.file.Load(ctx)
	if err != nil {
		s.loaded = false
		s.dataset = nil
		return nil, err
	}
	s.dataset = dataset
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.loaded = true
	log.Debugf("dataset cache refreshed from %s", s.file.Path())

	if s.bus != nil {
		loaded := event_bus.DatasetLoaded{
			Source: s.file.Path(),
			Cities: len(dataset),
			Events: countEvents(dataset),
		}
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.DatasetLoadedType, loaded)); err != nil {
			log.Warnf("failed to publish dataset loaded event: %v", err)
		}
	}
	return dataset, nil
}

func (s *CachedSource) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.dataset = nil
}

func countEvents(dataset Dataset) int {
	total := 0
	for _, city := range dataset {
		total += len(city.Events)
	}
	return total
}
