package finder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const DefaultDataFile = "data/find_events_data.json"

// FileSource reads the dataset from a JSON file on every Load.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Path() string {
	return s.path
}

// Check stats the file without reading it.
func (s *FileSource) Check(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("dataset file not found: %s", s.path)
			return fmt.Errorf("%w: %s", ErrDataNotFound, s.path)
		}
		return fmt.Errorf("failed to stat dataset file: %w", err)
	}
	return nil
}

func (s *FileSource) Load(ctx context.Context) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("dataset file not found: %s", s.path)
			return nil, fmt.Errorf("%w: %s", ErrDataNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	dataset, err := DecodeDataset(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidData, s.path, err)
	}
	log.Tracef("loaded %d cities from %s", len(dataset), s.path)
	return dataset, nil
}

// DecodeDataset reads a JSON object mapping city names to event arrays.
// Keys are consumed as tokens so the city order of the document survives.
// A repeated city keeps its first position and its last events, like a
// plain JSON object decode would.
func DecodeDataset(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object keyed by city, got %v", tok)
	}

	dataset := make(Dataset, 0)
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		city, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected city name, got %v", tok)
		}

		var events []Event
		if err := dec.Decode(&events); err != nil {
			return nil, fmt.Errorf("failed to decode events of %q: %w", city, err)
		}
		if i, ok := index[city]; ok {
			dataset[i].Events = events
			continue
		}
		index[city] = len(dataset)
		dataset = append(dataset, CityEvents{City: city, Events: events})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return dataset, nil
}

// ResolveDataPath makes a relative path absolute against the directory of
// the running executable. When nothing exists there the path is resolved
// against the working directory instead.
func ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	execPath, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
