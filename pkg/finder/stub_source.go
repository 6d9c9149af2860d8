package finder

import (
	"context"
	"errors"
)

// StubSource serves a fixed dataset. Err is returned by Load; when it wraps
// ErrDataNotFound Check reports it too.
type StubSource struct {
	Dataset Dataset
	Err     error
	Calls   int
}

func NewStubSource(dataset Dataset) *StubSource {
	return &StubSource{Dataset: dataset}
}

func (s *StubSource) Check(ctx context.Context) error {
	if errors.Is(s.Err, ErrDataNotFound) {
		return s.Err
	}
	return nil
}

func (s *StubSource) Load(ctx context.Context) (Dataset, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Dataset, nil
}
