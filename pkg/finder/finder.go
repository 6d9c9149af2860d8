package finder

import (
	"context"
	"errors"
)

const DateLayout = "2006-01-02"

var (
	ErrDataNotFound   = errors.New("data file not found")
	ErrInvalidData    = errors.New("data file could not be decoded")
	ErrInvalidMonth   = errors.New("invalid month provided")
	ErrMalformedEvent = errors.New("malformed event")
)

// Event is a single entry of the dataset. Dates are kept in their
// YYYY-MM-DD source form and parsed only when matched.
type Event struct {
	EventName   string `json:"eventName"`
	DateFrom    string `json:"dateFrom"`
	DateTo      string `json:"dateTo"`
	Description string `json:"description"`
}

type CityEvents struct {
	City   string
	Events []Event
}

// Dataset keeps cities in the order they appear in the source.
type Dataset []CityEvents

type Query struct {
	City  string `json:"city,omitempty"`
	Month string `json:"month"`
}

type ResultItem struct {
	City        string `json:"city"`
	EventName   string `json:"eventName"`
	DateFrom    string `json:"dateFrom"`
	DateTo      string `json:"dateTo"`
	Description string `json:"description"`
}

type Result struct {
	Note   string       `json:"note"`
	Events []ResultItem `json:"events"`
}

type Finder interface {
	FindEvents(ctx context.Context, query Query) (Result, error)
}

// Source provides the dataset. Implementations return an error wrapping
// ErrDataNotFound when the underlying resource is absent.
type Source interface {
	// Check reports whether the resource is available without reading it.
	Check(ctx context.Context) error
	// Load reads and decodes the whole dataset.
	Load(ctx context.Context) (Dataset, error)
}

// ErrorMessage maps an error returned by FindEvents to the text exposed to
// callers in the {"error": ...} payload. Messages are fixed so paths and
// driver errors never reach the caller.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrDataNotFound):
		return "Data file not found."
	case errors.Is(err, ErrInvalidMonth):
		return "Invalid month provided."
	case errors.Is(err, ErrInvalidData):
		return "Data file could not be read."
	case errors.Is(err, ErrMalformedEvent):
		return "Data file contains a malformed event."
	default:
		return "Failed to find events."
	}
}
