package event_bus

import "time"

const (
	DatasetLoadedType  EventType = "dataset.loaded"
	EventsSearchedType EventType = "events.searched"
)

// DatasetLoaded is published whenever a cached dataset is (re)read from its source.
type DatasetLoaded struct {
	Source string
	Cities int
	Events int
}

// EventsSearched is published after every successful event query.
type EventsSearched struct {
	City    string
	Month   time.Month
	Year    int
	Matches int
}
