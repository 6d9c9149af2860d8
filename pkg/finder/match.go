package finder

import (
	"fmt"
	"strings"
	"time"
)

// Match scans the dataset in order and returns every event overlapping the
// window. An empty cityFilter matches all cities; otherwise the filter is a
// case-insensitive substring of the city name.
func Match(dataset Dataset, cityFilter string, window Window) ([]ResultItem, error) {
	filter := strings.ToLower(cityFilter)
	matches := make([]ResultItem, 0)

	for _, city := range dataset {
		if filter != "" && !strings.Contains(strings.ToLower(city.City), filter) {
			continue
		}
		for _, event := range city.Events {
			start, end, err := parseEventDates(event)
			if err != nil {
				return nil, fmt.Errorf("%w: %q in %q: %v", ErrMalformedEvent, event.EventName, city.City, err)
			}
			if !Overlaps(window.Start, window.End, start, end) {
				continue
			}
			matches = append(matches, ResultItem{
				City:        city.City,
				EventName:   event.EventName,
				DateFrom:    event.DateFrom,
				DateTo:      event.DateTo,
				Description: event.Description,
			})
		}
	}

	return matches, nil
}

func parseEventDates(event Event) (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, event.DateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(DateLayout, event.DateTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
