package finder

import (
	"context"
	"fmt"

	"github.com/klokku/eventfinder/internal/event_bus"
	"github.com/klokku/eventfinder/internal/utils"
	log "github.com/sirupsen/logrus"
)

// ServiceImpl implements Finder over a Source, reading "now" from clock.
type ServiceImpl struct {
	source Source
	clock  utils.Clock
	bus    *event_bus.EventBus
}

// NewService creates the finder service. bus may be nil.
func NewService(source Source, clock utils.Clock, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		source: source,
		clock:  clock,
		bus:    bus,
	}
}

// FindEvents returns the events overlapping the next occurrence of
// query.Month. The source is only checked for availability before the month
// is parsed, so a missing dataset wins over an invalid month while an
// unreadable one does not.
func (s *ServiceImpl) FindEvents(ctx context.Context, query Query) (Result, error) {
	if err := s.source.Check(ctx); err != nil {
		return Result{}, fmt.Errorf("dataset unavailable: %w", err)
	}

	month, err := ParseMonth(query.Month)
	if err != nil {
		log.Debugf("rejecting month %q", query.Month)
		return Result{}, err
	}

	dataset, err := s.source.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	window := ResolveWindow(month, s.clock.Now())
	events, err := Match(dataset, query.City, window)
	if err != nil {
		log.Errorf("failed to match events: %v", err)
		return Result{}, err
	}

	result := Result{
		Note:   fmt.Sprintf("Returning events that overlap with %s %d.", window.Month(), window.Year()),
		Events: events,
	}

	if s.bus != nil {
		searched := event_bus.EventsSearched{
			City:    query.City,
			Month:   window.Month(),
			Year:    window.Year(),
			Matches: len(events),
		}
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventsSearchedType, searched)); err != nil {
			log.Warnf("failed to publish search event: %v", err)
		}
	}

	return result, nil
}
