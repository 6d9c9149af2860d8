package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventfinder/internal/config"
	"github.com/klokku/eventfinder/internal/database"
	"github.com/klokku/eventfinder/internal/event_bus"
	"github.com/klokku/eventfinder/internal/utils"
	"github.com/klokku/eventfinder/pkg/finder"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	DB       *pgxpool.Pool
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	Source        finder.Source
	FinderService *finder.ServiceImpl
	FinderTool    *finder.Tool
	FinderHandler *finder.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	subscribeLogging(deps.EventBus)
	deps.Clock = utils.SystemClock{}

	switch cfg.Data.Source {
	case config.SourceFile, "":
		file := finder.NewFileSource(finder.ResolveDataPath(cfg.Data.Path))
		log.Infof("Reading events from %s", file.Path())
		if cfg.Data.Cache {
			deps.Source = finder.NewCachedSource(file, deps.EventBus)
		} else {
			deps.Source = file
		}
	case config.SourcePostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Infof("Reading events from postgres %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		deps.DB = db
		deps.Source = finder.NewPostgresSource(db)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	deps.FinderService = finder.NewService(deps.Source, deps.Clock, deps.EventBus)
	deps.FinderTool = finder.NewTool(deps.FinderService)
	deps.FinderHandler = finder.NewHandler(deps.FinderService, deps.FinderTool)

	return deps, nil
}

// Close releases the database pool, if one was opened.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}

// subscribeLogging logs dataset reloads at info and searches at debug level.
func subscribeLogging(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.DatasetLoadedType, func(e event_bus.EventT[event_bus.DatasetLoaded]) error {
		log.Infof("Dataset loaded from %s: %d cities, %d events", e.Data.Source, e.Data.Cities, e.Data.Events)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.EventsSearchedType, func(e event_bus.EventT[event_bus.EventsSearched]) error {
		requestLogger(e.Context()).Debugf("Search city=%q %s %d: %d matches", e.Data.City, e.Data.Month, e.Data.Year, e.Data.Matches)
		return nil
	})
}
