package finder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const undefinedTable = "42P01"

// PostgresSource reads the dataset from the city_event table. Rows of one
// city must share a city_position; position orders events within a city.
type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

// Check verifies the city_event relation exists on the search path.
func (s *PostgresSource) Check(ctx context.Context) error {
	var exists bool
	if err := s.db.QueryRow(ctx, "SELECT to_regclass('city_event') IS NOT NULL").Scan(&exists); err != nil {
		err := fmt.Errorf("could not check city_event table: %w", err)
		log.Error(err)
		return err
	}
	if !exists {
		log.Warn("city_event table not found")
		return fmt.Errorf("%w: table city_event", ErrDataNotFound)
	}
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) (Dataset, error) {
	query := `SELECT city, event_name, date_from, date_to, description
		FROM city_event
		ORDER BY city_position, position`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			log.Warnf("city_event table not found: %v", err)
			return nil, fmt.Errorf("%w: table city_event", ErrDataNotFound)
		}
		err := fmt.Errorf("could not query city events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	dataset := make(Dataset, 0)
	for rows.Next() {
		var city string
		var event Event
		var dateFrom, dateTo time.Time
		if err := rows.Scan(&city, &event.EventName, &dateFrom, &dateTo, &event.Description); err != nil {
			err := fmt.Errorf("could not scan city event: %w", err)
			log.Error(err)
			return nil, err
		}
		event.DateFrom = dateFrom.Format(DateLayout)
		event.DateTo = dateTo.Format(DateLayout)

		last := len(dataset) - 1
		if last < 0 || dataset[last].City != city {
			dataset = append(dataset, CityEvents{City: city})
			last++
		}
		dataset[last].Events = append(dataset[last].Events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read city events: %w", err)
	}

	return dataset, nil
}
