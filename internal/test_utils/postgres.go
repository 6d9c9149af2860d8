package test_utils

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/eventfinder/internal/config"
	"github.com/klokku/eventfinder/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName     = "eventfinder"
	dbUser     = "test_eventfinder"
	dbPassword = "test_eventfinder"
)

// TestWithDB starts a disposable Postgres container, runs the given init
// scripts and returns a pool connected to it. Skipped in -short mode.
func TestWithDB(t *testing.T, initScripts ...string) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(initScripts...),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			log.Warnf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	pool, err := database.Open(ctx, config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: "public",
	})
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}
