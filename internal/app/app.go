package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/eventfinder/internal/config"
	log "github.com/sirupsen/logrus"
)

const DefaultConfigPath = "./config/application.yaml"

// Application wires configuration, dataset source, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	deps, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks until it stops or the process
// receives SIGINT/SIGTERM, in which case in-flight requests get ten seconds
// to finish. Dependencies are closed on return.
func (a *Application) Run() error {
	defer a.deps.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Infof("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(ctx)
	}
}
