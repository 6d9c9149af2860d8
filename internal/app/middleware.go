package app

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const (
	RequestIDHeader            = "X-Request-Id"
	requestIDKey    contextKey = "requestId"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {
	r.Use(requestID)
	r.Use(accessLog)
}

// requestID reuses the caller's X-Request-Id or generates one, echoes it in
// the response and stores it in the request context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(req.Context(), requestIDKey, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// accessLog writes one info line per request with status and duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		requestLogger(req.Context()).WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}

// requestLogger returns a log entry carrying the request ID, when present.
func requestLogger(ctx context.Context) *log.Entry {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return log.WithField("requestId", id)
	}
	return log.NewEntry(log.StandardLogger())
}
