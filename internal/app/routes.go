package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	// Events
	r.HandleFunc("/api/events", deps.FinderHandler.GetEvents).Methods("GET")

	// Tools
	r.HandleFunc("/api/tools", deps.FinderHandler.ListTools).Methods("GET")
	r.HandleFunc("/api/tools/find_events", deps.FinderHandler.CallTool).Methods("POST")
}
