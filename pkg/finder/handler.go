package finder

import (
	"errors"
	"io"
	"net/http"

	"github.com/klokku/eventfinder/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Handler serves the event finder over HTTP, both as a REST endpoint and as
// a tool-call endpoint.
type Handler struct {
	finder Finder
	tool   *Tool
}

// NewHandler creates a Handler answering queries with finder and tool calls with tool.
func NewHandler(finder Finder, tool *Tool) *Handler {
	return &Handler{finder: finder, tool: tool}
}

// GetEvents answers GET /api/events?city=&month=. It responds 200 with
// {note, events}, 400 on an invalid month, 503 when the dataset is missing
// and 500 otherwise; error bodies are rest.ErrorResponse.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	query := Query{
		City:  r.URL.Query().Get("city"),
		Month: r.URL.Query().Get("month"),
	}
	log.Tracef("finding events: city=%q month=%q", query.City, query.Month)

	result, err := h.finder.FindEvents(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMonth):
			rest.WriteError(w, http.StatusBadRequest, ErrorMessage(err), "'month' must be a full English month name")
		case errors.Is(err, ErrDataNotFound):
			log.Errorf("dataset unavailable: %v", err)
			rest.WriteError(w, http.StatusServiceUnavailable, ErrorMessage(err), "")
		default:
			log.Errorf("failed to find events: %v", err)
			rest.WriteError(w, http.StatusInternalServerError, ErrorMessage(err), "")
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, result)
	log.Tracef("events returned: %d", len(result.Events))
}

// CallTool answers POST /api/tools/find_events. The body is the tool argument
// object; the response is always 200 with the tool payload, failures included.
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.tool.Call(r.Context(), body)); err != nil {
		log.Errorf("failed to write tool response: %v", err)
	}
}

// ListTools answers GET /api/tools with the definitions of the exposed tools.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, []ToolDefinition{h.tool.Definition()})
}
