package finder

import (
	"context"
	"encoding/json"

	"github.com/klokku/eventfinder/internal/rest"
	log "github.com/sirupsen/logrus"
)

const ToolName = "find_events"

const invalidArguments = "Invalid arguments."

// ToolDefinition describes a tool for LLM tool registries. Parameters is a
// JSON schema of the argument object.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

var toolParameters = json.RawMessage(`{
  "type": "object",
  "properties": {
    "city": {"type": "string", "description": "City name to search for events (e.g. 'Melbourne'). Empty matches every city."},
    "month": {"type": "string", "description": "Full English month name (e.g. 'April')."}
  },
  "required": ["month"]
}`)

// Tool exposes FindEvents as a callable tool: a JSON argument object in, a
// JSON result object out. Failures are reported inside the payload.
type Tool struct {
	finder Finder
}

// NewTool exposes finder as the find_events tool.
func NewTool(finder Finder) *Tool {
	return &Tool{finder: finder}
}

// Definition returns the name, description and argument schema of the tool.
func (t *Tool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolName,
		Description: "Find events that overlap with a given month, optionally in a specified city.",
		Parameters:  toolParameters,
	}
}

// Call decodes args as {"city": string?, "month": string}, runs the query
// and returns the JSON payload: {note, events} on success, {error} on any
// failure, including undecodable arguments. It never returns an error.
func (t *Tool) Call(ctx context.Context, args json.RawMessage) []byte {
	var query Query
	if len(args) > 0 {
		if err := json.Unmarshal(args, &query); err != nil {
			log.Debugf("invalid %s arguments: %v", ToolName, err)
			return mustMarshal(rest.ErrorResponse{Error: invalidArguments})
		}
	}

	result, err := t.finder.FindEvents(ctx, query)
	if err != nil {
		return mustMarshal(rest.ErrorResponse{Error: ErrorMessage(err)})
	}
	return mustMarshal(result)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Result and ErrorResponse hold only strings
		panic(err)
	}
	return b
}
