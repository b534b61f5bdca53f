// Package tool defines the tool capability contract and the registry
// that validates arguments against a tool's declared schema before
// dispatching to it.
package tool

import (
	"context"
	"time"

	"github.com/harun/saku/pkg/schema"
)

// Tool is a named capability with a declared parameter schema. Execute
// may block on I/O; implementations should honor ctx cancellation.
type Tool interface {
	Name() string
	Description() string
	Parameters() *schema.Object
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ValidateParams checks args against the tool's declared schema and
// returns every violation as a human-readable message.
func ValidateParams(t Tool, args map[string]any) []string {
	params := t.Parameters()
	if params == nil {
		return nil
	}
	return schema.Validate(params, args)
}

// Invocation statuses recorded for each registry execution.
const (
	StatusOK          = "ok"
	StatusInvalid     = "invalid"
	StatusError       = "error"
	StatusUnknownTool = "unknown_tool"
)

// Invocation captures the outcome of a single Registry.Execute call.
type Invocation struct {
	ID       string
	Tool     string
	Args     map[string]any
	Status   string
	Result   string
	Error    string
	Duration time.Duration
	At       time.Time
}

// Recorder persists invocations, e.g. to the history store.
type Recorder interface {
	Record(inv Invocation) error
}

// Metrics receives execution observations from the registry.
type Metrics interface {
	ObserveExecution(tool, status string, duration time.Duration)
	ObserveValidationFailures(tool string, count int)
}
