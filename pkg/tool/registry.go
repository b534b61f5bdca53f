package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Registry maps tool names to tools and orchestrates
// validate-then-execute. Registration normally finishes during setup,
// but the map is RWMutex-protected so late registration and concurrent
// execution can coexist.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	recorder Recorder
	metrics  Metrics
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// SetRecorder sets the invocation recorder. Optional.
func (r *Registry) SetRecorder(rec Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorder = rec
}

// SetMetrics sets the metrics sink. Optional.
func (r *Registry) SetMetrics(m Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// Register stores t under its name. Registering a second tool under an
// already-used name overwrites the previous binding (last-write-wins).
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.tools[name]; exists {
		log.Warn().Str("tool", name).Msg("Tool overwritten by later registration")
	}
	r.tools[name] = t

	log.Info().Str("tool", name).Msg("Tool registered")
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered tools, sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// Execute looks up name, validates args against the tool's schema and
// runs the tool. Every outcome comes back as a string: validation
// failures are returned as data, and a tool's own failure is caught
// here rather than propagated. Nothing is retried.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	start := time.Now()
	callID := uuid.New().String()

	r.mu.RLock()
	t := r.tools[name]
	recorder := r.recorder
	metrics := r.metrics
	r.mu.RUnlock()

	if t == nil {
		result := fmt.Sprintf("Unknown tool: %s", name)
		log.Warn().Str("call_id", callID).Str("tool", name).Msg("Tool not found")
		r.finish(recorder, metrics, Invocation{
			ID:       callID,
			Tool:     name,
			Args:     args,
			Status:   StatusUnknownTool,
			Error:    result,
			Duration: time.Since(start),
			At:       start,
		})
		return result
	}

	if errs := ValidateParams(t, args); len(errs) > 0 {
		result := "Invalid parameters: " + strings.Join(errs, "; ")
		log.Warn().
			Str("call_id", callID).
			Str("tool", name).
			Int("violations", len(errs)).
			Msg("Parameter validation failed")
		if metrics != nil {
			metrics.ObserveValidationFailures(name, len(errs))
		}
		r.finish(recorder, metrics, Invocation{
			ID:       callID,
			Tool:     name,
			Args:     args,
			Status:   StatusInvalid,
			Error:    result,
			Duration: time.Since(start),
			At:       start,
		})
		return result
	}

	log.Debug().Str("call_id", callID).Str("tool", name).Msg("Executing tool")

	out, err := t.Execute(ctx, args)
	duration := time.Since(start)

	if err != nil {
		result := fmt.Sprintf("Error executing %s: %v", name, err)
		log.Error().
			Str("call_id", callID).
			Str("tool", name).
			Dur("duration", duration).
			Err(err).
			Msg("Tool execution failed")
		r.finish(recorder, metrics, Invocation{
			ID:       callID,
			Tool:     name,
			Args:     args,
			Status:   StatusError,
			Error:    err.Error(),
			Duration: duration,
			At:       start,
		})
		return result
	}

	log.Debug().
		Str("call_id", callID).
		Str("tool", name).
		Dur("duration", duration).
		Msg("Tool execution completed")
	r.finish(recorder, metrics, Invocation{
		ID:       callID,
		Tool:     name,
		Args:     args,
		Status:   StatusOK,
		Result:   out,
		Duration: duration,
		At:       start,
	})
	return out
}

func (r *Registry) finish(recorder Recorder, metrics Metrics, inv Invocation) {
	if metrics != nil {
		metrics.ObserveExecution(inv.Tool, inv.Status, inv.Duration)
	}
	if recorder != nil {
		if err := recorder.Record(inv); err != nil {
			log.Warn().Err(err).Str("tool", inv.Tool).Msg("Failed to record invocation")
		}
	}
}
