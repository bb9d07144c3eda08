package stephandler

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/models"
)

// Step is one connection-scoped unit of the maintenance plan: an operation
// kind bound to a connection and the option set valid for that connection's
// privilege level.
type Step struct {
	Id       string
	Kind     string // models.OpAnalyze, models.OpCompress, models.OpRebuild
	ConnRole string // models.RoleAdmin, models.RoleOwner
	Conn     string
	ConnTag  string

	Analyze gptool.AnalyzeCall // populated for analyze steps
	Rebuild gptool.RebuildCall // populated for rebuild steps
}

// StepHandler executes one operation kind against the geoprocessing bridge.
//
// Execute MUST return a fully populated StepExecutionRecord and MUST NOT
// propagate geoprocessing failures as errors: a failed vendor call is
// recorded on the step so the orchestrator can continue with the next one.
type StepHandler interface {
	// Kind returns the operation identifier this handler executes.
	Kind() string

	Execute(ctx *context.RunContext, gp gptool.Geoprocessor, step Step, logger zerolog.Logger) *models.StepExecutionRecord
}

// HandlerRegistry holds registered step handlers
type HandlerRegistry struct {
	handlers map[string]StepHandler
}

// NewRegistry creates a new, empty handler registry
func NewRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string]StepHandler),
	}
}

// NewDefaultRegistry returns a registry with the three maintenance
// operations registered.
func NewDefaultRegistry() *HandlerRegistry {
	r := NewRegistry()
	r.Register(&AnalyzeHandler{})
	r.Register(&CompressHandler{})
	r.Register(&RebuildHandler{})
	return r
}

// Register adds a StepHandler to the registry. It will panic if a handler
// with the same kind is already registered (indicating an initialization error)
func (r *HandlerRegistry) Register(handler StepHandler) {
	kind := handler.Kind()
	if _, exists := r.handlers[kind]; exists {
		panic(fmt.Sprintf("handler for kind %q already registered", kind))
	}
	r.handlers[kind] = handler
	log.Debug().Str("handler_kind", kind).Msg("Registered step handler")
}

// Get retrieves a handler by operation kind. Returns the handler and true
// if found, otherwise nil and false
func (r *HandlerRegistry) Get(kind string) (StepHandler, bool) {
	handler, exists := r.handlers[kind]
	return handler, exists
}

// MustGet retrieves a handler by operation kind. Panics if the handler is
// not found. Useful for internal logic where a handler is expected to exist.
func (r *HandlerRegistry) MustGet(kind string) StepHandler {
	handler, exists := r.Get(kind)
	if !exists {
		panic(fmt.Sprintf("critical error: no handler registered for kind %q", kind))
	}
	return handler
}

// RegisteredKinds returns a sorted list of known operation kinds
func (r *HandlerRegistry) RegisteredKinds() []string {
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}
