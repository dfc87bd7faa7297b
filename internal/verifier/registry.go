package verifier

import (
	"context"

	"github.com/roach88/pactum/internal/contract"
)

// Handler is provider-side code registered to produce the actual output
// for interactions matching a given description. Handlers take no inputs
// beyond the context; their return value is subject to output
// normalization (see Normalize).
type Handler func(ctx context.Context) (any, error)

// Resolver is the handler search boundary.
//
// Resolve returns every handler registered against the interaction's
// description. An empty result is a valid answer (the verifier records a
// hard failure for it); a non-nil error means the search space itself
// could not be constructed and is fatal to the whole run, never silently
// treated as empty.
type Resolver interface {
	Resolve(interaction contract.Interaction) ([]Handler, error)
}

// Registry is the explicit handler registry: a mapping from interaction
// description to the handlers registered for it, built at startup by the
// caller and injected into the verifier. No reflection or scanning
// happens inside the engine.
//
// Descriptions are NFC-normalized on both registration and lookup, so
// Unicode-equivalent spellings resolve to the same handlers. Matching is
// otherwise exact and case-sensitive.
//
// Several handlers may share one description; verification then requires
// ALL of them to pass.
type Registry struct {
	handlers map[string][]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]Handler)}
}

// Register adds a handler for the given interaction description.
// Registration order within a description is preserved and is the
// invocation order during verification.
func (r *Registry) Register(description string, h Handler) {
	key := contract.NormalizeDescription(description)
	r.handlers[key] = append(r.handlers[key], h)
}

// Resolve returns the handlers registered for the interaction's
// description, or nil when none are registered.
func (r *Registry) Resolve(interaction contract.Interaction) ([]Handler, error) {
	return r.handlers[contract.NormalizeDescription(interaction.Description)], nil
}

// Len returns the number of distinct descriptions with registered
// handlers. Used for diagnostics.
func (r *Registry) Len() int {
	return len(r.handlers)
}
