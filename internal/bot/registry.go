package bot

import "sync"

// Registry collects modules in registration order.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module. Registration order is load order: commands are
// registered and Init is called in the order modules were added.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

var globalRegistry = NewRegistry()

// Register adds a module to the process-wide registry. Modules call this from
// their init() so that a blank import is enough to activate them.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns the contents of the process-wide registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry swaps in an empty registry so tests can isolate module
// registration.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
