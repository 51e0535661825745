package modules

import (
	"context"
	"fmt"
	"time"
)

// Module represents a runnable probe capability (dns, whois, headers, portscan).
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string
	// Description returns a short human-readable description.
	Description() string
}

// Runner is the execution contract a loaded module must expose. A module that
// registers metadata without implementing Runner is rejected at dispatch time.
type Runner interface {
	Run(ctx context.Context, target string, opts Options) (any, error)
}

// Options is the shared, immutable per-run configuration handed identically to
// every module. Modules ignore fields they have no use for.
type Options struct {
	// Timeout is the per-module network budget.
	Timeout time.Duration
	// TopPorts is the number of common ports to probe (portscan only).
	TopPorts int
}

// Factory materializes a module capability. It may fail, in which case the
// loader wraps the cause.
type Factory func() (Module, error)

// Entry describes one registered module: its short name, the package path it
// is declared in, and the factory that materializes it.
type Entry struct {
	Name string
	Path string
	New  Factory
}

// LoadError reports a module that could not be resolved or materialized.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unknown module %q", e.Name)
	}
	return fmt.Sprintf("failed to load module %q (%s): %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Registry stores available modules. It is populated once at startup and
// read-only afterwards.
type Registry struct {
	entries map[string]Entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry. Re-registering a name replaces the previous entry.
func (r *Registry) Register(e Entry) {
	if _, ok := r.entries[e.Name]; !ok {
		r.order = append(r.order, e.Name)
	}
	r.entries[e.Name] = e
}

// Load resolves a name and materializes the module. The returned error is
// always a *LoadError: unknown names carry no cause, factory failures wrap
// the underlying one.
func (r *Registry) Load(name string) (Module, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, &LoadError{Name: name}
	}
	m, err := e.New()
	if err != nil {
		return nil, &LoadError{Name: name, Path: e.Path, Err: err}
	}
	return m, nil
}

// Names returns registered module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All materializes every registered module, skipping ones that fail to load.
// Used for listings; Load reports failures per name.
func (r *Registry) All() []Module {
	out := make([]Module, 0, len(r.order))
	for _, name := range r.order {
		if m, err := r.Load(name); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// Count returns the number of registered modules.
func (r *Registry) Count() int {
	return len(r.entries)
}
