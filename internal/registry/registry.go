// Package registry provides a global registry of hand tracking backends.
// Backends register themselves in init() functions, allowing the commands
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

// Options carries what a backend may need to start. Backends ignore fields they don't use.
type Options struct {
	// Path is a device or recording path.
	Path string

	// Rig drives synthetic hands.
	Rig *tracking.Rig

	// Mapping is the camera-to-world mapping the estimator uses.
	Mapping hand.Mapping
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

// Factory creates a backend instance.
type Factory func(opts Options) (tracking.Backend, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from a backend's init() function.
// Panics if a backend with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for name := range factories {
		result = append(result, BackendInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a backend by name.
// Returns an error if the name is not registered or the factory fails.
func Create(name string, opts Options) (tracking.Backend, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return tracking.Backend{}, fmt.Errorf("registry: unknown backend %q", name)
	}

	b, err := f(opts)
	if err != nil {
		return tracking.Backend{}, fmt.Errorf("registry: create %q: %w", name, err)
	}
	return b, nil
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
