// Package registry provides a global registry for simulation engine factories.
// Engines register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/engine"
)

// DefaultEngine is the engine used when none is requested.
const DefaultEngine = "classic"

// EngineInfo contains metadata about a registered engine.
type EngineInfo struct {
	ID    string
	Title string
}

// Factory creates a new engine instance with the given rules and RNG seed.
type Factory func(cfg config.EngineConfig, seed int64) engine.Engine

type entry struct {
	title   string
	factory Factory
}

var (
	engines = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an engine factory to the registry.
// Typically called from an engine package's init() function.
// Panics if an engine with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := engines[id]; exists {
		panic(fmt.Sprintf("registry: engine %q already registered", id))
	}

	engines[id] = entry{title: title, factory: f}
}

// List returns information about all registered engines, sorted by ID.
func List() []EngineInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EngineInfo, 0, len(engines))
	for id, e := range engines {
		result = append(result, EngineInfo{
			ID:    id,
			Title: e.title,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new engine by its ID.
// Returns an error if the engine ID is not registered.
func Create(id string, cfg config.EngineConfig, seed int64) (engine.Engine, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := engines[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown engine %q", id)
	}

	return e.factory(cfg, seed), nil
}

// Exists checks if an engine with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := engines[id]
	return ok
}
