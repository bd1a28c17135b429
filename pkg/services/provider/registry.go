package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory is a function type that creates a Provider from a config path.
type Factory func(ctx context.Context, configPath string) (Provider, error)

// Registry manages platform provider factories.
type Registry interface {
	// Register adds a new platform provider factory
	Register(platform string, factory Factory) error
	// Create instantiates a provider for the specified platform using the provided config
	Create(ctx context.Context, platform, configPath string) (Provider, error)
	// ListPlatforms returns a list of registered platforms
	ListPlatforms() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new provider registry pre-populated with the given
// factories.
func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{
		factories: make(map[string]Factory),
	}
	for platform, factory := range factories {
		r.factories[platform] = factory
	}
	return r
}

func (r *registry) Register(platform string, factory Factory) error {
	if platform == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[platform]; exists {
		return fmt.Errorf("platform %q is already registered", platform)
	}

	r.factories[platform] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, platform, configPath string) (Provider, error) {
	r.mu.RLock()
	factory, exists := r.factories[platform]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("platform %q is not registered", platform)
	}

	return factory(ctx, configPath)
}

func (r *registry) ListPlatforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.factories))
	for platform := range r.factories {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}
