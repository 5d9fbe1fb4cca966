package orm

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Resource pairs a registered model with the name admin and table creation
// address it by.
type Resource struct {
	Name  string
	Model any
}

// Registry tracks the models an application registers with the ORM.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: map[string]Resource{}}
}

// Register stores a model under name. The model must be a non-nil struct
// pointer so bun can inspect its table metadata.
func (r *Registry) Register(name string, model any) error {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return fmt.Errorf("orm: resource name is required")
	}
	if model == nil {
		return fmt.Errorf("orm: resource %s requires a model", normalized)
	}
	value := reflect.ValueOf(model)
	if value.Kind() != reflect.Pointer || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("orm: resource %s model must be a struct pointer", normalized)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[normalized]; exists {
		return fmt.Errorf("orm: resource %s already registered", normalized)
	}
	r.resources[normalized] = Resource{Name: normalized, Model: model}
	return nil
}

// Lookup returns the resource registered under name.
func (r *Registry) Lookup(name string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resource, ok := r.resources[strings.ToLower(strings.TrimSpace(name))]
	return resource, ok
}

// Resources returns every registered resource sorted by name.
func (r *Registry) Resources() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Resource, 0, len(r.resources))
	for _, resource := range r.resources {
		out = append(out, resource)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the sorted resource names.
func (r *Registry) Names() []string {
	resources := r.Resources()
	names := make([]string, 0, len(resources))
	for _, resource := range resources {
		names = append(names, resource.Name)
	}
	return names
}
