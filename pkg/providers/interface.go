package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/snow-ghost/evalbench/core"
)

// Family identifies a supported model family. Adapter resolution is a
// closed mapping over this enum, not a substring match on model names.
type Family string

const (
	FamilyOpenAI    Family = "openai"
	FamilyAnthropic Family = "anthropic"
	FamilyScripted  Family = "scripted"
)

// ErrUnsupportedModel is returned when no adapter is registered for the
// requested family.
var ErrUnsupportedModel = errors.New("unsupported model family")

// ParseFamily validates a caller-supplied family string.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyOpenAI, FamilyAnthropic, FamilyScripted:
		return Family(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, s)
	}
}

// Registry maps model families to adapters. Registration happens once
// at startup; Resolve is safe for concurrent runs.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Family]core.ModelAdapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[Family]core.ModelAdapter)}
}

// Register binds an adapter to a family, replacing any previous binding.
func (r *Registry) Register(f Family, adapter core.ModelAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[f] = adapter
}

// Resolve returns the adapter for the requested family string. It fails
// with ErrUnsupportedModel for unknown or unregistered families.
func (r *Registry) Resolve(model string) (core.ModelAdapter, error) {
	family, err := ParseFamily(model)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[family]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for %q", ErrUnsupportedModel, family)
	}
	return adapter, nil
}

// Families returns the registered families, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for f := range r.adapters {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}
