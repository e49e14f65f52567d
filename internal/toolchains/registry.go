// Package toolchains hosts the build-system implementations the runner
// can drive, behind a name-keyed registry.
package toolchains

import (
	"fmt"
	"sync"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/util"
)

// Factory builds a toolchain rooted at the target tree. The auth store
// supplies feed credentials when the toolchain needs them.
type Factory func(target string, store auth.Store) (domain.Toolchain, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

func Register(name string, factory Factory) {
	normalizedName := util.NormalizeKey(name)
	if normalizedName == "" {
		panic("toolchains: empty toolchain name")
	}
	if factory == nil {
		panic("toolchains: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[normalizedName]; exists {
		panic(fmt.Sprintf("toolchains: toolchain %q already registered", name))
	}

	registry[normalizedName] = factory
}

func Get(name string, target string, store auth.Store) (domain.Toolchain, error) {
	normalizedName := util.NormalizeKey(name)
	mu.RLock()
	factory, ok := registry[normalizedName]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("toolchains: unknown toolchain %q", name)
	}

	toolchain, err := factory(target, store)
	if err != nil {
		return nil, err
	}

	return toolchain, nil
}

// Reset clears the toolchain registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}

func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	return names
}
