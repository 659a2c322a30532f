package prop

import (
	"fmt"
	"sort"
	"sync"
)

// TypeInfo describes one type of the closed catalog.
type TypeInfo struct {
	Name   string
	Parent string
	// Family types own a union message on the wire.
	Family bool
	// New is nil for abstract types.
	New func() Composite
}

func (t TypeInfo) Abstract() bool {
	return t.New == nil
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]TypeInfo)
)

// Register adds types to the catalog. Registering a name twice panics.
func Register(infos ...TypeInfo) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, info := range infos {
		if _, exists := registry[info.Name]; exists {
			panic(fmt.Sprintf("prop: type %s registered twice", info.Name))
		}
		registry[info.Name] = info
	}
}

// Lookup returns the catalog entry for a type name.
func Lookup(name string) (TypeInfo, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	info, ok := registry[name]
	return info, ok
}

// New constructs an empty instance of a concrete type.
func New(name string) (Composite, error) {
	info, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %s", name)
	}
	if info.Abstract() {
		return nil, fmt.Errorf("type %s is abstract", name)
	}
	return info.New(), nil
}

// Chain returns the ancestors of name followed by name itself, root first.
func Chain(name string) ([]string, error) {
	var chain []string
	for cur := name; cur != ""; {
		info, ok := Lookup(cur)
		if !ok {
			return nil, fmt.Errorf("unknown type %s", cur)
		}
		chain = append(chain, cur)
		cur = info.Parent
		if len(chain) > 32 {
			return nil, fmt.Errorf("type hierarchy cycle at %s", name)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// IsA reports whether name equals base or derives from it.
func IsA(name, base string) bool {
	chain, err := Chain(name)
	if err != nil {
		return false
	}
	for _, t := range chain {
		if t == base {
			return true
		}
	}
	return false
}

// Children returns the direct subtypes of name, sorted.
func Children(name string) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var out []string
	for n, info := range registry {
		if info.Parent == name {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Concrete returns every registered concrete type deriving from base, sorted.
func Concrete(base string) []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for n, info := range registry {
		if !info.Abstract() {
			names = append(names, n)
		}
	}
	registryMu.RUnlock()

	var out []string
	for _, n := range names {
		if IsA(n, base) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
