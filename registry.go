package access

import (
	"reflect"
	"sort"
	"sync"
)

// Locator maps a kind identifier to the policy guarding it.
type Locator[U any] interface {
	Locate(kind Kind) (Accessible[U], bool)
}

// Registry is the map-backed Locator. Kind lookup is exact and case-sensitive.
type Registry[U any] struct {
	mu       sync.RWMutex
	policies map[Kind]Accessible[U]
}

// NewRegistry creates an empty Registry ready to register policies.
func NewRegistry[U any]() *Registry[U] {
	return &Registry[U]{policies: make(map[Kind]Accessible[U])}
}

// Register adds the policy for a kind (e.g., "Posts").
// Overwrites any existing policy for that kind. A nil policy, including a
// typed nil such as (*ProfilePolicy[U])(nil), removes the kind instead.
func (r *Registry[U]) Register(kind Kind, p Accessible[U]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isNil(p) {
		delete(r.policies, kind)
		return
	}
	r.policies[kind] = p
}

// RegisterEntity registers p under the kind reported by sample.
func (r *Registry[U]) RegisterEntity(sample Entity, p Accessible[U]) {
	r.Register(sample.Kind(), p)
}

// Locate returns the policy registered for kind.
func (r *Registry[U]) Locate(kind Kind) (Accessible[U], bool) {
	r.mu.RLock()
	p, ok := r.policies[kind]
	r.mu.RUnlock()
	return p, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry[U]) Kinds() []Kind {
	r.mu.RLock()
	kinds := make([]Kind, 0, len(r.policies))
	for k := range r.policies {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func isNil(p any) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
