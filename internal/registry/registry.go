// Package registry implements the typed object registry of SPEC_FULL.md
// §3.2: a (kind K) -> objectRef map with a parallel UID index, mutated
// only through Insert/Remove, never by direct map edits.
package registry

import (
	"sort"
	"sync"

	"github.com/whitefamily/vale-gateway/internal/objref"
)

// Object is implemented by every Kubernetes object kind the system
// tracks. Ref and UID must be stable for the lifetime of the object;
// Deleting reports whether the object carries a deletionTimestamp,
// which Registry treats as "already gone" on Insert.
type Object interface {
	Ref() objref.Ref
	UID() objref.UID
	Deleting() bool
}

// Registry is a snapshot-style store for one Kubernetes kind. The two
// internal maps (by ref, by UID) always contain the same object set;
// callers never see a registry with a ref entry lacking a UID entry or
// vice versa. A Registry has exactly one writer (its owning watcher);
// all other consumers should treat a *Registry obtained from a signal
// as read-only.
type Registry[T Object] struct {
	mu      sync.RWMutex
	byRef   map[objref.Ref]T
	byUID   map[objref.UID]T
}

// New returns an empty Registry.
func New[T Object]() *Registry[T] {
	return &Registry[T]{
		byRef: make(map[objref.Ref]T),
		byUID: make(map[objref.UID]T),
	}
}

// Insert upserts obj into the registry, unless it has no name (rejected)
// or carries a deletionTimestamp (removed instead, to keep the two
// invariants "object set is the same in both maps" and "a deleting
// object is not a member" simultaneously true).
func (r *Registry[T]) Insert(obj T) {
	ref := obj.Ref()
	if ref.Name == "" {
		return
	}
	if obj.Deleting() {
		r.remove(ref)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byRef[ref]; ok && existing.UID() != obj.UID() {
		delete(r.byUID, existing.UID())
	}
	r.byRef[ref] = obj
	r.byUID[obj.UID()] = obj
}

// Remove deletes obj's ref (and whichever UID it currently maps to, if
// any) from the registry.
func (r *Registry[T]) Remove(obj T) {
	r.remove(obj.Ref())
}

func (r *Registry[T]) remove(ref objref.Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byRef[ref]
	if !ok {
		return
	}
	delete(r.byRef, ref)
	delete(r.byUID, existing.UID())
}

// Get looks up the current object at ref, if any.
func (r *Registry[T]) Get(ref objref.Ref) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byRef[ref]
	return v, ok
}

// GetByUID looks up an object by its UID, which detects identity churn
// a ref-based lookup cannot: a ref whose object was deleted and
// recreated resolves to the new object under GetByUID only once the
// watcher has observed the recreation.
func (r *Registry[T]) GetByUID(uid objref.UID) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byUID[uid]
	return v, ok
}

// List returns every object currently in the registry, sorted by Ref
// for deterministic iteration (SPEC_FULL.md §8: "no random iteration
// order leaks into the result").
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.byRef))
	refs := make([]objref.Ref, 0, len(r.byRef))
	for ref := range r.byRef {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refLess(refs[i], refs[j]) })
	for _, ref := range refs {
		out = append(out, r.byRef[ref])
	}
	return out
}

// Len reports the number of distinct objects in the registry.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byRef)
}

// Clone returns a new Registry holding a snapshot of the same objects.
// Used by watchers to publish an immutable value to a signal without
// sharing the live, still-being-mutated map.
func (r *Registry[T]) Clone() *Registry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := New[T]()
	for ref, v := range r.byRef {
		out.byRef[ref] = v
	}
	for uid, v := range r.byUID {
		out.byUID[uid] = v
	}
	return out
}

func refLess(a, b objref.Ref) bool {
	if a.Namespace != b.Namespace {
		return a.Namespace < b.Namespace
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Group < b.Group
}
