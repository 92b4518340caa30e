package handle

import "sync"

// Owner holds a value and controls the lifetime observed by its Refs.
// The zero value is not usable; create owners with NewOwner.
type Owner[T any] struct {
	mu       sync.RWMutex
	val      T
	released bool
}

// NewOwner wraps val in an Owner. The owner starts in the live state;
// all Refs created from it resolve until Release is called.
func NewOwner[T any](val T) *Owner[T] {
	return &Owner[T]{val: val}
}

// Ref returns a non-owning reference to the owned value. Refs remain
// valid Go values after Release; they simply stop resolving.
func (o *Owner[T]) Ref() *Ref[T] {
	return &Ref[T]{owner: o}
}

// Release drops the owned value. After Release every Ref's Get returns
// false. Release is idempotent and safe for concurrent use.
func (o *Owner[T]) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.released {
		return
	}

	var zero T
	o.val = zero
	o.released = true
}

// Released reports whether the owner has released its value.
func (o *Owner[T]) Released() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.released
}

// Ref is a non-owning reference handed out by an Owner.
// A nil Ref never resolves, which lets optional collaborators be
// represented as nil without separate presence flags.
type Ref[T any] struct {
	owner *Owner[T]
}

// Get returns the referenced value and true while the owner is live.
// After the owner releases, or for a nil Ref, it returns the zero
// value and false.
func (r *Ref[T]) Get() (T, bool) {
	if r == nil || r.owner == nil {
		var zero T
		return zero, false
	}

	r.owner.mu.RLock()
	defer r.owner.mu.RUnlock()

	if r.owner.released {
		var zero T
		return zero, false
	}
	return r.owner.val, true
}
