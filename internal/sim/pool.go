package sim

// Pool recycles instances so steady-state play allocates nothing per frame.
// The free list only grows; instances are reset on acquisition, not release,
// so a freshly acquired item always starts from spawn defaults.
//
// An instance is owned either by the pool or by exactly one active user.
// Release must be called exactly once per acquisition; a second release of
// the same instance is a programmer error and is reported loudly.
type Pool[T any] struct {
	construct func() *T
	reset     func(*T)
	free      []*T
}

// NewPool builds a pool around a constructor and a per-acquisition reset.
func NewPool[T any](construct func() *T, reset func(*T)) *Pool[T] {
	return &Pool[T]{construct: construct, reset: reset}
}

// Acquire returns a recycled instance, or constructs one when the free list
// is empty. The instance is reset before it is handed out.
func (p *Pool[T]) Acquire() *T {
	var item *T
	if n := len(p.free); n > 0 {
		item = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		item = p.construct()
	}
	if p.reset != nil {
		p.reset(item)
	}
	return item
}

// Release returns an instance to the free list.
func (p *Pool[T]) Release(item *T) {
	if item == nil {
		return
	}
	for _, held := range p.free {
		if held == item {
			invariantf("pool: double release of %T", item)
			return
		}
	}
	p.free = append(p.free, item)
}

// FreeCount reports how many instances are waiting for reuse.
func (p *Pool[T]) FreeCount() int {
	return len(p.free)
}
