package appointment

import (
	"context"
	"sync"
)

// Locker guards a critical section around registry operations.
type Locker interface {
	WithLock(ctx context.Context, fn func(ctx context.Context, r *Registry) error) error
}

// Guarded serialises every operation on a shared Registry behind one global
// mutex. The registry itself holds no locks.
type Guarded struct {
	mu  sync.Mutex
	reg *Registry
}

func NewGuarded(reg *Registry) *Guarded {
	return &Guarded{reg: reg}
}

// WithLock runs fn while holding the registry lock. A context that is already
// done is reported before the lock is taken.
func (g *Guarded) WithLock(ctx context.Context, fn func(ctx context.Context, r *Registry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return fn(ctx, g.reg)
}

var _ Locker = (*Guarded)(nil)
