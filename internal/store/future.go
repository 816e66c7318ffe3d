package store

import "context"

// Future is the pending result of a store operation.
// It resolves exactly once, always with a collection; operations have no failure path.
type Future struct {
	done chan struct{}
	val  Collection
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(c Collection) {
	f.val = c
	close(f.done)
}

// Done is closed once the operation has completed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the operation completes and returns the resulting collection.
func (f *Future) Await() Collection {
	<-f.done
	return f.val.Clone()
}

// Wait is Await bounded by ctx. The error is only ever ctx.Err();
// the operation itself keeps running and completes regardless.
// A future that has already resolved is returned even if ctx is done.
func (f *Future) Wait(ctx context.Context) (Collection, error) {
	select {
	case <-f.done:
		return f.val.Clone(), nil
	default:
	}
	select {
	case <-f.done:
		return f.val.Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
