// Package lock serializes the read-check-write sequences behind every
// reservation change.
//
// A single process uses Local. Several bot processes sharing one store use
// Redis, which holds a short-lived key with a random token and releases it only
// if the token still matches.
package lock

import (
	"context"
	"errors"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker grants exclusive access until the returned unlock func is called.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Local is an in-process mutex that honours context cancellation.
type Local struct {
	ch chan struct{}
}

func NewLocal() *Local {
	return &Local{ch: make(chan struct{}, 1)}
}

func (l *Local) Lock(ctx context.Context) (func(), error) {
	select {
	case l.ch <- struct{}{}:
		return func() { <-l.ch }, nil
	case <-ctx.Done():
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}
}
