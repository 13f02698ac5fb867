// Package fetch tracks the single active request of a component so that a
// newer request cancels an older one and late results can be recognised as
// stale.
package fetch

import (
	"context"
	"errors"
	"time"
)

// Token identifies one request issued through a Lifecycle.
type Token uint64

// Lifecycle owns the cancellation of at most one in-flight request.
//
// It is meant to be driven from a single goroutine (a Bubble Tea Update
// loop). The contexts it hands out may be used from any goroutine.
type Lifecycle struct {
	seq     Token
	cancel  context.CancelFunc
	timeout time.Duration
}

// New returns a Lifecycle whose requests time out after timeout. A zero
// timeout means requests only end when cancelled.
func New(timeout time.Duration) *Lifecycle {
	return &Lifecycle{timeout: timeout}
}

// Begin cancels the outstanding request, if any, and starts a new one.
func (l *Lifecycle) Begin(parent context.Context) (context.Context, Token) {
	l.Cancel()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, l.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	l.seq++
	l.cancel = cancel
	return ctx, l.seq
}

// Current reports whether t belongs to the latest request and that request
// has not been cancelled or finished.
func (l *Lifecycle) Current(t Token) bool {
	return l.cancel != nil && t == l.seq
}

// Finish releases the resources of request t once its result is applied.
// Finishing a stale token is a no-op.
func (l *Lifecycle) Finish(t Token) {
	if !l.Current(t) {
		return
	}
	l.cancel()
	l.cancel = nil
}

// Cancel aborts the outstanding request. Results that arrive afterwards are
// stale.
func (l *Lifecycle) Cancel() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.cancel = nil
}

// Active reports whether a request is outstanding.
func (l *Lifecycle) Active() bool {
	return l.cancel != nil
}

// IsCanceled reports whether err was caused by a cancellation rather than a
// failure. Deadline expiry is a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
