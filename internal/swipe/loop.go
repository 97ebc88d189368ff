package swipe

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopStopped is returned when posting to a loop that is no longer running.
var ErrLoopStopped = errors.New("event loop stopped")

// EventLoop serializes callbacks onto the goroutine that calls Run. It is
// the production Dispatcher for a Controller: fetches run on their own
// goroutines and their completions, along with timers and UI events, are
// queued back onto the loop.
type EventLoop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewEventLoop creates a loop with room for buffer queued callbacks.
func NewEventLoop(buffer int) *EventLoop {
	if buffer < 1 {
		buffer = 64
	}
	return &EventLoop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes queued callbacks until ctx is done.
func (l *EventLoop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post queues fn for the loop. It returns false once the loop has stopped.
func (l *EventLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go implements Dispatcher.
func (l *EventLoop) Go(work func(), done func()) {
	go func() {
		work()
		l.Post(done)
	}()
}

// After implements Dispatcher.
func (l *EventLoop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

func (l *EventLoop) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
