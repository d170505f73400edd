// Package background runs fire-and-forget work, such as notification
// mail, outside the request while keeping track of it for shutdown.
package background

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrShuttingDown = errors.New("background runner is shutting down")

type Background struct {
	log    logrus.FieldLogger
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

func New(log logrus.FieldLogger) *Background {
	return &Background{log: log}
}

// Run executes fn on its own goroutine. Panics are recovered and logged.
func (b *Background) Run(name string, fn func(ctx context.Context) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrShuttingDown
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				b.log.WithFields(logrus.Fields{
					"task":  name,
					"stack": string(debug.Stack()),
				}).Error(fmt.Sprintf("background task panicked: %v", rec))
			}
		}()

		if err := fn(context.Background()); err != nil {
			b.log.WithField("task", name).Errorf("background task failed: %v", err)
		}
	}()

	return nil
}

// Shutdown stops accepting work and waits for running tasks, or for ctx.
func (b *Background) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
