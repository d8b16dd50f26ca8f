/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package gracefulshutdown ties the process lifetime to SIGTERM and SIGINT and
// tears resources down in reverse order of acquisition.
package gracefulshutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultCloseTimeout bounds the time given to all closers.
const DefaultCloseTimeout = 30 * time.Second

// CloseFunc releases one resource during shutdown.
type CloseFunc func(ctx context.Context) error

type closer struct {
	name string
	fn   CloseFunc
}

// GracefulShutdown owns the process context. Goroutines that must finish before
// the process exits register with the WaitGroup, and resources register a
// CloseFunc with OnShutdown.
type GracefulShutdown struct {
	ctx    context.Context
	cancel context.CancelFunc
	name   string

	once      sync.Once
	readyOnce sync.Once
	wg        *sync.WaitGroup
	// ready is closed once every WaitGroup.Add has been made.
	ready chan struct{}

	mu           sync.Mutex
	closers      []closer
	closeTimeout time.Duration

	exitFunc func(int)
}

// NewWithExit returns a GracefulShutdown that calls exitFunc instead of os.Exit.
func NewWithExit(name string, exitFunc func(int)) *GracefulShutdown {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)

	gs := &GracefulShutdown{
		ctx:          ctx,
		cancel:       cancel,
		name:         name,
		wg:           &sync.WaitGroup{},
		ready:        make(chan struct{}),
		closeTimeout: DefaultCloseTimeout,
		exitFunc:     exitFunc,
	}

	go func() {
		select {
		case <-gs.ready:
			<-ctx.Done()
		case <-ctx.Done():
			slog.Warn("shutdown requested before the process was ready", "name", name)
		}

		gs.Shutdown(0)
	}()

	return gs
}

// New returns a GracefulShutdown whose context is cancelled by SIGTERM or SIGINT.
func New(name string) *GracefulShutdown {
	return NewWithExit(name, os.Exit)
}

// OnShutdown registers fn to run after the WaitGroup is done. Closers run in
// reverse registration order, so a resource is closed before the resources it
// was built on.
func (s *GracefulShutdown) OnShutdown(name string, fn CloseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closers = append(s.closers, closer{name: name, fn: fn})
}

// SetCloseTimeout changes the deadline given to the closers.
func (s *GracefulShutdown) SetCloseTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeTimeout = d
}

// Shutdown cancels the context, waits for the WaitGroup, runs the closers and
// exits with exitCode. Only the first call has any effect; concurrent callers
// block until it returns.
func (s *GracefulShutdown) Shutdown(exitCode int) {
	s.once.Do(func() {
		slog.Info("⌛ gracefully shutting down", "name", s.name)

		s.cancel()
		s.wg.Wait()

		if !s.runClosers() && exitCode == 0 {
			exitCode = 1
		}

		s.exitFunc(exitCode)
	})
}

// runClosers reports whether every closer succeeded.
func (s *GracefulShutdown) runClosers() bool {
	s.mu.Lock()
	closers := s.closers
	timeout := s.closeTimeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ok := true

	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.fn(ctx); err != nil {
			slog.Error("❌ failed to close resource", "resource", c.name, "error", err)

			ok = false

			continue
		}

		slog.Debug("closed resource", "resource", c.name)
	}

	return ok
}

func (s *GracefulShutdown) Context() context.Context {
	return s.ctx
}

func (s *GracefulShutdown) CancelFunc() context.CancelFunc {
	return s.cancel
}

func (s *GracefulShutdown) WaitGroup() *sync.WaitGroup {
	return s.wg
}

// Ready signals that every WaitGroup.Add has been made. It must be called
// before the context is cancelled; later calls are no-ops.
func (s *GracefulShutdown) Ready() {
	s.readyOnce.Do(func() {
		close(s.ready)
	})
}
