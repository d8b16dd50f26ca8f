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

// Package vmm implements hypervisor.Gateway on top of libvirt.
package vmm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"libvirt.org/go/libvirt"

	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
)

const (
	DefaultURI         = "qemu:///system"
	DefaultCallTimeout = 30 * time.Second

	tracerName = "github.com/alexandremahdhaoui/vmagent/pkg/vmm"
)

var _ hypervisor.Gateway = &Gateway{}

// Gateway is a libvirt connection. Calls issued through it, and through the
// machines it returns, are serialized and bounded by the call timeout.
type Gateway struct {
	conn        *libvirt.Connect
	uri         string
	callTimeout time.Duration
	tracer      trace.Tracer

	mu sync.Mutex
}

// Option is a functional option for configuring a Gateway.
type Option func(*Gateway)

// WithCallTimeout bounds every hypervisor call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.callTimeout = d
	}
}

// WithTracerProvider sets the provider used to trace hypervisor calls.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Gateway) {
		g.tracer = tp.Tracer(tracerName)
	}
}

// Connect opens a libvirt connection. An empty uri connects to qemu:///system.
func Connect(uri string, opts ...Option) (*Gateway, error) {
	if uri == "" {
		uri = DefaultURI
	}

	g := &Gateway{
		uri:         uri,
		callTimeout: DefaultCallTimeout,
		tracer:      otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(g)
	}

	conn, err := libvirt.NewConnect(uri)
	if err != nil {
		return nil, errors.Join(hypervisor.ErrConnect, toError(err))
	}

	g.conn = conn

	return g, nil
}

// URI returns the connection URI.
func (g *Gateway) URI() string {
	return g.uri
}

// Lookup implements hypervisor.Gateway.
func (g *Gateway) Lookup(ctx context.Context, id string) (hypervisor.Machine, error) {
	dom, err := invokeOwned(ctx, g, "lookup", func() (*libvirt.Domain, error) {
		return g.conn.LookupDomainByUUIDString(id)
	}, freeDomain)
	if err != nil {
		return nil, err
	}

	return &machine{gw: g, dom: dom}, nil
}

// Define implements hypervisor.Gateway.
func (g *Gateway) Define(ctx context.Context, document string) (hypervisor.Machine, error) {
	dom, err := invokeOwned(ctx, g, "define", func() (*libvirt.Domain, error) {
		return g.conn.DomainDefineXML(document)
	}, freeDomain)
	if err != nil {
		return nil, err
	}

	return &machine{gw: g, dom: dom}, nil
}

// Close implements hypervisor.Gateway.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return nil
	}

	_, err := g.conn.Close()
	g.conn = nil
	if err != nil {
		return toError(err)
	}

	return nil
}

type result[T any] struct {
	value T
	err   error
}

// invoke runs fn under the gateway lock and waits for it at most until the
// call deadline. The lock is taken by the worker goroutine, so an abandoned
// call keeps the connection busy but never blocks the caller.
func invoke[T any](ctx context.Context, g *Gateway, op string, fn func() (T, error)) (T, error) {
	return invokeOwned(ctx, g, op, fn, nil)
}

// invokeOwned is invoke for results that hold a resource. A result that
// arrives after the caller gave up is passed to release.
func invokeOwned[T any](
	ctx context.Context,
	g *Gateway,
	op string,
	fn func() (T, error),
	release func(T),
) (T, error) {
	ctx, span := g.tracer.Start(ctx, "hypervisor."+op, trace.WithAttributes(
		attribute.String("hypervisor.uri", g.uri),
	))
	defer span.End()

	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	var (
		handoff   sync.Mutex
		abandoned bool
	)

	done := make(chan result[T], 1)

	go func() {
		res := runLocked(g, fn)

		handoff.Lock()
		defer handoff.Unlock()

		if abandoned {
			if res.err == nil && release != nil {
				release(res.value)
			}

			return
		}

		done <- res
	}()

	var zero T

	select {
	case res := <-done:
		if res.err != nil {
			err := toError(res.err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return zero, err
		}

		return res.value, nil
	case <-ctx.Done():
		handoff.Lock()
		abandoned = true

		// the worker may have delivered between ctx expiring and the lock.
		var late *result[T]
		select {
		case res := <-done:
			late = &res
		default:
		}
		handoff.Unlock()

		if late != nil && late.err == nil && release != nil {
			release(late.value)
		}

		err := contextError(op, ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return zero, err
	}
}

// runLocked calls fn under the gateway lock.
func runLocked[T any](g *Gateway, fn func() (T, error)) result[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		var zero T

		return result[T]{zero, &hypervisor.Error{
			Code:    hypervisor.CodeInternal,
			Message: "connection is closed",
		}}
	}

	v, err := fn()

	return result[T]{v, err}
}

// freeDomain releases a domain nobody will use.
func freeDomain(dom *libvirt.Domain) {
	if dom == nil {
		return
	}

	if err := dom.Free(); err != nil {
		slog.Warn("failed to free abandoned domain", "error", err)
	}
}

func contextError(op string, err error) *hypervisor.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &hypervisor.Error{
			Code:    hypervisor.CodeOperationTimeout,
			Message: fmt.Sprintf("%s: %v", op, err),
			Timeout: true,
		}
	}

	return &hypervisor.Error{
		Code:    hypervisor.CodeOperationAborted,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}

// toError converts a libvirt error into a *hypervisor.Error.
func toError(err error) error {
	if herr, ok := hypervisor.AsError(err); ok {
		return herr
	}

	var lerr libvirt.Error
	if errors.As(err, &lerr) {
		return &hypervisor.Error{Code: int(lerr.Code), Message: lerr.Message}
	}

	return &hypervisor.Error{Code: hypervisor.CodeInternal, Message: err.Error()}
}
