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

// Package dispatcher routes decoded requests to the lifecycle and definition
// controllers and turns their results into replies.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
	"github.com/alexandremahdhaoui/vmagent/internal/controller"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

const tracerName = "github.com/alexandremahdhaoui/vmagent/internal/dispatcher"

// unmatchedLabel replaces the operation label of unrouted requests.
const unmatchedLabel = "unmatched"

// Outcome tells the driver whether a reply must be sent.
type Outcome int

const (
	// Handled requests carry a reply.
	Handled Outcome = iota
	// NotMatched requests are dropped without reply.
	NotMatched
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}

	return "not-matched"
}

// ---------------------------------------------------- INTERFACE --------------------------------------------------- //

type Dispatcher interface {
	// Dispatch handles one request. Requests are serialized across families.
	Dispatch(ctx context.Context, req protocol.Request) (protocol.Reply, Outcome)
}

// ----------------------------------------------------- OPTIONS ---------------------------------------------------- //

type Option func(*dispatcher)

// WithStrictOperations makes unrecognized operations reply
// feature-not-implemented instead of being dropped.
func WithStrictOperations(strict bool) Option {
	return func(d *dispatcher) { d.strict = strict }
}

// WithRegisterer registers the request metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(d *dispatcher) { d.registerer = reg }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *dispatcher) { d.tracer = tp.Tracer(tracerName) }
}

// WithJournal records every dispatched request in j.
func WithJournal(j adapter.Journal) Option {
	return func(d *dispatcher) { d.journal = j }
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// New returns a Dispatcher serving the control and definition families.
func New(lc controller.Lifecycle, def controller.Definition, opts ...Option) (Dispatcher, error) {
	d := &dispatcher{
		lifecycle:  lc,
		definition: def,
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(d)
	}

	m, err := newMetrics(d.registerer)
	if err != nil {
		return nil, err
	}

	d.metrics = m
	d.routes = d.newRoutes()

	return d, nil
}

// ---------------------------------------------------- DISPATCHER -------------------------------------------------- //

type handlerFunc func(ctx context.Context, req protocol.Request) protocol.Reply

type dispatcher struct {
	lifecycle  controller.Lifecycle
	definition controller.Definition

	strict     bool
	registerer prometheus.Registerer
	tracer     trace.Tracer
	journal    adapter.Journal
	metrics    *metrics

	routes map[protocol.Family]map[protocol.Operation]handlerFunc

	mu sync.Mutex
}

func (d *dispatcher) Dispatch(ctx context.Context, req protocol.Request) (reply protocol.Reply, outcome Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()

	family := req.Family
	if family == "" {
		family, _ = protocol.FamilyForOperation(req.Type)
	}

	handler, routed := d.routes[family][req.Type]

	start := time.Now()
	ctx, span := d.tracer.Start(ctx, fmt.Sprintf("dispatch %s/%s", family, req.Type),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("vmagent.family", string(family)),
			attribute.String("vmagent.operation", string(req.Type)),
		))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "recovered from panic while handling request",
				"family", family, "operation", req.Type, "panic", r)

			reply = protocol.Failure(protocol.CodeInternalServerError, fmt.Sprintf("panic: %v", r))
			outcome = Handled
		}

		d.observe(ctx, span, family, req.Type, routed, start, reply, outcome)
	}()

	if !routed {
		if !d.strict {
			return protocol.Reply{}, NotMatched
		}

		return protocol.Failure(protocol.CodeFeatureNotImplemented,
			fmt.Sprintf("operation %q is not implemented in family %q", req.Type, family)), Handled
	}

	return handler(ctx, req), Handled
}

func (d *dispatcher) observe(
	ctx context.Context,
	span trace.Span,
	family protocol.Family,
	op protocol.Operation,
	routed bool,
	start time.Time,
	reply protocol.Reply,
	outcome Outcome,
) {
	elapsed := time.Since(start)

	result := adapter.JobSuccess
	errorCode := ""

	switch {
	case outcome == NotMatched:
		result = adapter.JobIgnored
	case reply.Error != nil:
		result = adapter.JobError
		errorCode = reply.Error.Code
		span.SetStatus(codes.Error, reply.Error.Message)
		span.SetAttributes(attribute.String("vmagent.error_code", errorCode))
	}

	opLabel := string(op)
	if !routed {
		opLabel = unmatchedLabel
	}

	d.metrics.requests.WithLabelValues(string(family), opLabel, result).Inc()
	d.metrics.duration.WithLabelValues(string(family), opLabel).Observe(elapsed.Seconds())

	if outcome == NotMatched {
		slog.DebugContext(ctx, "dropping unrecognized request", "family", family, "operation", op)
	} else {
		slog.InfoContext(ctx, "handled request",
			"family", family, "operation", op, "outcome", result, "code", errorCode, "duration", elapsed)
	}

	if d.journal == nil {
		return
	}

	if err := d.journal.Append(ctx, adapter.Job{
		Family:    family,
		Operation: op,
		Outcome:   result,
		ErrorCode: errorCode,
		StartedAt: start,
		Duration:  elapsed,
	}); err != nil {
		slog.WarnContext(ctx, "failed to record job", "operation", op, "error", err)
	}
}

// ------------------------------------------------------ ROUTES ---------------------------------------------------- //

func (d *dispatcher) newRoutes() map[protocol.Family]map[protocol.Operation]handlerFunc {
	return map[protocol.Family]map[protocol.Operation]handlerFunc{
		protocol.FamilyControl: {
			protocol.OpInfo:       d.info,
			protocol.OpCreate:     d.create,
			protocol.OpShutdown:   d.command(d.lifecycle.Shutdown),
			protocol.OpReboot:     d.command(d.lifecycle.Reboot),
			protocol.OpSuspend:    d.command(d.lifecycle.Suspend),
			protocol.OpResume:     d.command(d.lifecycle.Resume),
			protocol.OpVNCDisplay: d.console,
			protocol.OpXMLDesc:    d.describe,
		},
		protocol.FamilyDefinition: {
			protocol.OpDefine:   d.define,
			protocol.OpUndefine: d.command(d.definition.Undefine),
		},
	}
}

func (d *dispatcher) command(fn func(ctx context.Context) error) handlerFunc {
	return func(ctx context.Context, _ protocol.Request) protocol.Reply {
		return replyFor(nil, fn(ctx))
	}
}

func (d *dispatcher) info(ctx context.Context, _ protocol.Request) protocol.Reply {
	info, err := d.lifecycle.Info(ctx)
	if err != nil {
		return ErrorReply(err)
	}

	return protocol.Success(infoResult(info))
}

func (d *dispatcher) create(ctx context.Context, _ protocol.Request) protocol.Reply {
	id, err := d.lifecycle.Create(ctx)
	if err != nil {
		return ErrorReply(err)
	}

	return protocol.Success(protocol.CreateResult{ID: id})
}

func (d *dispatcher) console(ctx context.Context, _ protocol.Request) protocol.Reply {
	return replyFor(d.lifecycle.Console(ctx))
}

func (d *dispatcher) describe(ctx context.Context, _ protocol.Request) protocol.Reply {
	doc, err := d.lifecycle.Describe(ctx)
	if err != nil {
		return ErrorReply(err)
	}

	return protocol.Success(protocol.DocumentResult{Document: doc})
}

func (d *dispatcher) define(ctx context.Context, req protocol.Request) protocol.Reply {
	return replyFor(nil, d.definition.Define(ctx, req.Payload))
}
