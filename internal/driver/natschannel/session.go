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

// Package natschannel connects an agent to its control channel. It serves the
// request subjects of the agent and publishes presence and change events.
package natschannel

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alexandremahdhaoui/vmagent/internal/availability"
	"github.com/alexandremahdhaoui/vmagent/internal/dispatcher"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

const DefaultReconnectWait = 2 * time.Second

var (
	ErrConnect        = errors.New("connecting to control channel")
	ErrRegister       = errors.New("registering request handler")
	ErrPublish        = errors.New("publishing on control channel")
	ErrSessionClosed  = errors.New("session is closed")
	ErrUnknownFamily  = errors.New("unknown request family")
	errMalformedInput = errors.New("malformed request")
)

type Config struct {
	URL  string
	Name string
	// CredentialsFile is a NATS user credentials file. Optional.
	CredentialsFile string
	SubjectPrefix   string
	// TLS enables TLS toward the server when non-nil.
	TLS           *tls.Config
	ReconnectWait time.Duration
}

// Session is the agent's connection to the control channel. It implements
// controller.Notifier.
type Session struct {
	// ctx is the parent of every request context.
	ctx       context.Context
	nc        *nats.Conn
	machineID string
	subjects  protocol.Subjects

	mu     sync.Mutex
	subs   map[protocol.Family]*nats.Subscription
	closed bool

	closedCh chan struct{}
	now      func() time.Time
}

// Connect opens a session for the agent bound to machineID. Requests are
// handled with contexts derived from ctx.
func Connect(ctx context.Context, cfg Config, machineID string) (*Session, error) {
	s := &Session{
		ctx:       ctx,
		machineID: machineID,
		subjects:  protocol.SubjectsFor(cfg.SubjectPrefix, machineID),
		subs:      make(map[protocol.Family]*nats.Subscription),
		closedCh:  make(chan struct{}),
		now:       time.Now,
	}

	reconnectWait := cfg.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = DefaultReconnectWait
	}

	name := cfg.Name
	if name == "" {
		name = "vmagent-" + machineID
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.WarnContext(ctx, "control channel disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "control channel reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			close(s.closedCh)
		}),
	}

	if cfg.CredentialsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredentialsFile))
	}

	if cfg.TLS != nil {
		opts = append(opts, nats.Secure(cfg.TLS))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Join(err, ErrConnect)
	}

	s.nc = nc

	slog.InfoContext(ctx, "connected to control channel",
		"url", nc.ConnectedUrl(), "control", s.subjects.Control, "definition", s.subjects.Definition)

	return s, nil
}

// Subjects returns the subjects served and published by the session.
func (s *Session) Subjects() protocol.Subjects {
	return s.subjects
}

// Connected reports whether the underlying connection is currently up.
func (s *Session) Connected() bool {
	return s.nc.IsConnected()
}

// ---------------------------------------------------- REQUESTS ---------------------------------------------------- //

// Register serves the request subject of family with d. Each family can be
// registered once.
func (s *Session) Register(family protocol.Family, d dispatcher.Dispatcher) error {
	subject, ok := s.subjects.ForFamily(family)
	if !ok {
		return errors.Join(fmt.Errorf("%w: %q", ErrUnknownFamily, family), ErrRegister)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Join(ErrSessionClosed, ErrRegister)
	}

	if _, exists := s.subs[family]; exists {
		return errors.Join(fmt.Errorf("family %q is already registered", family), ErrRegister)
	}

	sub, err := s.nc.QueueSubscribe(subject, s.subjects.Queue, s.handler(family, d))
	if err != nil {
		return errors.Join(err, ErrRegister)
	}

	s.subs[family] = sub

	return nil
}

func (s *Session) handler(family protocol.Family, d dispatcher.Dispatcher) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx := s.ctx

		codec, err := protocol.CodecFor(msg.Header.Get(protocol.ContentTypeHeader))
		if err != nil {
			s.respond(ctx, msg, protocol.JSON, protocol.Failure(protocol.CodeBadRequest, err.Error()))
			return
		}

		req, err := decodeRequest(codec, msg.Data)
		if err != nil {
			s.respond(ctx, msg, codec, protocol.Failure(protocol.CodeBadRequest, err.Error()))
			return
		}

		// the subject decides the family, whatever the envelope says.
		req.Family = family

		reply, outcome := d.Dispatch(ctx, req)
		if outcome == dispatcher.NotMatched {
			return
		}

		s.respond(ctx, msg, codec, reply)
	}
}

func decodeRequest(codec protocol.Codec, data []byte) (protocol.Request, error) {
	var req protocol.Request
	if err := codec.Unmarshal(data, &req); err != nil {
		return protocol.Request{}, fmt.Errorf("%w: %w", errMalformedInput, err)
	}

	if req.Type == "" {
		return protocol.Request{}, fmt.Errorf("%w: missing type", errMalformedInput)
	}

	return req, nil
}

func (s *Session) respond(ctx context.Context, msg *nats.Msg, codec protocol.Codec, reply protocol.Reply) {
	if msg.Reply == "" {
		slog.DebugContext(ctx, "request has no reply subject", "subject", msg.Subject)
		return
	}

	data, err := codec.Marshal(reply)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode reply", "subject", msg.Subject, "error", err)

		data, err = codec.Marshal(protocol.Failure(protocol.CodeInternalServerError, "cannot encode reply"))
		if err != nil {
			return
		}
	}

	out := nats.NewMsg(msg.Reply)
	out.Header.Set(protocol.ContentTypeHeader, codec.ContentType())
	out.Data = data

	if err := msg.RespondMsg(out); err != nil {
		slog.ErrorContext(ctx, "failed to send reply", "subject", msg.Subject, "error", err)
	}
}

// --------------------------------------------------- BROADCASTS --------------------------------------------------- //

// ChangePresence publishes signal on the presence subject.
func (s *Session) ChangePresence(_ context.Context, signal availability.Signal) error {
	return s.publish(s.subjects.Presence, protocol.PresenceMessage{
		Presence: signal.Presence,
		Status:   signal.Status,
		Machine:  s.machineID,
		Time:     s.now().UTC(),
	})
}

// PushChange publishes event on the events subject.
func (s *Session) PushChange(_ context.Context, event protocol.Event) error {
	return s.publish(s.subjects.Events, protocol.EventMessage{
		Event:   event,
		Machine: s.machineID,
		Time:    s.now().UTC(),
	})
}

func (s *Session) publish(subject string, v any) error {
	data, err := protocol.JSON.Marshal(v)
	if err != nil {
		return errors.Join(err, ErrPublish)
	}

	msg := nats.NewMsg(subject)
	msg.Header.Set(protocol.ContentTypeHeader, protocol.ContentTypeJSON)
	msg.Data = data

	if err := s.nc.PublishMsg(msg); err != nil {
		return errors.Join(err, ErrPublish)
	}

	return nil
}

// ------------------------------------------------------ CLOSE ----------------------------------------------------- //

// Close announces the agent offline, then drains the subscriptions and the
// connection. It waits for the drain until ctx is done, then closes the
// connection. Close is idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	s.mu.Unlock()

	var errs []error

	if err := s.ChangePresence(ctx, availability.Offline); err != nil {
		errs = append(errs, err)
	}

	if err := s.nc.Drain(); err != nil {
		errs = append(errs, err)
		s.nc.Close()
	}

	select {
	case <-s.closedCh:
	case <-ctx.Done():
		s.nc.Close()
		errs = append(errs, fmt.Errorf("draining control channel: %w", ctx.Err()))
	}

	return errors.Join(errs...)
}
