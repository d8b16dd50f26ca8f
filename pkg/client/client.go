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

// Package client sends control requests to a vmagent and watches its
// broadcasts.
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrConnect = errors.New("connecting to control channel")
	// ErrNoReply is returned when the agent does not answer in time. Agents
	// drop operations they do not recognize, so this is also what an
	// unsupported operation looks like.
	ErrNoReply     = errors.New("no reply from agent")
	ErrRequest     = errors.New("sending request")
	ErrDecodeReply = errors.New("decoding reply")
	ErrWatch       = errors.New("watching agent")
)

// ReplyError is an error reply from the agent.
type ReplyError struct {
	Code    string
	Message string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("agent replied with error %s: %s", e.Code, e.Message)
}

// HypervisorCode returns the hypervisor error code carried by the reply, if
// the failure came from the hypervisor.
func (e *ReplyError) HypervisorCode() (int, bool) {
	code, err := strconv.Atoi(e.Code)
	return code, err == nil
}

// ----------------------------------------------------- OPTIONS ---------------------------------------------------- //

type Option func(*Client)

// WithCodec selects the request encoding. Replies use the same encoding.
func WithCodec(codec protocol.Codec) Option {
	return func(c *Client) { c.codec = codec }
}

// WithTimeout bounds requests whose context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithSubjectPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = prefix }
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

type Client struct {
	nc       *nats.Conn
	ownsConn bool
	prefix   string
	subjects protocol.Subjects
	codec    protocol.Codec
	timeout  time.Duration
}

// New returns a client for the agent bound to machineID, over an existing
// connection. Close does not close nc.
func New(nc *nats.Conn, machineID string, opts ...Option) *Client {
	c := &Client{
		nc:      nc,
		codec:   protocol.JSON,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.subjects = protocol.SubjectsFor(c.prefix, machineID)

	return c
}

// Connect dials url and returns a client owning the connection.
func Connect(url, machineID string, natsOpts []nats.Option, opts ...Option) (*Client, error) {
	nc, err := nats.Connect(url, natsOpts...)
	if err != nil {
		return nil, errors.Join(err, ErrConnect)
	}

	c := New(nc, machineID, opts...)
	c.ownsConn = true

	return c, nil
}

func (c *Client) Subjects() protocol.Subjects {
	return c.subjects
}

func (c *Client) Close() {
	if c.ownsConn {
		c.nc.Close()
	}
}

// ---------------------------------------------------- REQUESTS ---------------------------------------------------- //

func (c *Client) Info(ctx context.Context) (protocol.InfoResult, error) {
	return call[protocol.InfoResult](ctx, c, protocol.Request{Type: protocol.OpInfo})
}

// Create starts the machine and returns its hypervisor id.
func (c *Client) Create(ctx context.Context) (uint, error) {
	res, err := call[protocol.CreateResult](ctx, c, protocol.Request{Type: protocol.OpCreate})
	return res.ID, err
}

func (c *Client) Shutdown(ctx context.Context) error { return c.command(ctx, protocol.OpShutdown) }

func (c *Client) Reboot(ctx context.Context) error { return c.command(ctx, protocol.OpReboot) }

func (c *Client) Suspend(ctx context.Context) error { return c.command(ctx, protocol.OpSuspend) }

func (c *Client) Resume(ctx context.Context) error { return c.command(ctx, protocol.OpResume) }

func (c *Client) VNCDisplay(ctx context.Context) (protocol.ConsoleResult, error) {
	return call[protocol.ConsoleResult](ctx, c, protocol.Request{Type: protocol.OpVNCDisplay})
}

func (c *Client) XMLDesc(ctx context.Context) (string, error) {
	res, err := call[protocol.DocumentResult](ctx, c, protocol.Request{Type: protocol.OpXMLDesc})
	return res.Document, err
}

func (c *Client) Define(ctx context.Context, document string) error {
	_, err := call[struct{}](ctx, c, protocol.Request{Type: protocol.OpDefine, Payload: document})
	return err
}

func (c *Client) Undefine(ctx context.Context) error { return c.command(ctx, protocol.OpUndefine) }

func (c *Client) command(ctx context.Context, op protocol.Operation) error {
	_, err := call[struct{}](ctx, c, protocol.Request{Type: op})
	return err
}

// Do sends req on the subject of its family and returns the raw reply. The
// family is derived from the operation when req does not carry one.
func (c *Client) Do(ctx context.Context, req protocol.Request) (*nats.Msg, error) {
	family := req.Family
	if family == "" {
		family, _ = protocol.FamilyForOperation(req.Type)
	}

	subject, ok := c.subjects.ForFamily(family)
	if !ok {
		return nil, errors.Join(fmt.Errorf("unknown family for operation %q", req.Type), ErrRequest)
	}

	data, err := c.codec.Marshal(req)
	if err != nil {
		return nil, errors.Join(err, ErrRequest)
	}

	msg := nats.NewMsg(subject)
	msg.Header.Set(protocol.ContentTypeHeader, c.codec.ContentType())
	msg.Data = data

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.nc.RequestMsgWithContext(ctx, msg)
	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, nats.ErrTimeout), errors.Is(err, nats.ErrNoResponders):
		return nil, errors.Join(err, ErrNoReply)
	default:
		return nil, errors.Join(err, ErrRequest)
	}
}

func call[T any](ctx context.Context, c *Client, req protocol.Request) (T, error) {
	var zero T

	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	codec, err := protocol.CodecFor(resp.Header.Get(protocol.ContentTypeHeader))
	if err != nil {
		return zero, errors.Join(err, ErrDecodeReply)
	}

	var reply protocol.TypedReply[T]
	if err := codec.Unmarshal(resp.Data, &reply); err != nil {
		return zero, errors.Join(err, ErrDecodeReply)
	}

	if reply.Outcome == protocol.OutcomeError || reply.Error != nil {
		if reply.Error == nil {
			return zero, &ReplyError{Code: protocol.CodeInternalServerError}
		}

		return zero, &ReplyError{Code: reply.Error.Code, Message: reply.Error.Message}
	}

	return reply.Result, nil
}

// ----------------------------------------------------- WATCH ------------------------------------------------------ //

// Notification is one broadcast from the agent. Exactly one field is set.
type Notification struct {
	Presence *protocol.PresenceMessage
	Event    *protocol.EventMessage
}

// Watch calls fn for every presence change and event until ctx is done.
func (c *Client) Watch(ctx context.Context, fn func(Notification)) error {
	ch := make(chan *nats.Msg, 64)

	var subs []*nats.Subscription
	defer func() {
		for _, sub := range subs {
			_ = sub.Unsubscribe()
		}
	}()

	for _, subject := range []string{c.subjects.Presence, c.subjects.Events} {
		sub, err := c.nc.ChanSubscribe(subject, ch)
		if err != nil {
			return errors.Join(err, ErrWatch)
		}

		subs = append(subs, sub)
	}

	// FlushWithContext needs a deadline; ctx usually only carries cancellation.
	flushCtx, cancel := context.WithTimeout(ctx, c.timeout)
	err := c.nc.FlushWithContext(flushCtx)
	cancel()

	if err != nil {
		return errors.Join(err, ErrWatch)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			n, err := decodeNotification(c.subjects, msg)
			if err != nil {
				return errors.Join(err, ErrWatch)
			}

			fn(n)
		}
	}
}

func decodeNotification(subjects protocol.Subjects, msg *nats.Msg) (Notification, error) {
	codec, err := protocol.CodecFor(msg.Header.Get(protocol.ContentTypeHeader))
	if err != nil {
		return Notification{}, err
	}

	if msg.Subject == subjects.Presence {
		var p protocol.PresenceMessage
		if err := codec.Unmarshal(msg.Data, &p); err != nil {
			return Notification{}, err
		}

		return Notification{Presence: &p}, nil
	}

	var e protocol.EventMessage
	if err := codec.Unmarshal(msg.Data, &e); err != nil {
		return Notification{}, err
	}

	return Notification{Event: &e}, nil
}
