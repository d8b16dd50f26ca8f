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

package controller

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexandremahdhaoui/vmagent/internal/availability"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNoMachine        = errors.New("no machine is defined")
	ErrNoConsole        = errors.New("machine has no console")
	ErrIdentityMismatch = errors.New("document uuid does not match agent identity")
	ErrStart            = errors.New("starting lifecycle controller")
)

// ---------------------------------------------------- INTERFACE --------------------------------------------------- //

// Notifier broadcasts state changes to the control channel.
type Notifier interface {
	// ChangePresence publishes a new availability signal.
	ChangePresence(ctx context.Context, signal availability.Signal) error
	// PushChange publishes a change event.
	PushChange(ctx context.Context, event protocol.Event) error
}

// ---------------------------------------------------- ANNOUNCER --------------------------------------------------- //

// announcer publishes signals and events on behalf of the controllers.
// Publishing failures are logged and never fail the operation.
type announcer struct {
	agent    *AgentContext
	notifier Notifier
}

func (a announcer) publish(ctx context.Context, signal availability.Signal) {
	if signal.IsZero() {
		return
	}

	if err := a.notifier.ChangePresence(ctx, signal); err != nil {
		slog.WarnContext(ctx, "failed to publish presence",
			"machine", a.agent.ID(),
			"presence", signal.Presence,
			"status", signal.Status,
			"error", err,
		)
	}
}

func (a announcer) push(ctx context.Context, event protocol.Event) {
	if err := a.notifier.PushChange(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to push change event",
			"machine", a.agent.ID(),
			"event", event,
			"error", err,
		)
	}
}

// completed announces a successful operation.
func (a announcer) completed(ctx context.Context, op protocol.Operation) {
	signal, event, ok := availability.AfterOperation(op)
	if !ok {
		return
	}

	a.publish(ctx, signal)
	a.push(ctx, event)

	slog.InfoContext(ctx, "operation completed", "machine", a.agent.ID(), "operation", op, "event", event)
}

// observe reads the machine state and publishes the matching startup signal.
// Hypervisor failures publish the unreachable signal.
func (a announcer) observe(ctx context.Context, m hypervisor.Machine) error {
	info, err := m.Info(ctx)
	if err != nil {
		a.publish(ctx, availability.Unreachable)
		return err
	}

	if signal, ok := availability.ForState(info.State); ok {
		a.publish(ctx, signal)
	}

	slog.InfoContext(ctx, "machine observed", "machine", a.agent.ID(), "state", info.State.String())

	return nil
}
