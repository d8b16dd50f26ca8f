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

// ---------------------------------------------------- INTERFACE --------------------------------------------------- //

// Lifecycle drives the run-state of the agent's machine. Preconditions on the
// run-state are enforced by the hypervisor, whose errors are returned as is.
type Lifecycle interface {
	// Start binds the machine handle and publishes the initial signal.
	Start(ctx context.Context) error

	Info(ctx context.Context) (hypervisor.RuntimeInfo, error)
	Create(ctx context.Context) (uint, error)
	Shutdown(ctx context.Context) error
	Reboot(ctx context.Context) error
	Suspend(ctx context.Context) error
	Resume(ctx context.Context) error
	// Console returns the graphics port of the machine and the agent address.
	Console(ctx context.Context) (protocol.ConsoleResult, error)
	// Describe returns the current description document.
	Describe(ctx context.Context) (string, error)
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewLifecycle returns a new Lifecycle.
func NewLifecycle(agent *AgentContext, notifier Notifier) Lifecycle {
	return &lifecycle{
		agent:     agent,
		announcer: announcer{agent: agent, notifier: notifier},
	}
}

// ---------------------------------------------------- LIFECYCLE --------------------------------------------------- //

type lifecycle struct {
	agent     *AgentContext
	announcer announcer
}

func (l *lifecycle) Start(ctx context.Context) error {
	m, err := l.agent.Gateway().Lookup(ctx, l.agent.ID())
	if err != nil {
		if _, ok := hypervisor.AsError(err); !ok {
			return errors.Join(err, ErrStart)
		}

		slog.WarnContext(ctx, "machine is not reachable", "machine", l.agent.ID(), "error", err)
		l.announcer.publish(ctx, availability.Unreachable)

		return nil
	}

	if !l.agent.bind(m) {
		l.agent.free(ctx, m)
		m, _ = l.agent.Machine()
	}

	if err := l.announcer.observe(ctx, m); err != nil {
		if _, ok := hypervisor.AsError(err); !ok {
			return errors.Join(err, ErrStart)
		}

		slog.WarnContext(ctx, "failed to read machine state", "machine", l.agent.ID(), "error", err)
	}

	return nil
}

func (l *lifecycle) Info(ctx context.Context) (hypervisor.RuntimeInfo, error) {
	m, err := l.agent.requireMachine()
	if err != nil {
		return hypervisor.RuntimeInfo{}, err
	}

	return m.Info(ctx)
}

func (l *lifecycle) Create(ctx context.Context) (uint, error) {
	m, err := l.agent.requireMachine()
	if err != nil {
		return 0, err
	}

	id, err := m.Create(ctx)
	if err != nil {
		return 0, err
	}

	l.announcer.completed(ctx, protocol.OpCreate)

	return id, nil
}

func (l *lifecycle) Shutdown(ctx context.Context) error {
	return l.transition(ctx, protocol.OpShutdown, hypervisor.Machine.Shutdown)
}

func (l *lifecycle) Reboot(ctx context.Context) error {
	return l.transition(ctx, protocol.OpReboot, hypervisor.Machine.Reboot)
}

func (l *lifecycle) Suspend(ctx context.Context) error {
	return l.transition(ctx, protocol.OpSuspend, hypervisor.Machine.Suspend)
}

func (l *lifecycle) Resume(ctx context.Context) error {
	return l.transition(ctx, protocol.OpResume, hypervisor.Machine.Resume)
}

func (l *lifecycle) transition(
	ctx context.Context,
	op protocol.Operation,
	call func(hypervisor.Machine, context.Context) error,
) error {
	m, err := l.agent.requireMachine()
	if err != nil {
		return err
	}

	if err := call(m, ctx); err != nil {
		return err
	}

	l.announcer.completed(ctx, op)

	return nil
}

func (l *lifecycle) Console(ctx context.Context) (protocol.ConsoleResult, error) {
	doc, err := l.Describe(ctx)
	if err != nil {
		return protocol.ConsoleResult{}, err
	}

	port, err := hypervisor.GraphicsPort(doc)
	if err != nil {
		return protocol.ConsoleResult{}, errors.Join(ErrNoConsole, err)
	}

	return protocol.ConsoleResult{Port: port, Host: l.agent.Address()}, nil
}

func (l *lifecycle) Describe(ctx context.Context) (string, error) {
	m, err := l.agent.requireMachine()
	if err != nil {
		return "", err
	}

	return m.Describe(ctx)
}
