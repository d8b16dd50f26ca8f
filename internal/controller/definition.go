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
	"fmt"
	"log/slog"

	"github.com/alexandremahdhaoui/vmagent/internal/availability"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

// ---------------------------------------------------- INTERFACE --------------------------------------------------- //

// Definition registers and removes the agent's machine.
type Definition interface {
	// Define applies a description document. The document's uuid must be the
	// agent identity; otherwise nothing reaches the hypervisor.
	Define(ctx context.Context, document string) error
	// Undefine removes the machine and drops the handle.
	Undefine(ctx context.Context) error
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewDefinition returns a new Definition.
func NewDefinition(agent *AgentContext, notifier Notifier) Definition {
	return &definition{
		agent:     agent,
		announcer: announcer{agent: agent, notifier: notifier},
	}
}

// ---------------------------------------------------- DEFINITION -------------------------------------------------- //

type definition struct {
	agent     *AgentContext
	announcer announcer
}

func (d *definition) Define(ctx context.Context, document string) error {
	id, err := hypervisor.DocumentUUID(document)
	if err != nil {
		return errors.Join(ErrValidation, err)
	}

	if !d.agent.Matches(id) {
		return errors.Join(ErrValidation, fmt.Errorf("%w: got %q, want %q", ErrIdentityMismatch, id, d.agent.ID()))
	}

	defined, err := d.agent.Gateway().Define(ctx, document)
	if err != nil {
		return err
	}

	d.agent.free(ctx, defined)

	if _, ok := d.agent.Machine(); !ok {
		d.bindDefined(ctx)
	}

	d.announcer.completed(ctx, protocol.OpDefine)

	return nil
}

// bindDefined looks up the freshly defined machine and publishes its state,
// the same way the lifecycle controller does at startup.
func (d *definition) bindDefined(ctx context.Context) {
	m, err := d.agent.Gateway().Lookup(ctx, d.agent.ID())
	if err != nil {
		slog.WarnContext(ctx, "failed to look up defined machine", "machine", d.agent.ID(), "error", err)
		d.announcer.publish(ctx, availability.Unreachable)

		return
	}

	if !d.agent.bind(m) {
		d.agent.free(ctx, m)
		return
	}

	if err := d.announcer.observe(ctx, m); err != nil {
		slog.WarnContext(ctx, "failed to read machine state", "machine", d.agent.ID(), "error", err)
	}
}

func (d *definition) Undefine(ctx context.Context) error {
	m, err := d.agent.requireMachine()
	if err != nil {
		return err
	}

	if err := m.Undefine(ctx); err != nil {
		return err
	}

	d.agent.release()
	d.announcer.completed(ctx, protocol.OpUndefine)

	return nil
}
