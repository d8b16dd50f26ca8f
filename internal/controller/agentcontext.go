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
	"sync"

	"github.com/google/uuid"

	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
)

var ErrInvalidIdentity = errors.New("invalid machine identity")

// AgentContext is the state shared by the components of one agent. It owns
// the gateway and the optional machine handle.
type AgentContext struct {
	id      uuid.UUID
	address string
	workDir string
	gateway hypervisor.Gateway

	mu      sync.Mutex
	machine hypervisor.Machine
}

// NewAgentContext returns an AgentContext bound to the machine id.
func NewAgentContext(id, address, workDir string, gateway hypervisor.Gateway) (*AgentContext, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %q", ErrInvalidIdentity, id), err)
	}

	return &AgentContext{
		id:      parsed,
		address: address,
		workDir: workDir,
		gateway: gateway,
	}, nil
}

// ID returns the canonical machine identity.
func (a *AgentContext) ID() string {
	return a.id.String()
}

// Address returns the host advertised for console access.
func (a *AgentContext) Address() string {
	return a.address
}

// WorkDir returns the agent's working directory.
func (a *AgentContext) WorkDir() string {
	return a.workDir
}

// Gateway returns the hypervisor gateway.
func (a *AgentContext) Gateway() hypervisor.Gateway {
	return a.gateway
}

// Matches reports whether id denotes the agent's machine, regardless of case
// or formatting.
func (a *AgentContext) Matches(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}

	return parsed == a.id
}

// Machine returns the bound machine handle.
func (a *AgentContext) Machine() (hypervisor.Machine, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.machine, a.machine != nil
}

func (a *AgentContext) requireMachine() (hypervisor.Machine, error) {
	m, ok := a.Machine()
	if !ok {
		return nil, ErrNoMachine
	}

	return m, nil
}

// bind sets the handle unless one is already bound. It reports whether m was
// kept; the caller frees it otherwise.
func (a *AgentContext) bind(m hypervisor.Machine) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.machine != nil {
		return false
	}

	a.machine = m

	return true
}

// release drops and frees the handle.
func (a *AgentContext) release() {
	a.mu.Lock()
	m := a.machine
	a.machine = nil
	a.mu.Unlock()

	if m == nil {
		return
	}

	a.free(context.Background(), m)
}

// free releases a handle the agent does not keep.
func (a *AgentContext) free(ctx context.Context, m hypervisor.Machine) {
	if err := m.Free(); err != nil {
		slog.WarnContext(ctx, "failed to free machine handle", "machine", a.ID(), "error", err)
	}
}

// Close frees the handle and closes the gateway.
func (a *AgentContext) Close() error {
	a.release()

	return a.gateway.Close()
}
