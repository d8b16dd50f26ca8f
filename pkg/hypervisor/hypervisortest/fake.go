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

// Package hypervisortest provides an in-memory hypervisor.Gateway that
// enforces the same state transitions as libvirt.
package hypervisortest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
)

// Operation names accepted by FailOn and Calls.
const (
	OpLookup   = "lookup"
	OpDefine   = "define"
	OpCreate   = "create"
	OpShutdown = "shutdown"
	OpReboot   = "reboot"
	OpSuspend  = "suspend"
	OpResume   = "resume"
	OpInfo     = "info"
	OpDescribe = "describe"
	OpUndefine = "undefine"
	OpFree     = "free"
)

var _ hypervisor.Gateway = &Gateway{}

type record struct {
	document  string
	state     hypervisor.RunState
	domID     uint
	maxMemKiB uint64
	vcpus     uint
}

// Gateway is an in-memory hypervisor.
type Gateway struct {
	mu       sync.Mutex
	machines map[string]*record
	failures map[string]*hypervisor.Error
	calls    map[string]int
	nextID   uint
	closed   bool
}

// New returns an empty Gateway.
func New() *Gateway {
	return &Gateway{
		machines: make(map[string]*record),
		failures: make(map[string]*hypervisor.Error),
		calls:    make(map[string]int),
		nextID:   1,
	}
}

// Seed registers a machine in the given state without counting a call.
func (g *Gateway) Seed(document string, state hypervisor.RunState) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, err := newRecord(document)
	if err != nil {
		return err
	}

	rec.state = state
	if state == hypervisor.StateRunning || state == hypervisor.StatePaused {
		rec.domID = g.nextID
		g.nextID++
	}

	id, _ := hypervisor.DocumentUUID(document)
	g.machines[key(id)] = rec

	return nil
}

// FailOn makes every subsequent call of op fail with err. A nil err clears it.
func (g *Gateway) FailOn(op string, err *hypervisor.Error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err == nil {
		delete(g.failures, op)
		return
	}

	g.failures[op] = err
}

// Calls returns how many times op was invoked, failed calls included.
func (g *Gateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls[op]
}

// State returns the run-state of a registered machine.
func (g *Gateway) State(id string) (hypervisor.RunState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.machines[key(id)]
	if !ok {
		return hypervisor.StateNoState, false
	}

	return rec.state, true
}

// Closed reports whether Close was called.
func (g *Gateway) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.closed
}

// Lookup implements hypervisor.Gateway.
func (g *Gateway) Lookup(_ context.Context, id string) (hypervisor.Machine, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpLookup); err != nil {
		return nil, err
	}

	if _, ok := g.machines[key(id)]; !ok {
		return nil, notFound(id)
	}

	return &machine{gw: g, id: key(id)}, nil
}

// Define implements hypervisor.Gateway.
func (g *Gateway) Define(_ context.Context, document string) (hypervisor.Machine, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.enter(OpDefine); err != nil {
		return nil, err
	}

	rec, err := newRecord(document)
	if err != nil {
		return nil, err
	}

	id, _ := hypervisor.DocumentUUID(document)
	if existing, ok := g.machines[key(id)]; ok {
		existing.document = document
		existing.maxMemKiB = rec.maxMemKiB
		existing.vcpus = rec.vcpus
	} else {
		g.machines[key(id)] = rec
	}

	return &machine{gw: g, id: key(id)}, nil
}

// Close implements hypervisor.Gateway.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true

	return nil
}

// enter counts the call and returns the configured failure, if any. It must
// be called with g.mu held.
func (g *Gateway) enter(op string) error {
	g.calls[op]++

	if g.closed {
		return &hypervisor.Error{Code: hypervisor.CodeInternal, Message: "connection is closed"}
	}

	if err, ok := g.failures[op]; ok {
		return &hypervisor.Error{Code: err.Code, Message: err.Message, Timeout: err.Timeout}
	}

	return nil
}

type machine struct {
	gw *Gateway
	id string
}

// transition runs op against the record, holding the gateway lock.
func (m *machine) transition(op string, fn func(rec *record) error) error {
	m.gw.mu.Lock()
	defer m.gw.mu.Unlock()

	if err := m.gw.enter(op); err != nil {
		return err
	}

	rec, ok := m.gw.machines[m.id]
	if !ok {
		return notFound(m.id)
	}

	return fn(rec)
}

func (m *machine) Create(_ context.Context) (uint, error) {
	var domID uint

	err := m.transition(OpCreate, func(rec *record) error {
		if rec.state == hypervisor.StateRunning || rec.state == hypervisor.StatePaused {
			return invalid("domain is already running")
		}

		rec.state = hypervisor.StateRunning
		rec.domID = m.gw.nextID
		m.gw.nextID++
		domID = rec.domID

		return nil
	})

	return domID, err
}

func (m *machine) Shutdown(_ context.Context) error {
	return m.transition(OpShutdown, func(rec *record) error {
		if rec.state != hypervisor.StateRunning && rec.state != hypervisor.StatePaused {
			return invalid("domain is not running")
		}

		rec.state = hypervisor.StateShutoff
		rec.domID = 0

		return nil
	})
}

func (m *machine) Reboot(_ context.Context) error {
	return m.transition(OpReboot, func(rec *record) error {
		if rec.state != hypervisor.StateRunning {
			return invalid("domain is not running")
		}

		return nil
	})
}

func (m *machine) Suspend(_ context.Context) error {
	return m.transition(OpSuspend, func(rec *record) error {
		if rec.state != hypervisor.StateRunning {
			return invalid("domain is not running")
		}

		rec.state = hypervisor.StatePaused

		return nil
	})
}

func (m *machine) Resume(_ context.Context) error {
	return m.transition(OpResume, func(rec *record) error {
		if rec.state != hypervisor.StatePaused {
			return invalid("domain is not paused")
		}

		rec.state = hypervisor.StateRunning

		return nil
	})
}

func (m *machine) Info(_ context.Context) (hypervisor.RuntimeInfo, error) {
	var info hypervisor.RuntimeInfo

	err := m.transition(OpInfo, func(rec *record) error {
		info = hypervisor.RuntimeInfo{
			State:     rec.state,
			MaxMemKiB: rec.maxMemKiB,
			VCPUs:     rec.vcpus,
		}
		if rec.state == hypervisor.StateRunning || rec.state == hypervisor.StatePaused {
			info.MemoryKiB = rec.maxMemKiB
		}

		return nil
	})

	return info, err
}

func (m *machine) Describe(_ context.Context) (string, error) {
	var doc string

	err := m.transition(OpDescribe, func(rec *record) error {
		doc = rec.document
		return nil
	})

	return doc, err
}

func (m *machine) Undefine(_ context.Context) error {
	return m.transition(OpUndefine, func(_ *record) error {
		delete(m.gw.machines, m.id)
		return nil
	})
}

func (m *machine) Free() error {
	m.gw.mu.Lock()
	defer m.gw.mu.Unlock()

	m.gw.calls[OpFree]++

	return nil
}

func newRecord(document string) (*record, error) {
	if _, err := hypervisor.DocumentUUID(document); err != nil {
		return nil, &hypervisor.Error{Code: hypervisor.CodeXMLError, Message: err.Error()}
	}

	domain, _ := hypervisor.ParseDocument(document)
	rec := &record{document: document, state: hypervisor.StateShutoff}

	if domain.Memory != nil {
		rec.maxMemKiB = toKiB(uint64(domain.Memory.Value), domain.Memory.Unit)
	}

	if domain.VCPU != nil {
		rec.vcpus = domain.VCPU.Value
	}

	return rec, nil
}

func toKiB(v uint64, unit string) uint64 {
	switch strings.ToLower(unit) {
	case "b", "bytes":
		return v / 1024
	case "m", "mib":
		return v * 1024
	case "g", "gib":
		return v * 1024 * 1024
	default:
		return v
	}
}

func key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func notFound(id string) *hypervisor.Error {
	return &hypervisor.Error{
		Code:    hypervisor.CodeNoDomain,
		Message: fmt.Sprintf("Domain not found: no domain with matching uuid '%s'", id),
	}
}

func invalid(msg string) *hypervisor.Error {
	return &hypervisor.Error{
		Code:    hypervisor.CodeOperationInvalid,
		Message: "Requested operation is not valid: " + msg,
	}
}
