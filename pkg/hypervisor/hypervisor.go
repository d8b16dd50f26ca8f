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

// Package hypervisor defines the contract between the agent and the local
// virtualization layer. It contains no cgo: the libvirt-backed
// implementation lives in pkg/vmm and an in-memory implementation lives in
// pkg/hypervisor/hypervisortest.
package hypervisor

import "context"

// Gateway is a synchronous facade over one hypervisor connection.
//
// Every fallible method returns a *Error. Implementations must not retry.
type Gateway interface {
	// Lookup returns the machine registered under the given UUID.
	Lookup(ctx context.Context, id string) (Machine, error)
	// Define registers (or updates) a machine from a description document.
	Define(ctx context.Context, document string) (Machine, error)
	// Close releases the underlying connection.
	Close() error
}

// Machine is a handle on a single registered machine.
type Machine interface {
	// Create boots a defined machine and returns the id assigned by the hypervisor.
	Create(ctx context.Context) (uint, error)
	Shutdown(ctx context.Context) error
	Reboot(ctx context.Context) error
	Suspend(ctx context.Context) error
	Resume(ctx context.Context) error
	Info(ctx context.Context) (RuntimeInfo, error)
	// Describe returns the current description document.
	Describe(ctx context.Context) (string, error)
	Undefine(ctx context.Context) error
	// Free releases the handle. The machine itself is left untouched.
	Free() error
}

// RunState is the run-state reported by the hypervisor. The numeric values
// match libvirt's virDomainState.
type RunState int

const (
	StateNoState RunState = iota
	StateRunning
	StateBlocked
	StatePaused
	StateShutdown
	StateShutoff
	StateCrashed
	StatePMSuspended
)

var runStateNames = map[RunState]string{
	StateNoState:     "nostate",
	StateRunning:     "running",
	StateBlocked:     "blocked",
	StatePaused:      "paused",
	StateShutdown:    "shutdown",
	StateShutoff:     "shutoff",
	StateCrashed:     "crashed",
	StatePMSuspended: "pmsuspended",
}

func (s RunState) String() string {
	if name, ok := runStateNames[s]; ok {
		return name
	}

	return "unknown"
}

// RuntimeInfo is a point-in-time snapshot of a machine. It is never cached.
type RuntimeInfo struct {
	State     RunState
	MaxMemKiB uint64
	MemoryKiB uint64
	VCPUs     uint
	CPUTimeNs uint64
}
