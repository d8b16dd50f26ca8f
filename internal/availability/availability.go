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

// Package availability projects machine run-states and completed operations
// onto the presence signal broadcast by the agent.
package availability

import (
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

// Signal is a presence level plus a status line.
type Signal struct {
	Presence protocol.Presence
	Status   string
}

var (
	// Unreachable is published when the machine cannot be looked up at startup.
	Unreachable = Signal{Presence: protocol.PresenceDoNotDisturb, Status: "shutdown"}
	// Offline is published when the agent leaves the channel.
	Offline = Signal{Presence: protocol.PresenceUnavailable, Status: "offline"}
)

// ForState maps the run-state found at startup to a signal. States without a
// mapping return false and nothing is published.
func ForState(state hypervisor.RunState) (Signal, bool) {
	switch state {
	case hypervisor.StateRunning:
		return Signal{Presence: protocol.PresenceAvailable, Status: "shutdown"}, true
	case hypervisor.StatePaused:
		return Signal{Presence: protocol.PresenceAway, Status: "shutdown"}, true
	case hypervisor.StateShutoff, hypervisor.StateShutdown:
		return Signal{Presence: protocol.PresenceExtendedAway, Status: "shutdown"}, true
	default:
		return Signal{}, false
	}
}

// AfterOperation maps a successful operation to the signal to publish and
// the event to emit. ok is false for operations that do not change state.
// Reboot emits an event but no signal, which is reported as a zero Signal.
func AfterOperation(op protocol.Operation) (signal Signal, event protocol.Event, ok bool) {
	switch op {
	case protocol.OpCreate:
		return Signal{Presence: protocol.PresenceAvailable, Status: "Running"}, protocol.EventCreated, true
	case protocol.OpShutdown:
		return Signal{Presence: protocol.PresenceExtendedAway, Status: "shutdown"}, protocol.EventShutdown, true
	case protocol.OpReboot:
		return Signal{}, protocol.EventRebooted, true
	case protocol.OpSuspend:
		return Signal{Presence: protocol.PresenceAway, Status: "paused"}, protocol.EventSuspended, true
	case protocol.OpResume:
		return Signal{Presence: protocol.PresenceAvailable, Status: "running"}, protocol.EventResumed, true
	case protocol.OpDefine:
		return Signal{}, protocol.EventDefined, true
	case protocol.OpUndefine:
		return Signal{}, protocol.EventUndefined, true
	default:
		return Signal{}, "", false
	}
}

// IsZero reports whether no signal should be published.
func (s Signal) IsZero() bool {
	return s.Presence == "" && s.Status == ""
}
