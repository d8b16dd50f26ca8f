//go:build unit

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

package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexandremahdhaoui/vmagent/internal/availability"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

func TestForState(t *testing.T) {
	tests := []struct {
		state    hypervisor.RunState
		expected availability.Signal
		ok       bool
	}{
		{state: hypervisor.StateRunning, expected: availability.Signal{Presence: protocol.PresenceAvailable, Status: "shutdown"}, ok: true},
		{state: hypervisor.StatePaused, expected: availability.Signal{Presence: protocol.PresenceAway, Status: "shutdown"}, ok: true},
		{state: hypervisor.StateShutoff, expected: availability.Signal{Presence: protocol.PresenceExtendedAway, Status: "shutdown"}, ok: true},
		{state: hypervisor.StateShutdown, expected: availability.Signal{Presence: protocol.PresenceExtendedAway, Status: "shutdown"}, ok: true},
		{state: hypervisor.StateNoState},
		{state: hypervisor.StateBlocked},
		{state: hypervisor.StateCrashed},
		{state: hypervisor.StatePMSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			signal, ok := availability.ForState(tt.state)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, signal)
		})
	}
}

func TestAfterOperation(t *testing.T) {
	tests := []struct {
		op            protocol.Operation
		expected      availability.Signal
		expectedEvent protocol.Event
		ok            bool
	}{
		{
			op:            protocol.OpCreate,
			expected:      availability.Signal{Presence: protocol.PresenceAvailable, Status: "Running"},
			expectedEvent: protocol.EventCreated,
			ok:            true,
		},
		{
			op:            protocol.OpShutdown,
			expected:      availability.Signal{Presence: protocol.PresenceExtendedAway, Status: "shutdown"},
			expectedEvent: protocol.EventShutdown,
			ok:            true,
		},
		{op: protocol.OpReboot, expectedEvent: protocol.EventRebooted, ok: true},
		{
			op:            protocol.OpSuspend,
			expected:      availability.Signal{Presence: protocol.PresenceAway, Status: "paused"},
			expectedEvent: protocol.EventSuspended,
			ok:            true,
		},
		{
			op:            protocol.OpResume,
			expected:      availability.Signal{Presence: protocol.PresenceAvailable, Status: "running"},
			expectedEvent: protocol.EventResumed,
			ok:            true,
		},
		{op: protocol.OpDefine, expectedEvent: protocol.EventDefined, ok: true},
		{op: protocol.OpUndefine, expectedEvent: protocol.EventUndefined, ok: true},
		{op: protocol.OpInfo},
		{op: protocol.OpXMLDesc},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			signal, event, ok := availability.AfterOperation(tt.op)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, signal)
			assert.Equal(t, tt.expectedEvent, event)
			assert.Equal(t, tt.expected == availability.Signal{}, signal.IsZero())
		})
	}
}
