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

package controller_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/internal/availability"
	"github.com/alexandremahdhaoui/vmagent/internal/controller"
	"github.com/alexandremahdhaoui/vmagent/internal/util/mocks/mockcontroller"
	"github.com/alexandremahdhaoui/vmagent/internal/util/mocks/mockhypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor/hypervisortest"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

func TestDefinition_Define_RejectedDocuments(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected error
	}{
		{
			name:     "identity mismatch",
			document: "<domain type='kvm'><name>x</name><uuid>9b2f1d3e-1111-4a4a-8b8b-000000000001</uuid></domain>",
			expected: controller.ErrIdentityMismatch,
		},
		{
			name:     "missing uuid",
			document: "<domain type='kvm'><name>x</name></domain>",
			expected: hypervisor.ErrMissingUUID,
		},
		{
			name:     "malformed document",
			document: "<domain",
			expected: hypervisor.ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Neither mock has expectations: any hypervisor call or
			// notification fails the test.
			gw := mockhypervisor.NewMockGateway(t)
			notifier := mockcontroller.NewMockNotifier(t)

			agent, err := controller.NewAgentContext(machineID, address, "", gw)
			require.NoError(t, err)

			err = controller.NewDefinition(agent, notifier).Define(context.Background(), tt.document)
			assert.ErrorIs(t, err, controller.ErrValidation)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestDefinition_Define_BindsNewMachine(t *testing.T) {
	ctx := context.Background()
	gw, agent, notifier := newAgent(t, nil)
	doc := newDocument(t, machineID)

	notifier.EXPECT().
		ChangePresence(mock.Anything, availability.Signal{Presence: protocol.PresenceExtendedAway, Status: "shutdown"}).
		Return(nil).Once()
	notifier.EXPECT().PushChange(mock.Anything, protocol.EventDefined).Return(nil).Once()

	require.NoError(t, controller.NewDefinition(agent, notifier).Define(ctx, doc))

	_, bound := agent.Machine()
	assert.True(t, bound)
	assert.Equal(t, 1, gw.Calls(hypervisortest.OpDefine))
	assert.Equal(t, 1, gw.Calls(hypervisortest.OpLookup))
	assert.Equal(t, 1, gw.Calls(hypervisortest.OpFree))

	described, err := controller.NewLifecycle(agent, notifier).Describe(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, described)
}

func TestDefinition_Define_KeepsExistingHandle(t *testing.T) {
	ctx := context.Background()
	gw, agent, notifier := newAgent(t, stateRef(hypervisor.StateRunning))
	notifier.EXPECT().ChangePresence(mock.Anything, mock.Anything).Return(nil).Once() // startup
	require.NoError(t, controller.NewLifecycle(agent, notifier).Start(ctx))

	notifier.EXPECT().PushChange(mock.Anything, protocol.EventDefined).Return(nil).Once()

	// identifiers are compared canonically.
	doc := strings.Replace(newDocument(t, machineID), machineID, strings.ToUpper(machineID), 1)
	require.NoError(t, controller.NewDefinition(agent, notifier).Define(ctx, doc))

	assert.Equal(t, 1, gw.Calls(hypervisortest.OpLookup))

	state, _ := gw.State(machineID)
	assert.Equal(t, hypervisor.StateRunning, state)
}

func TestDefinition_Define_HypervisorError(t *testing.T) {
	gw, agent, notifier := newAgent(t, nil)
	gw.FailOn(hypervisortest.OpDefine, &hypervisor.Error{Code: hypervisor.CodeXMLError, Message: "bad xml"})

	err := controller.NewDefinition(agent, notifier).Define(context.Background(), newDocument(t, machineID))
	herr, ok := hypervisor.AsError(err)
	require.True(t, ok)
	assert.Equal(t, hypervisor.CodeXMLError, herr.Code)
	assert.NotErrorIs(t, err, controller.ErrValidation)
}

func TestDefinition_Define_LookupFailure(t *testing.T) {
	gw, agent, notifier := newAgent(t, nil)
	gw.FailOn(hypervisortest.OpLookup, &hypervisor.Error{Code: hypervisor.CodeInternal, Message: "lost"})

	notifier.EXPECT().ChangePresence(mock.Anything, availability.Unreachable).Return(nil).Once()
	notifier.EXPECT().PushChange(mock.Anything, protocol.EventDefined).Return(nil).Once()

	require.NoError(t, controller.NewDefinition(agent, notifier).Define(context.Background(), newDocument(t, machineID)))

	_, bound := agent.Machine()
	assert.False(t, bound)
}

func TestDefinition_Undefine(t *testing.T) {
	ctx := context.Background()
	gw, agent, notifier := newAgent(t, stateRef(hypervisor.StateShutoff))
	notifier.EXPECT().ChangePresence(mock.Anything, mock.Anything).Return(nil).Once() // startup

	lc := controller.NewLifecycle(agent, notifier)
	require.NoError(t, lc.Start(ctx))

	notifier.EXPECT().PushChange(mock.Anything, protocol.EventUndefined).Return(nil).Once()
	require.NoError(t, controller.NewDefinition(agent, notifier).Undefine(ctx))

	_, bound := agent.Machine()
	assert.False(t, bound)
	_, registered := gw.State(machineID)
	assert.False(t, registered)
	assert.Equal(t, 1, gw.Calls(hypervisortest.OpFree))

	_, err := lc.Info(ctx)
	assert.ErrorIs(t, err, controller.ErrNoMachine)

	assert.ErrorIs(t, controller.NewDefinition(agent, notifier).Undefine(ctx), controller.ErrNoMachine)
}

func TestDefinition_Undefine_HypervisorError(t *testing.T) {
	ctx := context.Background()
	gw, agent, notifier := newAgent(t, stateRef(hypervisor.StateShutoff))
	notifier.EXPECT().ChangePresence(mock.Anything, mock.Anything).Return(nil).Once() // startup
	require.NoError(t, controller.NewLifecycle(agent, notifier).Start(ctx))

	gw.FailOn(hypervisortest.OpUndefine, &hypervisor.Error{Code: hypervisor.CodeOperationInvalid, Message: "busy"})

	err := controller.NewDefinition(agent, notifier).Undefine(ctx)
	_, ok := hypervisor.AsError(err)
	assert.True(t, ok)

	_, bound := agent.Machine()
	assert.True(t, bound)
}
