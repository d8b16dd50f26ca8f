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

package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
	"github.com/alexandremahdhaoui/vmagent/internal/availability"
	"github.com/alexandremahdhaoui/vmagent/internal/controller"
	"github.com/alexandremahdhaoui/vmagent/internal/dispatcher"
	"github.com/alexandremahdhaoui/vmagent/internal/util/mocks/mockcontroller"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor/hypervisortest"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

const (
	machineID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	address   = "10.0.0.7"
)

func newMocked(
	t *testing.T,
	opts ...dispatcher.Option,
) (dispatcher.Dispatcher, *mockcontroller.MockLifecycle, *mockcontroller.MockDefinition) {
	t.Helper()

	lc := mockcontroller.NewMockLifecycle(t)
	def := mockcontroller.NewMockDefinition(t)

	d, err := dispatcher.New(lc, def, opts...)
	require.NoError(t, err)

	return d, lc, def
}

func request(family protocol.Family, op protocol.Operation) protocol.Request {
	return protocol.Request{Family: family, Type: op}
}

func TestDispatch_Control(t *testing.T) {
	ctx := context.Background()
	d, lc, _ := newMocked(t)

	lc.EXPECT().Info(mock.Anything).Return(hypervisor.RuntimeInfo{
		State:     hypervisor.StateRunning,
		MaxMemKiB: 2048,
		MemoryKiB: 1024,
		VCPUs:     2,
		CPUTimeNs: 42,
	}, nil).Once()
	lc.EXPECT().Create(mock.Anything).Return(uint(7), nil).Once()
	lc.EXPECT().Shutdown(mock.Anything).Return(nil).Once()
	lc.EXPECT().Reboot(mock.Anything).Return(nil).Once()
	lc.EXPECT().Suspend(mock.Anything).Return(nil).Once()
	lc.EXPECT().Resume(mock.Anything).Return(nil).Once()
	lc.EXPECT().Console(mock.Anything).Return(protocol.ConsoleResult{Port: 5900, Host: address}, nil).Once()
	lc.EXPECT().Describe(mock.Anything).Return("<domain/>", nil).Once()

	tests := []struct {
		op       protocol.Operation
		expected any
	}{
		{
			op: protocol.OpInfo,
			expected: protocol.InfoResult{
				State:     int(hypervisor.StateRunning),
				MaxMem:    2048,
				Memory:    1024,
				NrVirtCPU: 2,
				CPUTime:   42,
			},
		},
		{op: protocol.OpCreate, expected: protocol.CreateResult{ID: 7}},
		{op: protocol.OpShutdown},
		{op: protocol.OpReboot},
		{op: protocol.OpSuspend},
		{op: protocol.OpResume},
		{op: protocol.OpVNCDisplay, expected: protocol.ConsoleResult{Port: 5900, Host: address}},
		{op: protocol.OpXMLDesc, expected: protocol.DocumentResult{Document: "<domain/>"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			reply, outcome := d.Dispatch(ctx, request(protocol.FamilyControl, tt.op))
			assert.Equal(t, dispatcher.Handled, outcome)
			assert.Equal(t, protocol.OutcomeSuccess, reply.Outcome)
			assert.Nil(t, reply.Error)
			assert.Equal(t, tt.expected, reply.Result)
		})
	}
}

func TestDispatch_Definition(t *testing.T) {
	ctx := context.Background()
	d, _, def := newMocked(t)

	def.EXPECT().Define(mock.Anything, "<domain/>").Return(nil).Once()
	def.EXPECT().Undefine(mock.Anything).Return(nil).Once()

	reply, outcome := d.Dispatch(ctx, protocol.Request{
		Family:  protocol.FamilyDefinition,
		Type:    protocol.OpDefine,
		Payload: "<domain/>",
	})
	assert.Equal(t, dispatcher.Handled, outcome)
	assert.Equal(t, protocol.OutcomeSuccess, reply.Outcome)

	// the family is inferred when the envelope does not carry it.
	reply, outcome = d.Dispatch(ctx, protocol.Request{Type: protocol.OpUndefine})
	assert.Equal(t, dispatcher.Handled, outcome)
	assert.Equal(t, protocol.OutcomeSuccess, reply.Outcome)
}

func TestDispatch_ErrorReplies(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		code        string
		wantMessage string
	}{
		{
			name:        "hypervisor error keeps its code",
			err:         errors.Join(&hypervisor.Error{Code: hypervisor.CodeOperationInvalid, Message: "domain is not running"}),
			code:        "55",
			wantMessage: "domain is not running",
		},
		{
			name: "timeout",
			err: &hypervisor.Error{
				Code:    hypervisor.CodeOperationTimeout,
				Message: "call timed out",
				Timeout: true,
			},
			code:        "68",
			wantMessage: "call timed out",
		},
		{
			name: "validation",
			err:  errors.Join(controller.ErrValidation, controller.ErrIdentityMismatch),
			code: protocol.CodeBadRequest,
		},
		{
			name: "no machine",
			err:  controller.ErrNoMachine,
			code: protocol.CodeItemNotFound,
		},
		{
			name: "no console",
			err:  errors.Join(controller.ErrNoConsole, hypervisor.ErrNoGraphics),
			code: protocol.CodeItemNotFound,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			code: protocol.CodeInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := dispatcher.ErrorReply(tt.err)
			assert.Equal(t, protocol.OutcomeError, reply.Outcome)
			require.NotNil(t, reply.Error)
			assert.Equal(t, tt.code, reply.Error.Code)
			assert.NotContains(t, reply.Error.Message, "\n")

			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, reply.Error.Message)
			}
		})
	}
}

func TestDispatch_HypervisorFailures(t *testing.T) {
	herr := &hypervisor.Error{Code: hypervisor.CodeOperationFailed, Message: "operation failed"}

	tests := []struct {
		op     protocol.Operation
		expect func(lc *mockcontroller.MockLifecycle)
	}{
		{op: protocol.OpInfo, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Info(mock.Anything).Return(hypervisor.RuntimeInfo{}, herr).Once()
		}},
		{op: protocol.OpCreate, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Create(mock.Anything).Return(0, herr).Once()
		}},
		{op: protocol.OpShutdown, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Shutdown(mock.Anything).Return(herr).Once()
		}},
		{op: protocol.OpReboot, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Reboot(mock.Anything).Return(herr).Once()
		}},
		{op: protocol.OpSuspend, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Suspend(mock.Anything).Return(herr).Once()
		}},
		{op: protocol.OpResume, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Resume(mock.Anything).Return(herr).Once()
		}},
		{op: protocol.OpVNCDisplay, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Console(mock.Anything).Return(protocol.ConsoleResult{}, herr).Once()
		}},
		{op: protocol.OpXMLDesc, expect: func(lc *mockcontroller.MockLifecycle) {
			lc.EXPECT().Describe(mock.Anything).Return("", herr).Once()
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			d, lc, _ := newMocked(t)
			tt.expect(lc)

			var reply protocol.Reply
			var outcome dispatcher.Outcome

			require.NotPanics(t, func() {
				reply, outcome = d.Dispatch(context.Background(), request(protocol.FamilyControl, tt.op))
			})
			assert.Equal(t, dispatcher.Handled, outcome)
			assert.Equal(t, protocol.OutcomeError, reply.Outcome)
			require.NotNil(t, reply.Error)
			assert.Equal(t, "9", reply.Error.Code)
			assert.Nil(t, reply.Result)
		})
	}
}

func TestDispatch_UnrecognizedOperations(t *testing.T) {
	unrecognized := []protocol.Request{
		request(protocol.FamilyControl, protocol.OpNetworkStats),
		request(protocol.FamilyControl, "migrate"),
		request(protocol.FamilyControl, protocol.OpDefine),
		request(protocol.FamilyDefinition, protocol.OpInfo),
		request("storage", protocol.OpInfo),
		{Type: "migrate"},
	}

	t.Run("dropped by default", func(t *testing.T) {
		// no expectations: reaching a controller fails the test.
		d, _, _ := newMocked(t)

		for _, req := range unrecognized {
			reply, outcome := d.Dispatch(context.Background(), req)
			assert.Equal(t, dispatcher.NotMatched, outcome, req)
			assert.Equal(t, protocol.Reply{}, reply)
		}
	})

	t.Run("rejected in strict mode", func(t *testing.T) {
		d, _, _ := newMocked(t, dispatcher.WithStrictOperations(true))

		for _, req := range unrecognized {
			reply, outcome := d.Dispatch(context.Background(), req)
			assert.Equal(t, dispatcher.Handled, outcome, req)
			require.NotNil(t, reply.Error)
			assert.Equal(t, protocol.CodeFeatureNotImplemented, reply.Error.Code)
		}
	})
}

func TestDispatch_RecoversPanics(t *testing.T) {
	d, lc, _ := newMocked(t)

	lc.EXPECT().Info(mock.Anything).RunAndReturn(func(context.Context) (hypervisor.RuntimeInfo, error) {
		panic("unexpected nil handle")
	}).Once()

	var reply protocol.Reply
	var outcome dispatcher.Outcome

	require.NotPanics(t, func() {
		reply, outcome = d.Dispatch(context.Background(), request(protocol.FamilyControl, protocol.OpInfo))
	})
	assert.Equal(t, dispatcher.Handled, outcome)
	require.NotNil(t, reply.Error)
	assert.Equal(t, protocol.CodeInternalServerError, reply.Error.Code)
	assert.Contains(t, reply.Error.Message, "unexpected nil handle")
}

func TestDispatch_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, lc, _ := newMocked(t, dispatcher.WithRegisterer(reg))

	lc.EXPECT().Shutdown(mock.Anything).Return(nil).Once()
	lc.EXPECT().Reboot(mock.Anything).Return(controller.ErrNoMachine).Once()

	d.Dispatch(context.Background(), request(protocol.FamilyControl, protocol.OpShutdown))
	d.Dispatch(context.Background(), request(protocol.FamilyControl, protocol.OpReboot))
	d.Dispatch(context.Background(), request(protocol.FamilyControl, protocol.OpNetworkStats))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "vmagent_requests_total" {
			continue
		}

		for _, m := range mf.GetMetric() {
			counts[labelsOf(m)] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, map[string]float64{
		"control/shutdown/success":  1,
		"control/reboot/error":      1,
		"control/unmatched/ignored": 1,
	}, counts)

	series, err := testutil.GatherAndCount(reg, "vmagent_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, series)

	// registering twice on the same registry fails.
	_, err = dispatcher.New(lc, mockcontroller.NewMockDefinition(t), dispatcher.WithRegisterer(reg))
	assert.Error(t, err)
}

func labelsOf(m *dto.Metric) string {
	values := map[string]string{}
	for _, l := range m.GetLabel() {
		values[l.GetName()] = l.GetValue()
	}

	return values["family"] + "/" + values["operation"] + "/" + values["outcome"]
}

func TestDispatch_Journal(t *testing.T) {
	ctx := context.Background()

	journal, err := adapter.NewJournal("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	d, lc, _ := newMocked(t, dispatcher.WithJournal(journal))
	lc.EXPECT().Suspend(mock.Anything).Return(&hypervisor.Error{Code: hypervisor.CodeOperationInvalid}).Once()
	lc.EXPECT().Resume(mock.Anything).Return(nil).Once()

	d.Dispatch(ctx, request(protocol.FamilyControl, protocol.OpSuspend))
	d.Dispatch(ctx, request(protocol.FamilyControl, protocol.OpResume))
	d.Dispatch(ctx, request(protocol.FamilyControl, "migrate"))

	jobs, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, protocol.Operation("migrate"), jobs[0].Operation)
	assert.Equal(t, adapter.JobIgnored, jobs[0].Outcome)

	assert.Equal(t, protocol.OpResume, jobs[1].Operation)
	assert.Equal(t, adapter.JobSuccess, jobs[1].Outcome)
	assert.Empty(t, jobs[1].ErrorCode)

	assert.Equal(t, protocol.OpSuspend, jobs[2].Operation)
	assert.Equal(t, adapter.JobError, jobs[2].Outcome)
	assert.Equal(t, "55", jobs[2].ErrorCode)
	assert.Equal(t, protocol.FamilyControl, jobs[2].Family)
}

// ------------------------------------------------- CONTROLLERS ---------------------------------------------------- //

func newDispatcher(t *testing.T, seed *hypervisor.RunState) (
	dispatcher.Dispatcher,
	*hypervisortest.Gateway,
	*mockcontroller.MockNotifier,
	string,
) {
	t.Helper()

	doc, err := hypervisor.GenerateDocument(hypervisor.MachineSpec{UUID: machineID, MemoryMiB: 256})
	require.NoError(t, err)

	gw := hypervisortest.New()
	if seed != nil {
		require.NoError(t, gw.Seed(doc, *seed))
	}

	agent, err := controller.NewAgentContext(machineID, address, t.TempDir(), gw)
	require.NoError(t, err)

	notifier := mockcontroller.NewMockNotifier(t)
	lc := controller.NewLifecycle(agent, notifier)

	if seed != nil {
		notifier.EXPECT().ChangePresence(mock.Anything, mock.Anything).Return(nil).Once()
	} else {
		// nothing is defined yet: the lookup fails and the machine is announced unreachable.
		notifier.EXPECT().ChangePresence(mock.Anything, availability.Unreachable).Return(nil).Once()
	}

	require.NoError(t, lc.Start(context.Background()))

	d, err := dispatcher.New(lc, controller.NewDefinition(agent, notifier))
	require.NoError(t, err)

	return d, gw, notifier, doc
}

func TestDispatch_CreateStoppedMachine(t *testing.T) {
	shutoff := hypervisor.StateShutoff
	d, gw, notifier, _ := newDispatcher(t, &shutoff)

	notifier.EXPECT().
		ChangePresence(mock.Anything, availability.Signal{Presence: protocol.PresenceAvailable, Status: "Running"}).
		Return(nil).Once()
	notifier.EXPECT().PushChange(mock.Anything, protocol.EventCreated).Return(nil).Once()

	reply, outcome := d.Dispatch(context.Background(), request(protocol.FamilyControl, protocol.OpCreate))
	assert.Equal(t, dispatcher.Handled, outcome)
	assert.Equal(t, protocol.OutcomeSuccess, reply.Outcome)
	assert.IsType(t, protocol.CreateResult{}, reply.Result)
	assert.Equal(t, 1, gw.Calls(hypervisortest.OpCreate))
}

func TestDispatch_DefineMismatchMakesNoHypervisorCall(t *testing.T) {
	d, gw, _, _ := newDispatcher(t, nil)

	other, err := hypervisor.GenerateDocument(hypervisor.MachineSpec{UUID: "9b2f1d3e-1111-4a4a-8b8b-000000000001"})
	require.NoError(t, err)

	reply, _ := d.Dispatch(context.Background(), protocol.Request{
		Family:  protocol.FamilyDefinition,
		Type:    protocol.OpDefine,
		Payload: other,
	})
	require.NotNil(t, reply.Error)
	assert.Equal(t, protocol.CodeBadRequest, reply.Error.Code)
	assert.Zero(t, gw.Calls(hypervisortest.OpDefine))
	assert.Equal(t, 1, gw.Calls(hypervisortest.OpLookup)) // startup only
}

func TestDispatch_DefineDescribeUndefine(t *testing.T) {
	ctx := context.Background()
	d, _, notifier, doc := newDispatcher(t, nil)

	notifier.EXPECT().ChangePresence(mock.Anything, mock.Anything).Return(nil).Once()
	notifier.EXPECT().PushChange(mock.Anything, protocol.EventDefined).Return(nil).Once()
	notifier.EXPECT().PushChange(mock.Anything, protocol.EventUndefined).Return(nil).Once()

	reply, _ := d.Dispatch(ctx, protocol.Request{Family: protocol.FamilyDefinition, Type: protocol.OpDefine, Payload: doc})
	require.Nil(t, reply.Error)

	reply, _ = d.Dispatch(ctx, request(protocol.FamilyControl, protocol.OpXMLDesc))
	require.Nil(t, reply.Error)
	assert.Equal(t, protocol.DocumentResult{Document: doc}, reply.Result)

	first, _ := d.Dispatch(ctx, request(protocol.FamilyControl, protocol.OpInfo))
	second, _ := d.Dispatch(ctx, request(protocol.FamilyControl, protocol.OpInfo))
	assert.Equal(t, first, second)

	reply, _ = d.Dispatch(ctx, request(protocol.FamilyDefinition, protocol.OpUndefine))
	require.Nil(t, reply.Error)

	reply, outcome := d.Dispatch(ctx, request(protocol.FamilyControl, protocol.OpInfo))
	assert.Equal(t, dispatcher.Handled, outcome)
	require.NotNil(t, reply.Error)
	assert.Equal(t, protocol.CodeItemNotFound, reply.Error.Code)
}
