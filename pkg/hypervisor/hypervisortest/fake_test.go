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

package hypervisortest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor/hypervisortest"
)

const id = "8f14e45f-ceea-467f-a0e6-6b0f3c1e2d4a"

func TestGateway_Transitions(t *testing.T) {
	ctx := context.Background()
	gw := hypervisortest.New()

	doc, err := hypervisor.GenerateDocument(hypervisor.MachineSpec{UUID: id, MemoryMiB: 256, VCPUs: 2})
	require.NoError(t, err)

	_, err = gw.Lookup(ctx, id)
	assert.ErrorIs(t, err, hypervisor.ErrNotFound)

	m, err := gw.Define(ctx, doc)
	require.NoError(t, err)

	info, err := m.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, hypervisor.RuntimeInfo{State: hypervisor.StateShutoff, MaxMemKiB: 256 * 1024, VCPUs: 2}, info)

	domID, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), domID)

	_, err = m.Create(ctx)
	herr, ok := hypervisor.AsError(err)
	require.True(t, ok)
	assert.Equal(t, hypervisor.CodeOperationInvalid, herr.Code)

	require.NoError(t, m.Suspend(ctx))
	assert.Error(t, m.Suspend(ctx))
	require.NoError(t, m.Resume(ctx))
	require.NoError(t, m.Reboot(ctx))
	require.NoError(t, m.Shutdown(ctx))

	state, ok := gw.State(id)
	require.True(t, ok)
	assert.Equal(t, hypervisor.StateShutoff, state)

	described, err := m.Describe(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, described)

	require.NoError(t, m.Undefine(ctx))
	_, err = m.Info(ctx)
	assert.ErrorIs(t, err, hypervisor.ErrNotFound)

	assert.Equal(t, 2, gw.Calls(hypervisortest.OpCreate))
}

func TestGateway_FailOn(t *testing.T) {
	ctx := context.Background()
	gw := hypervisortest.New()

	doc, err := hypervisor.GenerateDocument(hypervisor.MachineSpec{UUID: id})
	require.NoError(t, err)
	require.NoError(t, gw.Seed(doc, hypervisor.StateRunning))

	m, err := gw.Lookup(ctx, id)
	require.NoError(t, err)

	gw.FailOn(hypervisortest.OpShutdown, &hypervisor.Error{Code: 9, Message: "boom"})
	err = m.Shutdown(ctx)
	herr, ok := hypervisor.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 9, herr.Code)

	gw.FailOn(hypervisortest.OpShutdown, nil)
	assert.NoError(t, m.Shutdown(ctx))
	assert.Equal(t, 2, gw.Calls(hypervisortest.OpShutdown))
}

func TestGateway_DefineRejectsDocumentWithoutUUID(t *testing.T) {
	gw := hypervisortest.New()

	_, err := gw.Define(context.Background(), "<domain type='kvm'><name>x</name></domain>")
	herr, ok := hypervisor.AsError(err)
	require.True(t, ok)
	assert.Equal(t, hypervisor.CodeXMLError, herr.Code)
}
