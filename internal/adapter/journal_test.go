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

package adapter_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

func appendJobs(t *testing.T, j adapter.Journal, ops ...protocol.Operation) []adapter.Job {
	t.Helper()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	jobs := make([]adapter.Job, 0, len(ops))

	for i, op := range ops {
		job := adapter.Job{
			ID:        uuid.New(),
			Family:    protocol.FamilyControl,
			Operation: op,
			Outcome:   adapter.JobSuccess,
			StartedAt: base.Add(time.Duration(i) * time.Second),
			Duration:  time.Duration(i+1) * time.Millisecond,
		}
		require.NoError(t, j.Append(context.Background(), job))
		jobs = append(jobs, job)
	}

	return jobs
}

func TestJournal_InMemory(t *testing.T) {
	ctx := context.Background()

	j, err := adapter.NewJournal("")
	require.NoError(t, err)
	defer j.Close()

	jobs := appendJobs(t, j, protocol.OpCreate, protocol.OpSuspend, protocol.OpResume, protocol.OpShutdown)

	all, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	// newest first.
	assert.Equal(t, protocol.OpShutdown, all[0].Operation)
	assert.Equal(t, protocol.OpCreate, all[3].Operation)
	assert.Equal(t, jobs[3].ID, all[0].ID)
	assert.True(t, jobs[3].StartedAt.Equal(all[0].StartedAt))
	assert.Equal(t, jobs[3].Duration, all[0].Duration)

	latest, err := j.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, protocol.OpShutdown, latest[0].Operation)
	assert.Equal(t, protocol.OpResume, latest[1].Operation)

	deleted, err := j.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	all, err = j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, protocol.OpShutdown, all[0].Operation)

	deleted, err = j.Prune(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestJournal_AssignsIDAndTime(t *testing.T) {
	j, err := adapter.NewJournal("")
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Append(context.Background(), adapter.Job{Operation: protocol.OpInfo}))

	all, err := j.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEqual(t, uuid.Nil, all[0].ID)
	assert.False(t, all[0].StartedAt.IsZero())
}

func TestJournal_Persistent(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir()

	j, err := adapter.NewJournal(path)
	require.NoError(t, err)
	appendJobs(t, j, protocol.OpDefine, protocol.OpUndefine)
	require.NoError(t, j.Close())

	j, err = adapter.NewJournal(path)
	require.NoError(t, err)
	defer j.Close()

	all, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, protocol.OpUndefine, all[0].Operation)
}
