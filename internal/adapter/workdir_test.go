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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/internal/adapter"
)

func TestWorkDir(t *testing.T) {
	base := t.TempDir()
	wd := adapter.NewWorkDir(base)
	id := "0f8fad5b-d9cb-469f-a165-70867728950e"

	dir, err := wd.Ensure(id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, id), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent, and keeps existing content.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "disk.qcow2"), []byte("x"), 0o600))
	_, err = wd.Ensure(id)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "disk.qcow2"))

	require.NoError(t, wd.Remove(id))
	assert.NoDirExists(t, dir)

	// removing twice is not an error.
	require.NoError(t, wd.Remove(id))
}

func TestWorkDir_RejectsEscapingNames(t *testing.T) {
	wd := adapter.NewWorkDir(t.TempDir())

	for _, name := range []string{"", ".", "..", "../etc", "a/b"} {
		_, err := wd.Ensure(name)
		assert.ErrorIs(t, err, adapter.ErrWorkDirEnsure, name)
		assert.ErrorIs(t, wd.Remove(name), adapter.ErrWorkDirRemove, name)
	}
}
