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

package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrWorkDirEnsure = errors.New("ensuring working directory")
	ErrWorkDirRemove = errors.New("removing working directory")

	errInvalidWorkDirName = errors.New("invalid working directory name")
)

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// WorkDir provisions one directory per machine under a base directory.
type WorkDir interface {
	// Ensure creates the directory of id if needed and returns its path.
	Ensure(id string) (string, error)
	// Remove deletes the directory of id and everything below it.
	Remove(id string) error
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewWorkDir returns a WorkDir rooted at baseDir.
func NewWorkDir(baseDir string) WorkDir {
	return &fsWorkDir{baseDir: baseDir}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type fsWorkDir struct {
	baseDir string
}

func (w *fsWorkDir) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", errInvalidWorkDirName, id)
	}

	return filepath.Join(w.baseDir, id), nil
}

func (w *fsWorkDir) Ensure(id string) (string, error) {
	dir, err := w.path(id)
	if err != nil {
		return "", errors.Join(err, ErrWorkDirEnsure)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Join(err, ErrWorkDirEnsure)
	}

	return dir, nil
}

func (w *fsWorkDir) Remove(id string) error {
	dir, err := w.path(id)
	if err != nil {
		return errors.Join(err, ErrWorkDirRemove)
	}

	if err := os.RemoveAll(dir); err != nil {
		return errors.Join(err, ErrWorkDirRemove)
	}

	return nil
}
