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

package hypervisor

import (
	"errors"
	"fmt"
)

// Error codes shared with libvirt's virErrorNumber.
const (
	CodeInternal         = 1
	CodeOperationFailed  = 9
	CodeXMLError         = 27
	CodeNoDomain         = 42
	CodeOperationInvalid = 55
	CodeOperationTimeout = 68
	CodeOperationAborted = 78
)

var (
	// ErrConnect is returned when the hypervisor connection cannot be opened.
	ErrConnect = errors.New("failed to connect to hypervisor")
	// ErrTimeout matches any *Error produced by an expired call deadline.
	ErrTimeout = errors.New("hypervisor call timed out")
	// ErrNotFound matches any *Error reporting a missing machine.
	ErrNotFound = errors.New("machine not found")
)

// Error is the single error type surfaced by a Gateway or a Machine.
type Error struct {
	Code    int
	Message string
	// Timeout is set when the call was abandoned because its deadline expired.
	Timeout bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("hypervisor error %d: %s", e.Code, e.Message)
}

// Is makes errors.Is(err, ErrTimeout) and errors.Is(err, ErrNotFound) work.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Timeout
	case ErrNotFound:
		return e.Code == CodeNoDomain
	default:
		return false
	}
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var herr *Error
	if errors.As(err, &herr) {
		return herr, true
	}

	return nil, false
}
