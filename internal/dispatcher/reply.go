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

package dispatcher

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alexandremahdhaoui/vmagent/internal/controller"
	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

// ErrorReply maps an error to the error reply sent to the peer. Hypervisor
// errors keep their numeric code.
func ErrorReply(err error) protocol.Reply {
	if herr, ok := hypervisor.AsError(err); ok {
		return protocol.Failure(strconv.Itoa(herr.Code), herr.Message)
	}

	msg := flatten(err)

	switch {
	case errors.Is(err, controller.ErrValidation):
		return protocol.Failure(protocol.CodeBadRequest, msg)
	case errors.Is(err, controller.ErrNoMachine), errors.Is(err, controller.ErrNoConsole):
		return protocol.Failure(protocol.CodeItemNotFound, msg)
	default:
		return protocol.Failure(protocol.CodeInternalServerError, msg)
	}
}

func replyFor(result any, err error) protocol.Reply {
	if err != nil {
		return ErrorReply(err)
	}

	return protocol.Success(result)
}

func infoResult(info hypervisor.RuntimeInfo) protocol.InfoResult {
	return protocol.InfoResult{
		State:     int(info.State),
		MaxMem:    info.MaxMemKiB,
		Memory:    info.MemoryKiB,
		NrVirtCPU: info.VCPUs,
		CPUTime:   info.CPUTimeNs,
	}
}

// flatten renders joined errors on a single line.
func flatten(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", ": ")
}
