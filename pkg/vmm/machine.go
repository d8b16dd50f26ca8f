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

package vmm

import (
	"context"

	"libvirt.org/go/libvirt"

	"github.com/alexandremahdhaoui/vmagent/pkg/hypervisor"
)

var _ hypervisor.Machine = &machine{}

type machine struct {
	gw  *Gateway
	dom *libvirt.Domain
}

type none struct{}

// do adapts an error-only libvirt call to invoke.
func (m *machine) do(ctx context.Context, op string, fn func() error) error {
	_, err := invoke(ctx, m.gw, op, func() (none, error) {
		return none{}, fn()
	})

	return err
}

func (m *machine) Create(ctx context.Context) (uint, error) {
	return invoke(ctx, m.gw, "create", func() (uint, error) {
		if err := m.dom.Create(); err != nil {
			return 0, err
		}

		return m.dom.GetID()
	})
}

func (m *machine) Shutdown(ctx context.Context) error {
	return m.do(ctx, "shutdown", m.dom.Shutdown)
}

func (m *machine) Reboot(ctx context.Context) error {
	return m.do(ctx, "reboot", func() error {
		return m.dom.Reboot(libvirt.DOMAIN_REBOOT_DEFAULT)
	})
}

func (m *machine) Suspend(ctx context.Context) error {
	return m.do(ctx, "suspend", m.dom.Suspend)
}

func (m *machine) Resume(ctx context.Context) error {
	return m.do(ctx, "resume", m.dom.Resume)
}

func (m *machine) Info(ctx context.Context) (hypervisor.RuntimeInfo, error) {
	return invoke(ctx, m.gw, "info", func() (hypervisor.RuntimeInfo, error) {
		info, err := m.dom.GetInfo()
		if err != nil {
			return hypervisor.RuntimeInfo{}, err
		}

		return hypervisor.RuntimeInfo{
			State:     hypervisor.RunState(info.State),
			MaxMemKiB: info.MaxMem,
			MemoryKiB: info.Memory,
			VCPUs:     info.NrVirtCpu,
			CPUTimeNs: info.CpuTime,
		}, nil
	})
}

func (m *machine) Describe(ctx context.Context) (string, error) {
	return invoke(ctx, m.gw, "describe", func() (string, error) {
		return m.dom.GetXMLDesc(0)
	})
}

func (m *machine) Undefine(ctx context.Context) error {
	return m.do(ctx, "undefine", m.dom.Undefine)
}

// Free releases the libvirt reference without taking the gateway lock.
func (m *machine) Free() error {
	if err := m.dom.Free(); err != nil {
		return toError(err)
	}

	return nil
}
