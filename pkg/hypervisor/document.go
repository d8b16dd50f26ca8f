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
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"k8s.io/utils/ptr"
	"libvirt.org/go/libvirtxml"
)

var (
	ErrInvalidDocument = errors.New("invalid description document")
	ErrMissingUUID     = errors.New("description document has no uuid")
	ErrNoGraphics      = errors.New("description document has no graphics device with a port")
	ErrInvalidSpec     = errors.New("invalid machine spec")
)

const (
	defaultMemoryMiB = 1024
	defaultVCPUs     = 1
	defaultNetwork   = "default"
)

// ParseDocument unmarshals a description document.
func ParseDocument(document string) (*libvirtxml.Domain, error) {
	domain := &libvirtxml.Domain{}
	if err := domain.Unmarshal(document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return domain, nil
}

// DocumentUUID returns the <uuid> element of a description document.
func DocumentUUID(document string) (string, error) {
	domain, err := ParseDocument(document)
	if err != nil {
		return "", err
	}

	id := strings.TrimSpace(domain.UUID)
	if id == "" {
		return "", ErrMissingUUID
	}

	return id, nil
}

// GraphicsPort returns the port of the first graphics device of a
// description document. Autoport devices of a stopped machine report -1.
func GraphicsPort(document string) (int, error) {
	domain, err := ParseDocument(document)
	if err != nil {
		return 0, err
	}

	if domain.Devices == nil || len(domain.Devices.Graphics) == 0 {
		return 0, ErrNoGraphics
	}

	g := domain.Devices.Graphics[0]
	switch {
	case g.VNC != nil:
		return g.VNC.Port, nil
	case g.Spice != nil:
		return g.Spice.Port, nil
	case g.RDP != nil:
		return g.RDP.Port, nil
	default:
		return 0, ErrNoGraphics
	}
}

// MachineSpec describes a starter KVM machine.
type MachineSpec struct {
	UUID      string
	Name      string
	MemoryMiB uint
	VCPUs     uint
	// DiskPath is an optional qcow2 image attached as vda.
	DiskPath string
	// NetworkMode is one of "user", "nat", "network" or "bridge".
	NetworkMode string
	// NetworkSource is the bridge name in bridge mode, or the libvirt network
	// name in nat/network mode.
	NetworkSource string
	// MACAddress is generated when empty.
	MACAddress string
	BootOrder  []string
}

// GenerateDocument builds a description document from a MachineSpec.
func GenerateDocument(spec MachineSpec) (string, error) {
	if strings.TrimSpace(spec.UUID) == "" {
		return "", fmt.Errorf("%w: uuid is required", ErrInvalidSpec)
	}

	name := spec.Name
	if name == "" {
		name = "vm-" + strings.SplitN(spec.UUID, "-", 2)[0]
	}

	memory := spec.MemoryMiB
	if memory == 0 {
		memory = defaultMemoryMiB
	}

	vcpus := spec.VCPUs
	if vcpus == 0 {
		vcpus = defaultVCPUs
	}

	mac := spec.MACAddress
	if mac == "" {
		var err error
		if mac, err = randomMAC(); err != nil {
			return "", fmt.Errorf("generate MAC address: %w", err)
		}
	}

	iface, err := networkInterface(spec.NetworkMode, spec.NetworkSource, mac)
	if err != nil {
		return "", err
	}

	bootOrder := spec.BootOrder
	if len(bootOrder) == 0 {
		bootOrder = []string{"network"}
		if spec.DiskPath != "" {
			bootOrder = []string{"hd", "network"}
		}
	}

	bootDevices := make([]libvirtxml.DomainBootDevice, 0, len(bootOrder))
	for _, dev := range bootOrder {
		bootDevices = append(bootDevices, libvirtxml.DomainBootDevice{Dev: dev})
	}

	devices := &libvirtxml.DomainDeviceList{
		Interfaces: []libvirtxml.DomainInterface{iface},
		Serials: []libvirtxml.DomainSerial{{
			Source: &libvirtxml.DomainChardevSource{Pty: &libvirtxml.DomainChardevSourcePty{}},
			Target: &libvirtxml.DomainSerialTarget{Port: ptr.To[uint](0)},
		}},
		Consoles: []libvirtxml.DomainConsole{{
			Source: &libvirtxml.DomainChardevSource{Pty: &libvirtxml.DomainChardevSourcePty{}},
			Target: &libvirtxml.DomainConsoleTarget{Type: "serial", Port: ptr.To[uint](0)},
		}},
		Graphics: []libvirtxml.DomainGraphic{{
			VNC: &libvirtxml.DomainGraphicVNC{Port: -1, AutoPort: "yes", Listen: "0.0.0.0"},
		}},
	}

	if spec.DiskPath != "" {
		devices.Disks = []libvirtxml.DomainDisk{{
			Device: "disk",
			Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "qcow2"},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{File: spec.DiskPath},
			},
			Target: &libvirtxml.DomainDiskTarget{Dev: "vda", Bus: "virtio"},
		}}
	}

	domain := &libvirtxml.Domain{
		Type:   "kvm",
		Name:   name,
		UUID:   spec.UUID,
		Memory: &libvirtxml.DomainMemory{Value: memory, Unit: "MiB"},
		VCPU:   &libvirtxml.DomainVCPU{Value: vcpus},
		OS: &libvirtxml.DomainOS{
			Type:        &libvirtxml.DomainOSType{Arch: "x86_64", Machine: "pc", Type: "hvm"},
			BootDevices: bootDevices,
		},
		Devices: devices,
	}

	out, err := domain.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal description document: %w", err)
	}

	return out, nil
}

func networkInterface(mode, source, mac string) (libvirtxml.DomainInterface, error) {
	iface := libvirtxml.DomainInterface{
		Model: &libvirtxml.DomainInterfaceModel{Type: "virtio"},
		MAC:   &libvirtxml.DomainInterfaceMAC{Address: mac},
	}

	switch mode {
	case "", "user":
		iface.Source = &libvirtxml.DomainInterfaceSource{User: &libvirtxml.DomainInterfaceSourceUser{}}
	case "nat", "network":
		network := defaultNetwork
		if source != "" {
			network = source
		}

		iface.Source = &libvirtxml.DomainInterfaceSource{
			Network: &libvirtxml.DomainInterfaceSourceNetwork{Network: network},
		}
	case "bridge":
		if source == "" {
			return iface, fmt.Errorf("%w: bridge mode requires a bridge name", ErrInvalidSpec)
		}

		iface.Source = &libvirtxml.DomainInterfaceSource{
			Bridge: &libvirtxml.DomainInterfaceSourceBridge{Bridge: source},
		}
	default:
		return iface, fmt.Errorf("%w: unknown network mode %q", ErrInvalidSpec, mode)
	}

	return iface, nil
}

// randomMAC returns a random address under the 52:54:00 prefix used by libvirt.
func randomMAC() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return fmt.Sprintf("52:54:00:%02x:%02x:%02x", buf[0], buf[1], buf[2]), nil
}
