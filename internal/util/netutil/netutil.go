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

package netutil

import (
	"errors"
	"fmt"
	"net"
)

// DefaultProbeTarget is dialed to find the outbound interface. UDP dials send
// no packets.
const DefaultProbeTarget = "8.8.8.8:80"

var ErrNoAddress = errors.New("cannot determine outbound address")

// OutboundIP returns the local IPv4 address the kernel would use to reach
// target.
func OutboundIP(target string) (net.IP, error) {
	if target == "" {
		target = DefaultProbeTarget
	}

	conn, err := net.Dial("udp4", target)
	if err != nil {
		return nil, errors.Join(err, ErrNoAddress)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.To4() == nil {
		return nil, fmt.Errorf("%w: unexpected local address %q", ErrNoAddress, conn.LocalAddr())
	}

	return addr.IP.To4(), nil
}

// AdvertiseAddress returns advertise when set, and the outbound address
// toward target otherwise.
func AdvertiseAddress(advertise, target string) (string, error) {
	if advertise != "" {
		return advertise, nil
	}

	ip, err := OutboundIP(target)
	if err != nil {
		return "", err
	}

	return ip.String(), nil
}
