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

// Package protocol defines the messages exchanged between a vmagent and its
// remote peers over the control channel.
package protocol

import "time"

// ------------------------------------------------- REQUESTS ------------------------------------------------------ //

// Family is the namespace a request belongs to.
type Family string

const (
	FamilyControl    Family = "control"
	FamilyDefinition Family = "definition"
)

// Operation is the request type within a family.
type Operation string

const (
	OpInfo         Operation = "info"
	OpCreate       Operation = "create"
	OpShutdown     Operation = "shutdown"
	OpReboot       Operation = "reboot"
	OpSuspend      Operation = "suspend"
	OpResume       Operation = "resume"
	OpVNCDisplay   Operation = "vncdisplay"
	OpXMLDesc      Operation = "xmldesc"
	OpNetworkStats Operation = "networkstats" // reserved
	OpDefine       Operation = "define"
	OpUndefine     Operation = "undefine"
)

// Request is the inbound envelope. Payload is only used by define, where it
// holds the description document.
type Request struct {
	Family  Family    `json:"family,omitempty"`
	Type    Operation `json:"type"`
	Payload string    `json:"payload,omitempty"`
}

// -------------------------------------------------- REPLIES ------------------------------------------------------ //

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Error condition codes used for failures that did not come from the
// hypervisor. Hypervisor failures carry the decimal hypervisor code instead.
const (
	CodeBadRequest            = "bad-request"
	CodeItemNotFound          = "item-not-found"
	CodeFeatureNotImplemented = "feature-not-implemented"
	CodeInternalServerError   = "internal-server-error"
)

// ErrorPayload is the body of an error reply.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Reply is the outbound envelope.
type Reply struct {
	Outcome Outcome       `json:"outcome"`
	Result  any           `json:"result,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// TypedReply is Reply with a concrete result type, used when decoding.
type TypedReply[T any] struct {
	Outcome Outcome       `json:"outcome"`
	Result  T             `json:"result,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// Success builds a success reply. result may be nil.
func Success(result any) Reply {
	return Reply{Outcome: OutcomeSuccess, Result: result}
}

// Failure builds an error reply.
func Failure(code, message string) Reply {
	return Reply{Outcome: OutcomeError, Error: &ErrorPayload{Code: code, Message: message}}
}

// InfoResult is the result of info.
type InfoResult struct {
	State     int    `json:"state"`
	MaxMem    uint64 `json:"maxMem"`
	Memory    uint64 `json:"memory"`
	NrVirtCPU uint   `json:"nrVirtCpu"`
	CPUTime   uint64 `json:"cpuTime"`
}

// CreateResult is the result of create.
type CreateResult struct {
	ID uint `json:"id"`
}

// ConsoleResult is the result of vncdisplay.
type ConsoleResult struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// DocumentResult is the result of xmldesc.
type DocumentResult struct {
	Document string `json:"document"`
}

// ------------------------------------------------- BROADCASTS ---------------------------------------------------- //

// Presence is the availability level broadcast by the agent.
type Presence string

const (
	PresenceAvailable    Presence = "available"
	PresenceAway         Presence = "away"
	PresenceExtendedAway Presence = "xa"
	PresenceDoNotDisturb Presence = "dnd"
	PresenceUnavailable  Presence = "unavailable"
)

// PresenceMessage is published on the presence subject.
type PresenceMessage struct {
	Presence Presence  `json:"presence"`
	Status   string    `json:"status"`
	Machine  string    `json:"machine"`
	Time     time.Time `json:"time"`
}

// Event names a completed state change.
type Event string

const (
	EventCreated   Event = "virtualmachine-created"
	EventShutdown  Event = "virtualmachine-shutdowned"
	EventRebooted  Event = "virtualmachine-rebooted"
	EventSuspended Event = "virtualmachine-suspended"
	EventResumed   Event = "virtualmachine-resumed"
	EventDefined   Event = "virtualmachine-defined"
	EventUndefined Event = "virtualmachine-undefined"
)

// EventMessage is published on the events subject.
type EventMessage struct {
	Event   Event     `json:"event"`
	Machine string    `json:"machine"`
	Time    time.Time `json:"time"`
}
