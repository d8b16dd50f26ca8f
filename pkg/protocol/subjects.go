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

package protocol

import "fmt"

const DefaultSubjectPrefix = "vmagent"

// Subjects are the channel addresses of one agent. The machine identity is
// part of every subject.
type Subjects struct {
	Control    string
	Definition string
	Presence   string
	Events     string
	// Queue is the queue group shared by the request subscriptions.
	Queue string
}

// SubjectsFor returns the subjects of the agent bound to machineID.
func SubjectsFor(prefix, machineID string) Subjects {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	base := fmt.Sprintf("%s.%s", prefix, machineID)

	return Subjects{
		Control:    base + ".control",
		Definition: base + ".definition",
		Presence:   base + ".presence",
		Events:     base + ".events",
		Queue:      base,
	}
}

// ForFamily returns the request subject of a family.
func (s Subjects) ForFamily(f Family) (string, bool) {
	switch f {
	case FamilyControl:
		return s.Control, true
	case FamilyDefinition:
		return s.Definition, true
	default:
		return "", false
	}
}

// FamilyOf returns the family served on a request subject.
func (s Subjects) FamilyOf(subject string) (Family, bool) {
	switch subject {
	case s.Control:
		return FamilyControl, true
	case s.Definition:
		return FamilyDefinition, true
	default:
		return "", false
	}
}

// FamilyForOperation returns the family an operation belongs to. The reserved
// networkstats operation belongs to the control family.
func FamilyForOperation(op Operation) (Family, bool) {
	switch op {
	case OpInfo, OpCreate, OpShutdown, OpReboot, OpSuspend, OpResume, OpVNCDisplay, OpXMLDesc, OpNetworkStats:
		return FamilyControl, true
	case OpDefine, OpUndefine:
		return FamilyDefinition, true
	default:
		return "", false
	}
}
