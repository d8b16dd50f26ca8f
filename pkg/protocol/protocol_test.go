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

package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vmagent/pkg/protocol"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		expected    string
		expectErr   bool
	}{
		{name: "empty defaults to json", contentType: "", expected: protocol.ContentTypeJSON},
		{name: "json", contentType: "application/json", expected: protocol.ContentTypeJSON},
		{name: "json with charset", contentType: "application/json; charset=utf-8", expected: protocol.ContentTypeJSON},
		{name: "cbor", contentType: "application/cbor", expected: protocol.ContentTypeCBOR},
		{name: "xml", contentType: "application/xml", expectErr: true},
		{name: "garbage", contentType: ";;", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := protocol.CodecFor(tt.contentType)
			if tt.expectErr {
				assert.ErrorIs(t, err, protocol.ErrUnsupportedContentType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, codec.ContentType())
		})
	}
}

func TestJSON_WireFormat(t *testing.T) {
	out, err := protocol.JSON.Marshal(protocol.Success(protocol.InfoResult{
		State: 1, MaxMem: 1048576, Memory: 524288, NrVirtCPU: 2, CPUTime: 42,
	}))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"outcome":"success","result":{"state":1,"maxMem":1048576,"memory":524288,"nrVirtCpu":2,"cpuTime":42}}`,
		string(out))

	out, err = protocol.JSON.Marshal(protocol.Failure("55", "domain is already running"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"error","error":{"code":"55","message":"domain is already running"}}`, string(out))

	out, err = protocol.JSON.Marshal(protocol.Success(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"success"}`, string(out))
}

func TestCodecs_TypedReply(t *testing.T) {
	for _, codec := range []protocol.Codec{protocol.JSON, protocol.CBOR} {
		t.Run(codec.ContentType(), func(t *testing.T) {
			data, err := codec.Marshal(protocol.Success(protocol.ConsoleResult{Port: 5901, Host: "10.0.0.7"}))
			require.NoError(t, err)

			var reply protocol.TypedReply[protocol.ConsoleResult]
			require.NoError(t, codec.Unmarshal(data, &reply))
			assert.Equal(t, protocol.OutcomeSuccess, reply.Outcome)
			assert.Equal(t, protocol.ConsoleResult{Port: 5901, Host: "10.0.0.7"}, reply.Result)
			assert.Nil(t, reply.Error)

			data, err = codec.Marshal(protocol.Request{Type: protocol.OpDefine, Payload: "<domain/>"})
			require.NoError(t, err)

			var req protocol.Request
			require.NoError(t, codec.Unmarshal(data, &req))
			assert.Equal(t, protocol.OpDefine, req.Type)
			assert.Equal(t, "<domain/>", req.Payload)
		})
	}
}

func TestSubjectsFor(t *testing.T) {
	s := protocol.SubjectsFor("", "1234")

	assert.Equal(t, "vmagent.1234.control", s.Control)
	assert.Equal(t, "vmagent.1234.definition", s.Definition)
	assert.Equal(t, "vmagent.1234.presence", s.Presence)
	assert.Equal(t, "vmagent.1234.events", s.Events)
	assert.Equal(t, "vmagent.1234", s.Queue)

	subject, ok := s.ForFamily(protocol.FamilyDefinition)
	require.True(t, ok)
	family, ok := s.FamilyOf(subject)
	require.True(t, ok)
	assert.Equal(t, protocol.FamilyDefinition, family)

	_, ok = s.ForFamily("bogus")
	assert.False(t, ok)
	_, ok = s.FamilyOf("vmagent.1234.presence")
	assert.False(t, ok)

	assert.Equal(t, "lab.1234.control", protocol.SubjectsFor("lab", "1234").Control)
}

func TestFamilyForOperation(t *testing.T) {
	for _, op := range []protocol.Operation{
		protocol.OpInfo, protocol.OpCreate, protocol.OpShutdown, protocol.OpReboot,
		protocol.OpSuspend, protocol.OpResume, protocol.OpVNCDisplay, protocol.OpXMLDesc,
		protocol.OpNetworkStats,
	} {
		f, ok := protocol.FamilyForOperation(op)
		assert.True(t, ok, op)
		assert.Equal(t, protocol.FamilyControl, f, op)
	}

	for _, op := range []protocol.Operation{protocol.OpDefine, protocol.OpUndefine} {
		f, ok := protocol.FamilyForOperation(op)
		assert.True(t, ok, op)
		assert.Equal(t, protocol.FamilyDefinition, f, op)
	}

	_, ok := protocol.FamilyForOperation("migrate")
	assert.False(t, ok)
}
