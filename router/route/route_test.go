// Copyright 2026 The Centreon Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package route

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Kind
	}{
		{"/hosts/[i:id]", KindPath},
		{"/", KindPath},
		{"404", KindNotFound},
		{"405", KindMethodNotAllowed},
		{"@login", KindVirtual},
		{"/404", KindPath},
		{"4045", KindPath},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.path), tt.path)
	}
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "path", KindPath.String())
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	for _, m := range Methods {
		r := Record{ControllerID: "c", Action: "a", Path: "/x", Method: m}
		require.NoError(t, r.Validate(), m)
	}

	for _, m := range []string{"get", "HEAD", "OPTIONS", ""} {
		r := Record{ControllerID: "c", Action: "a", Path: "/x", Method: m}
		err := r.Validate()
		require.ErrorIs(t, err, ErrInvalidMethod, m)
	}
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	r := NewRecord("centreon/controllers/HostController", "show",
		Spec{Route: "/hosts/[i:id]", MethodType: "GET", ACL: "hosts.read"})

	assert.Equal(t, Record{
		ControllerID: "centreon/controllers/HostController",
		Action:       "show",
		Path:         "/hosts/[i:id]",
		Method:       "GET",
		ACL:          "hosts.read",
	}, r)
	assert.Equal(t, "/hosts/[i:id]", r.Name())
	assert.Equal(t, KindPath, r.Kind())
	assert.Equal(t, "GET /hosts/[i:id] -> centreon/controllers/HostController::show", r.String())
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := Table{Records: []Record{
		{ControllerID: "a", Action: "x", Path: "/a", Method: "GET"},
		{ControllerID: "b", Action: "y", Path: "/b", Method: "GET"},
		{ControllerID: "a", Action: "z", Path: "/a/[i:id]", Method: "POST"},
	}}

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"a", "b"}, tbl.Controllers())
	assert.Len(t, tbl.ByController("a"), 2)
	assert.Empty(t, tbl.ByController("nope"))

	same := Table{Records: append([]Record(nil), tbl.Records...)}
	assert.True(t, tbl.Equal(same))

	reordered := Table{Records: []Record{tbl.Records[1], tbl.Records[0], tbl.Records[2]}}
	assert.False(t, tbl.Equal(reordered), "order is part of equality")

	_, ok := tbl.NotFound()
	assert.False(t, ok)
}

func TestTable_NotFound(t *testing.T) {
	t.Parallel()

	tbl := Table{Records: []Record{
		{ControllerID: "core/controllers/ErrorController", Action: "notFound", Path: NotFoundPath, Method: "GET"},
		{ControllerID: "a", Action: "x", Path: "/a", Method: "GET"},
		{ControllerID: "ext/controllers/FallbackController", Action: "missing", Path: NotFoundPath, Method: "GET"},
		{ControllerID: "a", Action: "y", Path: "/b", Method: "GET"},
	}}

	nf, ok := tbl.NotFound()
	require.True(t, ok)
	assert.Equal(t, NotFound{ControllerID: "ext/controllers/FallbackController", Action: "missing", Method: "GET"}, nf)
}

func TestTable_JSON(t *testing.T) {
	t.Parallel()

	tbl := Table{Records: []Record{
		{ControllerID: "a", Action: "x", Path: "/a", Method: "GET", ACL: "acl.a"},
		{ControllerID: "a", Action: "nf", Path: "404", Method: "GET"},
	}}

	data, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"method":"GET"`)

	var decoded Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, tbl.Equal(decoded))
}

func TestSpec_JSONTags(t *testing.T) {
	t.Parallel()

	var specs Specs
	require.NoError(t, json.Unmarshal([]byte(`{"show":{"route":"/hosts/[i:id]","method_type":"GET","acl":"hosts"}}`), &specs))
	assert.Equal(t, Spec{Route: "/hosts/[i:id]", MethodType: "GET", ACL: "hosts"}, specs["show"])
}
