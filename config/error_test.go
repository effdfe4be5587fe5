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

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	baseErr := errors.New("base error")

	tests := []struct {
		name    string
		err     *Error
		wantMsg string
	}{
		{
			name:    "with field",
			err:     NewFieldError("binding", "cache.driver", "validate", baseErr),
			wantMsg: "config error in binding.cache.driver during validate: base error",
		},
		{
			name:    "without field",
			err:     NewError("source[1]", "load", baseErr),
			wantMsg: "config error in source[1] during load: base error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, baseErr)

			var target *Error
			require.ErrorAs(t, error(tt.err), &target)
			assert.Equal(t, tt.err.Operation, target.Operation)
		})
	}
}
