// Copyright 2024 The birch Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License
// is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
// or implied. See the License for the specific language governing permissions and limitations under the License.

package berr

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvariant(t *testing.T) {
	assert.NotPanics(t, func() { Invariant(true, "never fires") })
	assert.Panics(t, func() { Invariant(false, "value out of range: %d", 42) })
}

func TestUnreachablePanicsWithAssertionError(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.HasAssertionFailure(err))
	}()
	Unreachable("unhandled case %q", "x")
}

func TestWrappedErrorsAreNotAssertions(t *testing.T) {
	err := WrapErrMalformedValue("bad input %q", "zzz")
	require.Error(t, err)
	assert.False(t, errors.HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "zzz")
}
