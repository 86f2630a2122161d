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
	"github.com/cockroachdb/errors"
)

// Invariant panics with an assertion failure when cond is false. It marks
// a bug in the caller or in this process, never a data problem; callers at
// the planning-attempt boundary may recover and abort the attempt.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(errors.AssertionFailedf(format, args...))
	}
}

// Unreachable panics with an assertion failure. Used for branches that a
// correct caller can never reach.
func Unreachable(format string, args ...any) {
	panic(errors.AssertionFailedf(format, args...))
}
