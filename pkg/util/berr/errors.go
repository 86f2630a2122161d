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

// Package berr defines the leaf errors shared across birch components.
//
// WARN: take care to add new error, check whether you can use the errors
// below before adding a new one.
package berr

import (
	"github.com/cockroachdb/errors"
)

var (
	// Parameter related
	ErrParameterInvalid = errors.New("invalid parameter")

	// Catalog related
	ErrInvalidClusteredSpec = errors.New("invalid clustered index spec")
	ErrIndexNotFound        = errors.New("index not found")

	// Planner related
	ErrUnsupportedPredicate = errors.New("predicate not supported by index bounds")
	ErrMalformedValue       = errors.New("malformed value")
)

// WrapErrParameterInvalidMsg wraps ErrParameterInvalid with a formatted message.
func WrapErrParameterInvalidMsg(format string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, format, args...)
}

// WrapErrInvalidClusteredSpec wraps ErrInvalidClusteredSpec with a formatted message.
func WrapErrInvalidClusteredSpec(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidClusteredSpec, format, args...)
}

// WrapErrIndexNotFound wraps ErrIndexNotFound with a formatted message.
func WrapErrIndexNotFound(format string, args ...any) error {
	return errors.Wrapf(ErrIndexNotFound, format, args...)
}

// WrapErrUnsupportedPredicate wraps ErrUnsupportedPredicate with a formatted message.
func WrapErrUnsupportedPredicate(format string, args ...any) error {
	return errors.Wrapf(ErrUnsupportedPredicate, format, args...)
}

// WrapErrMalformedValue wraps ErrMalformedValue with a formatted message.
func WrapErrMalformedValue(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedValue, format, args...)
}
