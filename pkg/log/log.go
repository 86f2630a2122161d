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

// Package log provides the process-wide structured logger. All birch
// components log through this package rather than holding their own
// zap instances, so that level and output configuration stay in one place.
package log

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	_globalMu sync.Mutex
	_globalL  atomic.Pointer[zap.Logger]
	_globalS  atomic.Pointer[zap.SugaredLogger]
)

func init() {
	logger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	replaceGlobal(logger)
}

func replaceGlobal(logger *zap.Logger) {
	_globalL.Store(logger)
	_globalS.Store(logger.Sugar())
}

// L returns the global logger.
func L() *zap.Logger {
	return _globalL.Load()
}

// S returns the global sugared logger.
func S() *zap.SugaredLogger {
	return _globalS.Load()
}

// ReplaceGlobals swaps in a custom logger and returns a function that
// restores the previous one. Intended for tests and process bootstrap.
func ReplaceGlobals(logger *zap.Logger) func() {
	_globalMu.Lock()
	defer _globalMu.Unlock()
	prev := _globalL.Load()
	replaceGlobal(logger)
	return func() { replaceGlobal(prev) }
}

// SetLevel rebuilds the global logger at the given level, keeping the
// production encoder.
func SetLevel(level zapcore.Level) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	_globalMu.Lock()
	defer _globalMu.Unlock()
	replaceGlobal(logger)
}

// With creates a child logger with the given fields attached.
func With(fields ...zap.Field) *zap.Logger {
	return L().WithOptions(zap.AddCallerSkip(-1)).With(fields...)
}

// Debug logs a message at DebugLevel.
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info logs a message at InfoLevel.
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}
