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

package paramtable

import (
	"os"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// BaseTable resolves configuration keys against process environment
// overrides, falling back to the item defaults. Keys are dotted, e.g.
// "queryPlanner.geo2dMaxCoveringCells"; the environment override for it is
// BIRCH_QUERYPLANNER_GEO2DMAXCOVERINGCELLS.
type BaseTable struct {
	mu        sync.RWMutex
	overrides map[string]string
}

func (bt *BaseTable) init() {
	bt.overrides = make(map[string]string)
}

// Save sets an in-process override for the given key. Used by tests and by
// runtime reconfiguration.
func (bt *BaseTable) Save(key, value string) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	bt.overrides[strings.ToLower(key)] = value
}

// Remove drops an in-process override.
func (bt *BaseTable) Remove(key string) {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	delete(bt.overrides, strings.ToLower(key))
}

func (bt *BaseTable) load(key string) (string, bool) {
	bt.mu.RLock()
	v, ok := bt.overrides[strings.ToLower(key)]
	bt.mu.RUnlock()
	if ok {
		return v, true
	}
	envKey := "BIRCH_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if v, ok := os.LookupEnv(envKey); ok {
		return v, true
	}
	return "", false
}

// ParamItem is one typed configuration knob.
type ParamItem struct {
	Key          string
	Version      string
	DefaultValue string
	Doc          string

	table *BaseTable
}

// Init binds the item to its base table.
func (pi *ParamItem) Init(bt *BaseTable) {
	pi.table = bt
}

// GetValue returns the raw string value of the item.
func (pi *ParamItem) GetValue() string {
	if pi.table != nil {
		if v, ok := pi.table.load(pi.Key); ok {
			return v
		}
	}
	return pi.DefaultValue
}

// GetAsInt returns the item parsed as int.
func (pi *ParamItem) GetAsInt() int {
	return cast.ToInt(pi.GetValue())
}

// GetAsInt64 returns the item parsed as int64.
func (pi *ParamItem) GetAsInt64() int64 {
	return cast.ToInt64(pi.GetValue())
}

// GetAsFloat returns the item parsed as float64.
func (pi *ParamItem) GetAsFloat() float64 {
	return cast.ToFloat64(pi.GetValue())
}

// GetAsBool returns the item parsed as bool.
func (pi *ParamItem) GetAsBool() bool {
	return cast.ToBool(pi.GetValue())
}
