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
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestParam() *ComponentParam {
	p := &ComponentParam{}
	p.Init()
	return p
}

func TestQueryPlannerDefaults(t *testing.T) {
	p := newTestParam()
	assert.Equal(t, 16, p.QueryPlannerCfg.Geo2DMaxCoveringCells.GetAsInt())
	assert.Equal(t, 26, p.QueryPlannerCfg.Geo2DMaxLevel.GetAsInt())
	assert.Equal(t, 20, p.QueryPlannerCfg.Geo2DSphereMaxCoveringCells.GetAsInt())
	assert.Equal(t, 4, p.QueryPlannerCfg.Geo2DSphereMinLevel.GetAsInt())
	assert.Equal(t, 23, p.QueryPlannerCfg.Geo2DSphereMaxLevel.GetAsInt())
}

func TestSaveOverridesDefault(t *testing.T) {
	p := newTestParam()
	item := &p.QueryPlannerCfg.Geo2DMaxCoveringCells

	p.Save(item.Key, "64")
	assert.Equal(t, 64, item.GetAsInt())

	p.Remove(item.Key)
	assert.Equal(t, 16, item.GetAsInt())
}

func TestSaveIsCaseInsensitive(t *testing.T) {
	p := newTestParam()
	p.Save("QUERYPLANNER.GEO2DSPHEREMINLEVEL", "7")
	assert.Equal(t, 7, p.QueryPlannerCfg.Geo2DSphereMinLevel.GetAsInt())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BIRCH_QUERYPLANNER_GEO2DSPHEREMAXLEVEL", "30")
	p := newTestParam()
	assert.Equal(t, 30, p.QueryPlannerCfg.Geo2DSphereMaxLevel.GetAsInt())

	// In-process overrides win over the environment.
	p.Save(p.QueryPlannerCfg.Geo2DSphereMaxLevel.Key, "12")
	assert.Equal(t, 12, p.QueryPlannerCfg.Geo2DSphereMaxLevel.GetAsInt())
}

func TestParamItemTypedAccessors(t *testing.T) {
	bt := &BaseTable{}
	bt.init()
	item := ParamItem{Key: "test.knob", DefaultValue: "2.5"}
	item.Init(bt)

	assert.Equal(t, "2.5", item.GetValue())
	assert.Equal(t, 2.5, item.GetAsFloat())

	bt.Save("test.knob", "true")
	assert.True(t, item.GetAsBool())

	bt.Save("test.knob", "9001")
	assert.Equal(t, int64(9001), item.GetAsInt64())
}
