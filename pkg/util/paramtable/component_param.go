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

import "sync"

// ComponentParam is used to quickly and easily access all components'
// configurations.
type ComponentParam struct {
	BaseTable
	once sync.Once

	QueryPlannerCfg queryPlannerConfig
}

// Init initializes the table once.
func (p *ComponentParam) Init() {
	p.once.Do(func() {
		p.BaseTable.init()
		p.QueryPlannerCfg.init(&p.BaseTable)
	})
}

// queryPlannerConfig carries the planner knobs. They are read at planner
// entry points and passed down explicitly; translation code never consults
// the table directly.
type queryPlannerConfig struct {
	Geo2DMaxCoveringCells       ParamItem
	Geo2DMaxLevel               ParamItem
	Geo2DSphereMaxCoveringCells ParamItem
	Geo2DSphereMinLevel         ParamItem
	Geo2DSphereMaxLevel         ParamItem
}

func (c *queryPlannerConfig) init(bt *BaseTable) {
	c.Geo2DMaxCoveringCells = ParamItem{
		Key:          "queryPlanner.geo2dMaxCoveringCells",
		Version:      "0.1.0",
		DefaultValue: "16",
		Doc:          "max number of covering cells generated for a $geoWithin predicate on a 2d index",
	}
	c.Geo2DMaxCoveringCells.Init(bt)

	c.Geo2DMaxLevel = ParamItem{
		Key:          "queryPlanner.geo2dMaxLevel",
		Version:      "0.1.0",
		DefaultValue: "26",
		Doc:          "finest quadtree level considered when covering a region on a 2d index",
	}
	c.Geo2DMaxLevel.Init(bt)

	c.Geo2DSphereMaxCoveringCells = ParamItem{
		Key:          "queryPlanner.geo2dsphereMaxCoveringCells",
		Version:      "0.1.0",
		DefaultValue: "20",
		Doc:          "max number of covering cells generated for a geo predicate on a 2dsphere index",
	}
	c.Geo2DSphereMaxCoveringCells.Init(bt)

	c.Geo2DSphereMinLevel = ParamItem{
		Key:          "queryPlanner.geo2dsphereMinLevel",
		Version:      "0.1.0",
		DefaultValue: "4",
		Doc:          "coarsest S2 cell level considered when covering a region",
	}
	c.Geo2DSphereMinLevel.Init(bt)

	c.Geo2DSphereMaxLevel = ParamItem{
		Key:          "queryPlanner.geo2dsphereMaxLevel",
		Version:      "0.1.0",
		DefaultValue: "23",
		Doc:          "finest S2 cell level considered when covering a region",
	}
	c.Geo2DSphereMaxLevel.Init(bt)
}

var instance ComponentParam

// Get returns the global param table, initializing it on first use.
func Get() *ComponentParam {
	instance.Init()
	return &instance
}
