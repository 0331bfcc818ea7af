// Package data provides thread-safe storage for the biologics fact table.
// The Container swaps complete datasets atomically so readers never observe a
// partially refreshed table.
package data

import (
	"sync/atomic"
	"time"

	"github.com/cmcmaster1/rheum-biologics-helper/interfaces"
	"github.com/cmcmaster1/rheum-biologics-helper/logging"
	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// Compile-time check to ensure Container implements DataStore
var _ interfaces.DataStore = (*Container)(nil)

// Container holds the fact table with atomic pointers for zero-downtime updates
type Container struct {
	combinations    atomic.Value // []entities.Combination
	byPBSCode       atomic.Value // map[string][]entities.Combination
	schedule        atomic.Value // entities.Schedule
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewContainer creates a Container with empty data
func NewContainer() *Container {
	c := &Container{}
	c.combinations.Store(make([]entities.Combination, 0))
	c.byPBSCode.Store(make(map[string][]entities.Combination))
	c.schedule.Store(entities.Schedule{})
	c.lastUpdated.Store(time.Time{})
	c.serverStartTime.Store(time.Time{})
	return c
}

// Thread-safe getters with type check

// GetCombinations returns the current fact table
func (c *Container) GetCombinations() []entities.Combination {
	if v := c.combinations.Load(); v != nil {
		if combinations, ok := v.([]entities.Combination); ok {
			return combinations
		}
	}

	logging.Warn("Combinations list is empty or invalid")
	return []entities.Combination{}
}

// GetPBSCodeMap returns the PBS-code index over the fact table
func (c *Container) GetPBSCodeMap() map[string][]entities.Combination {
	if v := c.byPBSCode.Load(); v != nil {
		if byCode, ok := v.(map[string][]entities.Combination); ok {
			return byCode
		}
	}

	logging.Warn("PBS code map is empty or invalid")
	return make(map[string][]entities.Combination)
}

// GetSchedule returns the schedule the current data was built from
func (c *Container) GetSchedule() entities.Schedule {
	if v := c.schedule.Load(); v != nil {
		if schedule, ok := v.(entities.Schedule); ok {
			return schedule
		}
	}

	logging.Warn("Could not get the current schedule")
	return entities.Schedule{}
}

// GetLastUpdated returns the timestamp of the last data refresh
func (c *Container) GetLastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data refresh is currently in progress
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// SetServerStartTime sets the server start time
func (c *Container) SetServerStartTime(startTime time.Time) {
	c.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (c *Container) GetServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically swaps in a freshly built fact table
func (c *Container) UpdateData(combinations []entities.Combination, byPBSCode map[string][]entities.Combination, schedule entities.Schedule) {
	c.combinations.Store(combinations)
	c.byPBSCode.Store(byPBSCode)
	c.schedule.Store(schedule)
	c.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a refresh.
// Returns true if the refresh can proceed, false if another is in progress
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a refresh
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}
