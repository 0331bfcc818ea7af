// Package interfaces defines the core abstractions wired together in main:
// the data container, the pipeline, the publisher and the scheduler.
package interfaces

import (
	"time"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// DataStore provides thread-safe access to the biologics fact table with
// atomic swaps for zero-downtime refreshes.
type DataStore interface {
	GetCombinations() []entities.Combination
	GetPBSCodeMap() map[string][]entities.Combination
	GetSchedule() entities.Schedule
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateData(combinations []entities.Combination, byPBSCode map[string][]entities.Combination, schedule entities.Schedule)
	BeginUpdate() bool
	EndUpdate()
}

// Pipeline runs one full fetch-join-classify-flatten pass against the PBS API
// and returns the flattened fact table for the currently effective schedule.
type Pipeline interface {
	Run() ([]entities.Combination, entities.Schedule, error)
}

// Publisher receives the fact table once per successful pipeline run.
type Publisher interface {
	Publish(combinations []entities.Combination) error
}

// Scheduler manages the initial load and the calendar-triggered refresh.
type Scheduler interface {
	Start() error
	Stop()
}
