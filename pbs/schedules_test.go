package pbs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

func TestSelectScheduleMatchesCurrentMonth(t *testing.T) {
	schedules := []entities.Schedule{
		{ScheduleCode: 1, EffectiveYear: 2024, EffectiveMonth: "FEBRUARY"},
		{ScheduleCode: 2, EffectiveYear: 2024, EffectiveMonth: "MARCH"},
		{ScheduleCode: 3, EffectiveYear: 2024, EffectiveMonth: "APRIL"},
	}

	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, SelectSchedule(schedules, now).ScheduleCode)
}

func TestSelectScheduleFallsBackToFirst(t *testing.T) {
	schedules := []entities.Schedule{
		{ScheduleCode: 2, EffectiveYear: 2024, EffectiveMonth: "MARCH"},
	}

	// No schedule for June; the first element is used
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, SelectSchedule(schedules, now).ScheduleCode)
}

func TestSelectScheduleRequiresMatchingYear(t *testing.T) {
	schedules := []entities.Schedule{
		{ScheduleCode: 9, EffectiveYear: 2023, EffectiveMonth: "DECEMBER"},
		{ScheduleCode: 4, EffectiveYear: 2023, EffectiveMonth: "MARCH"},
	}

	// MARCH exists but for the wrong year, so the fallback applies
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, SelectSchedule(schedules, now).ScheduleCode)
}
