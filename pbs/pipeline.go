package pbs

import (
	"fmt"
	"time"

	"github.com/cmcmaster1/rheum-biologics-helper/interfaces"
	"github.com/cmcmaster1/rheum-biologics-helper/logging"
	"github.com/cmcmaster1/rheum-biologics-helper/metrics"
	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
	"github.com/cmcmaster1/rheum-biologics-helper/validation"
)

// Compile-time check to ensure Pipeline implements interfaces.Pipeline
var _ interfaces.Pipeline = (*Pipeline)(nil)

// Pipeline runs the full fetch-join-classify-flatten pass. It holds no state
// between runs: every Run recomputes the fact table from scratch.
type Pipeline struct {
	client    *Client
	biologics []string
	diseases  []string
	now       func() time.Time
}

// NewPipeline creates a pipeline over the given client and name lists.
func NewPipeline(client *Client, biologics, diseases []string) *Pipeline {
	return &Pipeline{
		client:    client,
		biologics: biologics,
		diseases:  diseases,
		now:       time.Now,
	}
}

// Run fetches the currently effective schedule's tables, joins them into
// aggregated items and flattens those into the fact table. Execution is
// strictly sequential; any fetch failure aborts the run with no partial
// output.
func (p *Pipeline) Run() ([]entities.Combination, entities.Schedule, error) {
	start := time.Now()

	schedules, err := p.client.GetSchedules()
	if err != nil {
		return nil, entities.Schedule{}, err
	}

	schedule := SelectSchedule(schedules, p.now())
	logging.Info("Selected schedule",
		"schedule_code", schedule.ScheduleCode,
		"effective", schedule.EffectiveDate)

	tables, err := p.client.FetchTables(schedule.ScheduleCode)
	if err != nil {
		return nil, entities.Schedule{}, fmt.Errorf("fetching schedule %d tables: %w", schedule.ScheduleCode, err)
	}

	indexes := BuildIndexes(tables)
	records := Aggregate(indexes, tables.Items, schedule, p.biologics, p.diseases)
	combinations := Flatten(records)

	report := validation.NewDataValidator().ReportDataQuality(records, combinations)
	if report.DuplicateCombinations > 0 {
		logging.Warn("Duplicate combinations in upstream link data",
			"count", report.DuplicateCombinations)
	}
	if len(report.UnknownFormulations) > 0 {
		logging.Warn("Items with unclassified formulations",
			"count", len(report.UnknownFormulations),
			"pbs_codes", report.UnknownFormulations)
	}

	elapsed := time.Since(start)
	metrics.PipelineDuration.Observe(elapsed.Seconds())
	logging.Info("Pipeline run completed",
		"duration", elapsed.String(),
		"items", len(records),
		"combinations", len(combinations))

	return combinations, schedule, nil
}
