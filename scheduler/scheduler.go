// Package scheduler coordinates data refreshes: the initial load at startup
// and a calendar-triggered monthly refresh, with staleness monitoring.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/cmcmaster1/rheum-biologics-helper/interfaces"
	"github.com/cmcmaster1/rheum-biologics-helper/logging"
	"github.com/cmcmaster1/rheum-biologics-helper/metrics"
	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// staleness threshold for a dataset refreshed monthly
const staleAfter = 35 * 24 * time.Hour

// Scheduler runs the pipeline on a calendar trigger using injected
// dependencies. The daily job only performs the heavy fetch on the configured
// day of the month; PBS publishes a new schedule monthly.
type Scheduler struct {
	dataStore  interfaces.DataStore
	pipeline   interfaces.Pipeline
	publisher  interfaces.Publisher
	refreshDay int
	scheduler  *gocron.Scheduler
	now        func() time.Time
}

// NewScheduler creates a scheduler with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, pipeline interfaces.Pipeline, publisher interfaces.Publisher, refreshDay int) *Scheduler {
	return &Scheduler{
		dataStore:  dataStore,
		pipeline:   pipeline,
		publisher:  publisher,
		refreshDay: refreshDay,
		scheduler:  gocron.NewScheduler(time.Local),
		now:        time.Now,
	}
}

// Start performs the initial load and schedules the daily gated refresh.
// A failed initial load is fatal: there is no data to serve without it.
func (s *Scheduler) Start() error {
	if err := s.Refresh(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Day().At("03:00").Do(func() {
		if s.now().Day() != s.refreshDay {
			logging.Debug("Skipping refresh, not the configured day",
				"refresh_day", s.refreshDay)
			return
		}
		if err := s.Refresh(); err != nil {
			logging.Error("Failed to refresh data", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule refresh", "error", err)
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Refresh runs one full pipeline pass and atomically swaps the result in.
// The run is all-or-nothing: on any error the previous dataset stays live.
func (s *Scheduler) Refresh() error {
	// Prevent concurrent refreshes
	if !s.dataStore.BeginUpdate() {
		logging.Info("Refresh already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting data refresh")
	start := time.Now()

	combinations, schedule, err := s.pipeline.Run()
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	byPBSCode := make(map[string][]entities.Combination)
	for _, row := range combinations {
		byPBSCode[row.PBSCode] = append(byPBSCode[row.PBSCode], row)
	}

	s.dataStore.UpdateData(combinations, byPBSCode, schedule)
	metrics.CombinationsLoaded.Set(float64(len(combinations)))

	if s.publisher != nil {
		if err := s.publisher.Publish(combinations); err != nil {
			// The in-memory swap already happened; a failed snapshot write
			// should not take the serving data down with it
			logging.Error("Failed to publish dataset snapshot", "error", err)
		}
	}

	logging.Info("Data refresh completed",
		"duration", time.Since(start).String(),
		"combinations", len(combinations),
		"schedule_code", schedule.ScheduleCode)

	return nil
}

// startStalenessMonitoring warns when the dataset has missed a refresh cycle
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > staleAfter {
				logging.Warn("Dataset has not been refreshed in over 35 days")
			}
		}
	}()
}
