// Package dataset writes the flattened fact table as a CSV snapshot. The
// column set is the sole contract with the downstream selection interface.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cmcmaster1/rheum-biologics-helper/interfaces"
	"github.com/cmcmaster1/rheum-biologics-helper/logging"
	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// Compile-time check to ensure Writer implements Publisher
var _ interfaces.Publisher = (*Writer)(nil)

// Header is the published column order.
var Header = []string{
	"pbs_code",
	"drug",
	"brand",
	"formulation",
	"indication",
	"treatment_phase",
	"streamlined_code",
	"online_application",
	"authority_method",
	"hospital_type",
	"schedule_code",
	"schedule_year",
	"schedule_month",
}

// Writer publishes the fact table to a CSV file on disk.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting path; parent directories are created
// on first publish.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Publish writes all rows to a temporary file and renames it into place, so a
// failed run never leaves a truncated snapshot behind.
func (w *Writer) Publish(combinations []entities.Combination) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "biologics-*.csv")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(Header); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot header: %w", err)
	}

	for _, row := range combinations {
		if err := cw.Write(record(row)); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("writing snapshot row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flushing snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	logging.Info("Published dataset snapshot", "path", w.path, "rows", len(combinations))
	return nil
}

func record(row entities.Combination) []string {
	streamlined := ""
	if row.StreamlinedCode != nil {
		streamlined = *row.StreamlinedCode
	}

	return []string{
		row.PBSCode,
		row.Drug,
		row.Brand,
		row.Formulation,
		row.Indication,
		row.TreatmentPhase,
		streamlined,
		strconv.FormatBool(row.OnlineApplication),
		row.AuthorityMethod,
		row.HospitalType,
		strconv.Itoa(row.ScheduleCode),
		strconv.Itoa(row.ScheduleYear),
		row.ScheduleMonth,
	}
}
