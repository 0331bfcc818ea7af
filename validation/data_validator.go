// Package validation checks the pipeline output against its structural
// invariants and produces a data quality report for logging.
package validation

import (
	"fmt"
	"strings"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// DataQualityReport summarizes issues found in one pipeline run. Duplicate
// combinations are expected source-data noise and are reported, not removed.
type DataQualityReport struct {
	TotalItems            int
	TotalCombinations     int
	DuplicateCombinations int
	UnknownFormulations   []string // PBS codes classified as unknown
	ItemsWithoutBrands    []string // PBS codes violating the brand invariant
}

// DataValidator validates aggregated items and flattened combinations
type DataValidator struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// ValidateItem checks the invariants every emitted item must satisfy: at
// least one brand, at least one restriction, no duplicate brands.
func (v *DataValidator) ValidateItem(item *entities.BiologicItem) error {
	if item == nil {
		return fmt.Errorf("item is nil")
	}

	if item.PBSCode == "" {
		return fmt.Errorf("item has no PBS code")
	}

	if len(item.Brands) == 0 {
		return fmt.Errorf("item %s has no brands", item.PBSCode)
	}

	if len(item.Restrictions) == 0 {
		return fmt.Errorf("item %s has no restrictions", item.PBSCode)
	}

	seen := make(map[string]bool, len(item.Brands))
	for _, brand := range item.Brands {
		if seen[brand] {
			return fmt.Errorf("item %s has duplicate brand %q", item.PBSCode, brand)
		}
		seen[brand] = true
	}

	return nil
}

// ReportDataQuality inspects a run's output and returns a report of
// everything worth logging.
func (v *DataValidator) ReportDataQuality(items map[string]*entities.BiologicItem, combinations []entities.Combination) *DataQualityReport {
	report := &DataQualityReport{
		TotalItems:        len(items),
		TotalCombinations: len(combinations),
	}

	for pbsCode, item := range items {
		if item.Formulation == "unknown" {
			report.UnknownFormulations = append(report.UnknownFormulations, pbsCode)
		}
		if len(item.Brands) == 0 {
			report.ItemsWithoutBrands = append(report.ItemsWithoutBrands, pbsCode)
		}
	}

	seen := make(map[string]bool, len(combinations))
	for _, row := range combinations {
		key := combinationKey(row)
		if seen[key] {
			report.DuplicateCombinations++
		}
		seen[key] = true
	}

	return report
}

func combinationKey(row entities.Combination) string {
	streamlined := ""
	if row.StreamlinedCode != nil {
		streamlined = *row.StreamlinedCode
	}

	return strings.Join([]string{
		row.PBSCode,
		row.Brand,
		row.Indication,
		row.TreatmentPhase,
		streamlined,
		row.AuthorityMethod,
	}, "|")
}
