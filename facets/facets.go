// Package facets narrows the fact table into per-field option sets for the
// downstream selection interface. Filters are applied cumulatively in a fixed
// field order so each facet only offers values still reachable under the
// selections made so far.
package facets

import (
	"sort"

	"github.com/samber/lo"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// Selections holds the current value chosen for each facet; empty means
// unconstrained.
type Selections struct {
	Indication     string
	Drug           string
	Brand          string
	Formulation    string
	TreatmentPhase string
	HospitalType   string
}

// Options are the valid values remaining per facet, each sorted and distinct.
type Options struct {
	Indications     []string `json:"indications"`
	Drugs           []string `json:"drugs"`
	Brands          []string `json:"brands"`
	Formulations    []string `json:"formulations"`
	TreatmentPhases []string `json:"treatment_phases"`
	HospitalTypes   []string `json:"hospital_types"`
}

// fieldOrder is the narrowing order; it matches the sequential search the
// selection interface performs.
var fieldOrder = []string{
	"indication",
	"drug",
	"brand",
	"formulation",
	"treatment_phase",
	"hospital_type",
}

// OptionsFor filters rows by the current selections, applied one field at a
// time in fieldOrder, and returns the distinct values remaining per facet.
func OptionsFor(rows []entities.Combination, sel Selections) Options {
	filtered := rows

	for _, field := range fieldOrder {
		want := selectionValue(sel, field)
		if want == "" {
			continue
		}
		filtered = lo.Filter(filtered, func(row entities.Combination, _ int) bool {
			return fieldValue(row, field) == want
		})
	}

	return Options{
		Indications:     distinctValues(filtered, "indication"),
		Drugs:           distinctValues(filtered, "drug"),
		Brands:          distinctValues(filtered, "brand"),
		Formulations:    distinctValues(filtered, "formulation"),
		TreatmentPhases: distinctValues(filtered, "treatment_phase"),
		HospitalTypes:   distinctValues(filtered, "hospital_type"),
	}
}

// Matches reports whether a row satisfies every non-empty selection; used for
// exact-match filtering of the served table.
func Matches(row entities.Combination, sel Selections) bool {
	for _, field := range fieldOrder {
		want := selectionValue(sel, field)
		if want != "" && fieldValue(row, field) != want {
			return false
		}
	}
	return true
}

func distinctValues(rows []entities.Combination, field string) []string {
	values := lo.Uniq(lo.Map(rows, func(row entities.Combination, _ int) string {
		return fieldValue(row, field)
	}))
	sort.Strings(values)
	return values
}

func fieldValue(row entities.Combination, field string) string {
	switch field {
	case "indication":
		return row.Indication
	case "drug":
		return row.Drug
	case "brand":
		return row.Brand
	case "formulation":
		return row.Formulation
	case "treatment_phase":
		return row.TreatmentPhase
	case "hospital_type":
		return row.HospitalType
	default:
		return ""
	}
}

func selectionValue(sel Selections, field string) string {
	switch field {
	case "indication":
		return sel.Indication
	case "drug":
		return sel.Drug
	case "brand":
		return sel.Brand
	case "formulation":
		return sel.Formulation
	case "treatment_phase":
		return sel.TreatmentPhase
	case "hospital_type":
		return sel.HospitalType
	default:
		return ""
	}
}
