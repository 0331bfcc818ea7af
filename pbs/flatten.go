package pbs

import "github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"

// Flatten expands each aggregated item into one fact-table row per
// (restriction, brand) pair. Every emitted row traces to exactly one item;
// duplicate rows can occur when the upstream link tables carry duplicate
// links and are passed through as-is.
func Flatten(records map[string]*entities.BiologicItem) []entities.Combination {
	var combinations []entities.Combination

	for pbsCode, record := range records {
		for _, restriction := range record.Restrictions {
			for _, brand := range record.Brands {
				combinations = append(combinations, entities.Combination{
					PBSCode:           pbsCode,
					Drug:              record.Drug,
					Brand:             brand,
					Formulation:       record.LIForm,
					Indication:        restriction.Indication,
					TreatmentPhase:    restriction.TreatmentPhase,
					StreamlinedCode:   restriction.StreamlinedCode,
					OnlineApplication: restriction.OnlineApplication,
					AuthorityMethod:   restriction.AuthorityMethod,
					HospitalType:      record.HospitalType,
					ScheduleCode:      record.ScheduleCode,
					ScheduleYear:      record.ScheduleYear,
					ScheduleMonth:     record.ScheduleMonth,
				})
			}
		}
	}

	return combinations
}
