package pbs

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

func flattenFixture() *Tables {
	tables := linkedTables([]Row{
		biologicItemRow("X1", "Adalimumab", "Humira"),
		biologicItemRow("X1", "Adalimumab", "Amgevita"),
		biologicItemRow("X1", "Adalimumab", "Hadlima"),
	})

	tables.Restrictions = append(tables.Restrictions, Row{
		"res_code":           "R2",
		"treatment_phase":    "Continuing treatment",
		"li_html_text":       "Patient must have previously received PBS-subsidised treatment",
		"authority_method":   "WRITTEN",
		"schedule_html_text": "Apply online",
	})
	tables.ItemRestrictions = append(tables.ItemRestrictions, Row{"pbs_code": "X1", "res_code": "R2"})
	tables.RestrictionPrescribingTexts = append(tables.RestrictionPrescribingTexts,
		Row{"res_code": "R2", "prescribing_text_id": "T1"})

	return tables
}

func TestFlattenCardinality(t *testing.T) {
	tables := flattenFixture()
	idx := BuildIndexes(tables)

	records := Aggregate(idx, tables.Items, testSchedule,
		[]string{"Adalimumab"}, []string{"Rheumatoid Arthritis"})
	require.Len(t, records, 1)

	combinations := Flatten(records)

	// |brands| x |restriction facts| rows per item
	record := records["X1"]
	assert.Len(t, combinations, len(record.Brands)*len(record.Restrictions))
	assert.Len(t, combinations, 6)
}

func TestFlattenRowFields(t *testing.T) {
	tables := linkedTables([]Row{biologicItemRow("X1", "Adalimumab", "Humira")})
	idx := BuildIndexes(tables)

	records := Aggregate(idx, tables.Items, testSchedule,
		[]string{"Adalimumab"}, []string{"Rheumatoid Arthritis"})
	combinations := Flatten(records)

	require.Len(t, combinations, 1)
	row := combinations[0]

	assert.Equal(t, "X1", row.PBSCode)
	assert.Equal(t, "Adalimumab", row.Drug)
	assert.Equal(t, "Humira", row.Brand)
	// The flat row carries the raw listing form, not the classified category
	assert.Equal(t, "Injection 40 mg in 0.4 mL pre-filled pen", row.Formulation)
	assert.Equal(t, "Rheumatoid Arthritis", row.Indication)
	assert.Equal(t, HospitalPrivate, row.HospitalType)
	assert.Equal(t, 1234, row.ScheduleCode)
	assert.Equal(t, 2024, row.ScheduleYear)
	assert.Equal(t, "MARCH", row.ScheduleMonth)
}

func TestJoinAndFlattenIsIdempotent(t *testing.T) {
	tables := flattenFixture()

	run := func() []entities.Combination {
		idx := BuildIndexes(tables)
		records := Aggregate(idx, tables.Items, testSchedule,
			[]string{"Adalimumab"}, []string{"Rheumatoid Arthritis"})
		return Flatten(records)
	}

	first := run()
	second := run()

	assert.ElementsMatch(t, combinationKeys(first), combinationKeys(second))
}

func combinationKeys(rows []entities.Combination) []string {
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		streamlined := ""
		if row.StreamlinedCode != nil {
			streamlined = *row.StreamlinedCode
		}
		keys = append(keys, fmt.Sprintf("%s|%s|%s|%s|%s|%v",
			row.PBSCode, row.Brand, row.Indication, row.TreatmentPhase, streamlined, row.OnlineApplication))
	}
	sort.Strings(keys)
	return keys
}
