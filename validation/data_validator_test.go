package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

func validItem() *entities.BiologicItem {
	return &entities.BiologicItem{
		PBSCode:     "11138J",
		Drug:        "adalimumab",
		Brands:      []string{"Humira", "Amgevita"},
		Formulation: "subcut pen",
		Restrictions: []entities.RestrictionFact{
			{ResCode: "7501", Indication: "Rheumatoid Arthritis"},
		},
	}
}

func TestValidateItem(t *testing.T) {
	validator := NewDataValidator()

	assert.NoError(t, validator.ValidateItem(validItem()))
}

func TestValidateItemRejectsInvalidItems(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*entities.BiologicItem)
		want   string
	}{
		{"missing PBS code", func(i *entities.BiologicItem) { i.PBSCode = "" }, "no PBS code"},
		{"no brands", func(i *entities.BiologicItem) { i.Brands = nil }, "no brands"},
		{"no restrictions", func(i *entities.BiologicItem) { i.Restrictions = nil }, "no restrictions"},
		{"duplicate brands", func(i *entities.BiologicItem) { i.Brands = []string{"Humira", "Humira"} }, "duplicate brand"},
	}

	validator := NewDataValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := validItem()
			tc.mutate(item)

			err := validator.ValidateItem(item)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateItemNil(t *testing.T) {
	assert.Error(t, NewDataValidator().ValidateItem(nil))
}

func TestReportDataQuality(t *testing.T) {
	unknown := validItem()
	unknown.PBSCode = "99999X"
	unknown.Formulation = "unknown"

	items := map[string]*entities.BiologicItem{
		"11138J": validItem(),
		"99999X": unknown,
	}

	combinations := []entities.Combination{
		{PBSCode: "11138J", Brand: "Humira", Indication: "Rheumatoid Arthritis"},
		{PBSCode: "11138J", Brand: "Amgevita", Indication: "Rheumatoid Arthritis"},
		{PBSCode: "11138J", Brand: "Humira", Indication: "Rheumatoid Arthritis"},
	}

	report := NewDataValidator().ReportDataQuality(items, combinations)

	assert.Equal(t, 2, report.TotalItems)
	assert.Equal(t, 3, report.TotalCombinations)
	assert.Equal(t, 1, report.DuplicateCombinations)
	assert.Equal(t, []string{"99999X"}, report.UnknownFormulations)
	assert.Empty(t, report.ItemsWithoutBrands)
}

func TestReportDataQualityDistinguishesByRestrictionFields(t *testing.T) {
	// rows differing only in treatment phase are distinct, not duplicates
	combinations := []entities.Combination{
		{PBSCode: "11138J", Brand: "Humira", Indication: "Rheumatoid Arthritis", TreatmentPhase: "Initial treatment"},
		{PBSCode: "11138J", Brand: "Humira", Indication: "Rheumatoid Arthritis", TreatmentPhase: "Continuing treatment"},
	}

	report := NewDataValidator().ReportDataQuality(nil, combinations)
	assert.Equal(t, 0, report.DuplicateCombinations)
}
