package pbs

import (
	"strings"

	"github.com/samber/lo"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

const (
	authorityStreamlined = "STREAMLINED"

	// Restrictions whose schedule text carries the postal lodgement address
	// cannot be applied for online.
	postalOnlyMarker = "HOBART TAS 7001"
)

// Aggregate filters the item table down to biologics, groups rows by PBS code
// with deduplicated brand lists, and resolves each item's restrictions to the
// rheumatic indications they cover. Items with no matching restriction are
// dropped.
//
// Two silent-data-loss policies from the upstream dataset are deliberate and
// must not be "fixed": duplicate index keys keep the first occurrence, and
// each restriction contributes at most one fact, for the first linked
// prescribing text whose condition matches the disease list.
func Aggregate(idx *Indexes, items []Row, schedule entities.Schedule, biologics, diseases []string) map[string]*entities.BiologicItem {
	records := make(map[string]*entities.BiologicItem)

	for _, item := range items {
		if !matchesAny(item.Get("drug_name"), biologics) {
			continue
		}

		pbsCode := item.Get("pbs_code")
		if pbsCode == "" {
			continue
		}

		record, ok := records[pbsCode]
		if !ok {
			record = &entities.BiologicItem{
				PBSCode:                pbsCode,
				Drug:                   item.Get("drug_name"),
				Brands:                 []string{},
				Formulation:            ClassifyFormulation(item.Get("li_form")),
				LIForm:                 item.Get("li_form"),
				ScheduleForm:           item.Get("schedule_form"),
				MannerOfAdministration: item.Get("manner_of_administration"),
				MaximumQuantity:        item.Get("maximum_quantity_units"),
				NumberOfRepeats:        item.Get("number_of_repeats"),
				HospitalType:           ClassifyHospitalType(item.Get("program_code")),
				Restrictions:           []entities.RestrictionFact{},
				ScheduleCode:           schedule.ScheduleCode,
				ScheduleYear:           schedule.EffectiveYear,
				ScheduleMonth:          schedule.EffectiveMonth,
			}
			records[pbsCode] = record
		}

		if brand := item.Get("brand_name"); brand != "" && !lo.Contains(record.Brands, brand) {
			record.Brands = append(record.Brands, brand)
		}
	}

	for pbsCode, record := range records {
		for _, resCode := range idx.ItemRestrictions[pbsCode] {
			restriction, ok := idx.Restrictions[resCode]
			if !ok {
				continue
			}

			if fact, ok := resolveRestriction(idx, resCode, restriction, diseases); ok {
				record.Restrictions = append(record.Restrictions, fact)
			}
		}
	}

	// An item outside the rheumatic indications is an absence, not an error
	for pbsCode, record := range records {
		if len(record.Restrictions) == 0 {
			delete(records, pbsCode)
		}
	}

	return records
}

// resolveRestriction walks the prescribing texts linked to a restriction in
// link order and emits a fact for the first one whose indication matches the
// disease list. Scanning stops at that first match even if later texts would
// match different diseases.
func resolveRestriction(idx *Indexes, resCode string, restriction Row, diseases []string) (entities.RestrictionFact, bool) {
	for _, textID := range idx.RestrictionPrescribingTexts[resCode] {
		indication, ok := idx.Indications[textID]
		if !ok {
			continue
		}

		disease, found := matchDisease(indication.Get("condition"), diseases)
		if !found {
			continue
		}

		fact := entities.RestrictionFact{
			ResCode:           resCode,
			Indication:        disease,
			TreatmentPhase:    restriction.Get("treatment_phase"),
			RestrictionText:   restriction.Get("li_html_text"),
			AuthorityMethod:   restriction.Get("authority_method"),
			OnlineApplication: !strings.Contains(restriction.Get("schedule_html_text"), postalOnlyMarker),
		}

		if fact.AuthorityMethod == authorityStreamlined {
			code := restriction.Get("treatment_of_code")
			fact.StreamlinedCode = &code
		}

		return fact, true
	}

	return entities.RestrictionFact{}, false
}

// matchDisease returns the first disease-list entry contained in the
// condition text, case-insensitively.
func matchDisease(condition string, diseases []string) (string, bool) {
	lower := strings.ToLower(condition)
	for _, disease := range diseases {
		if strings.Contains(lower, strings.ToLower(disease)) {
			return disease, true
		}
	}
	return "", false
}

// matchesAny reports whether text contains any of the names,
// case-insensitively.
func matchesAny(text string, names []string) bool {
	lower := strings.ToLower(text)
	return lo.SomeBy(names, func(name string) bool {
		return strings.Contains(lower, strings.ToLower(name))
	})
}
