package pbs

// Indexes are the hash indices the joins run on. Record indices keep the
// first occurrence of a key and ignore later duplicates; multimaps keep every
// link in the order the API returned it, which matters because restriction
// resolution stops at the first matching prescribing text.
type Indexes struct {
	// prescribing_txt_id -> prescribing text row
	PrescribingTexts map[string]Row
	// res_code -> restriction row
	Restrictions map[string]Row
	// prescribing text reference -> indication row (best-effort key, see below)
	Indications map[string]Row
	// pbs_code -> res_codes linked to that item
	ItemRestrictions map[string][]string
	// pbs_code -> prescribing_txt_ids linked to that item
	ItemPrescribingTexts map[string][]string
	// res_code -> prescribing_text_ids linked to that restriction
	RestrictionPrescribingTexts map[string][]string
}

// indicationRefKeys are the names the prescribing-text reference field has
// carried on the indications table across schedules, tried in order.
var indicationRefKeys = []string{
	"prescribing_text_id",
	"indication_prescribing_txt_id",
	"prescribing_txt_id",
}

// BuildIndexes builds all join indices from the fetched tables.
func BuildIndexes(t *Tables) *Indexes {
	idx := &Indexes{
		PrescribingTexts:            make(map[string]Row),
		Restrictions:                make(map[string]Row),
		Indications:                 make(map[string]Row),
		ItemRestrictions:            make(map[string][]string),
		ItemPrescribingTexts:        make(map[string][]string),
		RestrictionPrescribingTexts: make(map[string][]string),
	}

	for _, row := range t.PrescribingTexts {
		id := row.Get("prescribing_txt_id")
		if id == "" {
			continue
		}
		if _, seen := idx.PrescribingTexts[id]; !seen {
			idx.PrescribingTexts[id] = row
		}
	}

	for _, row := range t.Restrictions {
		code := row.Get("res_code")
		if code == "" {
			continue
		}
		if _, seen := idx.Restrictions[code]; !seen {
			idx.Restrictions[code] = row
		}
	}

	for _, row := range t.Indications {
		id := row.First(indicationRefKeys...)
		if id == "" {
			continue
		}
		if _, seen := idx.Indications[id]; !seen {
			idx.Indications[id] = row
		}
	}

	for _, row := range t.ItemRestrictions {
		pbsCode := row.Get("pbs_code")
		resCode := row.Get("res_code")
		if pbsCode != "" && resCode != "" {
			idx.ItemRestrictions[pbsCode] = append(idx.ItemRestrictions[pbsCode], resCode)
		}
	}

	for _, row := range t.ItemPrescribingTexts {
		pbsCode := row.Get("pbs_code")
		textID := row.Get("prescribing_txt_id")
		if pbsCode != "" && textID != "" {
			idx.ItemPrescribingTexts[pbsCode] = append(idx.ItemPrescribingTexts[pbsCode], textID)
		}
	}

	// Note the different reference field name on this link table
	for _, row := range t.RestrictionPrescribingTexts {
		resCode := row.Get("res_code")
		textID := row.Get("prescribing_text_id")
		if resCode != "" && textID != "" {
			idx.RestrictionPrescribingTexts[resCode] = append(idx.RestrictionPrescribingTexts[resCode], textID)
		}
	}

	return idx
}
