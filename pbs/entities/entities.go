// Package entities defines the data types shared between the PBS pipeline,
// the data container and the HTTP handlers.
package entities

// Schedule is a dated revision of the PBS dataset as returned by the
// /schedules endpoint.
type Schedule struct {
	ScheduleCode   int    `json:"schedule_code"`
	EffectiveYear  int    `json:"effective_year"`
	EffectiveMonth string `json:"effective_month"`
	EffectiveDate  string `json:"effective_date"`
}

// RestrictionFact is a prescribing restriction resolved to a single matched
// rheumatic indication. A restriction contributes at most one fact per item,
// carrying the first indication that matched the disease list.
type RestrictionFact struct {
	ResCode           string  `json:"res_code"`
	Indication        string  `json:"indication"`
	TreatmentPhase    string  `json:"treatment_phase"`
	RestrictionText   string  `json:"restriction_text"`
	AuthorityMethod   string  `json:"authority_method"`
	StreamlinedCode   *string `json:"streamlined_code"`
	OnlineApplication bool    `json:"online_application"`
}

// BiologicItem groups every schedule row sharing a PBS code into one record
// with a deduplicated brand list and the restrictions that matched the
// rheumatic disease list. Items whose restriction list ends up empty are
// dropped before flattening.
type BiologicItem struct {
	PBSCode                string            `json:"pbs_code"`
	Drug                   string            `json:"drug"`
	Brands                 []string          `json:"brands"`
	Formulation            string            `json:"formulation"`
	LIForm                 string            `json:"li_form"`
	ScheduleForm           string            `json:"schedule_form"`
	MannerOfAdministration string            `json:"manner_of_administration"`
	MaximumQuantity        string            `json:"maximum_quantity"`
	NumberOfRepeats        string            `json:"number_of_repeats"`
	HospitalType           string            `json:"hospital_type"`
	Restrictions           []RestrictionFact `json:"restrictions"`
	ScheduleCode           int               `json:"schedule_code"`
	ScheduleYear           int               `json:"schedule_year"`
	ScheduleMonth          string            `json:"schedule_month"`
}

// Combination is one row of the published fact table: a single
// (item, brand, restriction) combination. Formulation carries the raw
// listing form text; the classified category lives on BiologicItem.
type Combination struct {
	PBSCode           string  `json:"pbs_code"`
	Drug              string  `json:"drug"`
	Brand             string  `json:"brand"`
	Formulation       string  `json:"formulation"`
	Indication        string  `json:"indication"`
	TreatmentPhase    string  `json:"treatment_phase"`
	StreamlinedCode   *string `json:"streamlined_code"`
	OnlineApplication bool    `json:"online_application"`
	AuthorityMethod   string  `json:"authority_method"`
	HospitalType      string  `json:"hospital_type"`
	ScheduleCode      int     `json:"schedule_code"`
	ScheduleYear      int     `json:"schedule_year"`
	ScheduleMonth     string  `json:"schedule_month"`
}
