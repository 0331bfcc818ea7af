package pbs

import (
	"strings"

	"github.com/samber/lo"
)

// Formulation categories derived from the free-text listing form.
const (
	FormulationTablet  = "tablet"
	FormulationPen     = "subcut pen"
	FormulationSyringe = "subcut syringe"
	FormulationInfuse  = "infusion"
	FormulationUnknown = "unknown"
)

// Hospital access categories derived from the program code.
const (
	HospitalPrivate = "Private"
	HospitalPublic  = "Public"
	HospitalAny     = "Any"
)

var (
	tabletKeywords   = []string{"tablet"}
	penKeywords      = []string{"pen", "auto-injector", "autoinjector"}
	syringeKeywords  = []string{"syringe"}
	infusionKeywords = []string{"i.v. infusion", "concentrate for injection"}
)

// ClassifyFormulation maps a free-text product description to a delivery-form
// category by case-insensitive keyword matching. Priority order is fixed:
// tablet beats pen beats syringe beats infusion, and the first category with a
// keyword hit wins.
func ClassifyFormulation(description string) string {
	desc := strings.ToLower(description)

	containsAny := func(keywords []string) bool {
		return lo.SomeBy(keywords, func(keyword string) bool {
			return strings.Contains(desc, keyword)
		})
	}

	switch {
	case containsAny(tabletKeywords):
		return FormulationTablet
	case containsAny(penKeywords):
		return FormulationPen
	case containsAny(syringeKeywords):
		return FormulationSyringe
	case containsAny(infusionKeywords):
		return FormulationInfuse
	default:
		return FormulationUnknown
	}
}

// ClassifyHospitalType maps a PBS program code to a hospital access category:
// HS is private hospital, HB is public hospital, everything else is
// unrestricted.
func ClassifyHospitalType(programCode string) string {
	switch programCode {
	case "HS":
		return HospitalPrivate
	case "HB":
		return HospitalPublic
	default:
		return HospitalAny
	}
}
