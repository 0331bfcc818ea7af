// Package handlers provides the read-only HTTP API over the biologics fact
// table: the full combination list with exact-match filtering, per-item
// lookup, facet option narrowing and a health check.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmcmaster1/rheum-biologics-helper/facets"
	"github.com/cmcmaster1/rheum-biologics-helper/interfaces"
	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// itemURLFormat is how the downstream interface links a row to the PBS site.
const itemURLFormat = "https://www.pbs.gov.au/medicine/item/%s"

// HTTPHandler serves the fact table from the injected data store
type HTTPHandler struct {
	dataStore interfaces.DataStore
}

// NewHTTPHandler creates a handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore) *HTTPHandler {
	return &HTTPHandler{dataStore: dataStore}
}

// combinationsResponse wraps the served rows with their count and schedule
type combinationsResponse struct {
	Total        int                    `json:"total"`
	Schedule     entities.Schedule      `json:"schedule"`
	Combinations []entities.Combination `json:"combinations"`
}

// itemResponse is the per-PBS-code view with the item lookup URL
type itemResponse struct {
	PBSCode      string                 `json:"pbs_code"`
	URL          string                 `json:"url"`
	Combinations []entities.Combination `json:"combinations"`
}

// ServeCombinations returns the fact table, filtered by any exact-match
// facet query parameters present.
func (h *HTTPHandler) ServeCombinations(w http.ResponseWriter, r *http.Request) {
	sel := selectionsFromQuery(r)

	all := h.dataStore.GetCombinations()
	rows := make([]entities.Combination, 0, len(all))
	for _, row := range all {
		if facets.Matches(row, sel) {
			rows = append(rows, row)
		}
	}

	respondWithJSON(w, http.StatusOK, combinationsResponse{
		Total:        len(rows),
		Schedule:     h.dataStore.GetSchedule(),
		Combinations: rows,
	})
}

// FindByPBSCode returns every combination for one PBS item code
func (h *HTTPHandler) FindByPBSCode(w http.ResponseWriter, r *http.Request) {
	pbsCode := chi.URLParam(r, "pbsCode")
	if pbsCode == "" {
		respondWithError(w, http.StatusBadRequest, "pbs code is required")
		return
	}

	rows, ok := h.dataStore.GetPBSCodeMap()[pbsCode]
	if !ok {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("no combinations for pbs code %s", pbsCode))
		return
	}

	respondWithJSON(w, http.StatusOK, itemResponse{
		PBSCode:      pbsCode,
		URL:          fmt.Sprintf(itemURLFormat, pbsCode),
		Combinations: rows,
	})
}

// ServeOptions returns the valid facet values under the current selections
func (h *HTTPHandler) ServeOptions(w http.ResponseWriter, r *http.Request) {
	sel := selectionsFromQuery(r)
	options := facets.OptionsFor(h.dataStore.GetCombinations(), sel)
	respondWithJSON(w, http.StatusOK, options)
}

// HealthCheck reports dataset freshness and serving state
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	lastUpdated := h.dataStore.GetLastUpdated()
	schedule := h.dataStore.GetSchedule()

	status := "healthy"
	if lastUpdated.IsZero() {
		status = "starting"
	}

	payload := map[string]any{
		"status":            status,
		"combination_count": len(h.dataStore.GetCombinations()),
		"schedule_code":     schedule.ScheduleCode,
		"schedule_month":    schedule.EffectiveMonth,
		"schedule_year":     schedule.EffectiveYear,
		"last_updated":      lastUpdated,
		"updating":          h.dataStore.IsUpdating(),
		"uptime_seconds":    time.Since(h.dataStore.GetServerStartTime()).Seconds(),
	}

	respondWithJSON(w, http.StatusOK, payload)
}

func selectionsFromQuery(r *http.Request) facets.Selections {
	q := r.URL.Query()
	return facets.Selections{
		Indication:     q.Get("indication"),
		Drug:           q.Get("drug"),
		Brand:          q.Get("brand"),
		Formulation:    q.Get("formulation"),
		TreatmentPhase: q.Get("treatment_phase"),
		HospitalType:   q.Get("hospital_type"),
	}
}
