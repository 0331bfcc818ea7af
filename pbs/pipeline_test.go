package pbs

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePBSAPI serves a minimal but fully linked dataset: one adalimumab item
// with two brands under a streamlined rheumatoid arthritis restriction.
func fakePBSAPI(t *testing.T) *httptest.Server {
	t.Helper()

	csvPayloads := map[string]string{
		"/items": "pbs_code,drug_name,brand_name,li_form,schedule_form,manner_of_administration,maximum_quantity_units,number_of_repeats,program_code\n" +
			"11138J,ADALIMUMAB,Humira,Injection 40 mg in 0.4 mL pre-filled pen,Injection,Injection,2,5,HS\n" +
			"11138J,ADALIMUMAB,Amgevita,Injection 40 mg in 0.4 mL pre-filled pen,Injection,Injection,2,5,HS\n",
		"/indications": "prescribing_text_id,condition\n" +
			"9001,Severe active Rheumatoid Arthritis\n",
		"/prescribing-texts": "prescribing_text_id,prescribing_txt\n" +
			"9001,Severe active rheumatoid arthritis\n",
		"/item-prescribing-text-relationships": "pbs_code,prescribing_txt_id\n" +
			"11138J,9001\n",
		"/restrictions": "res_code,treatment_phase,li_html_text,authority_method,treatment_of_code,schedule_html_text\n" +
			"7501,Initial treatment,Patient must have severe active disease,STREAMLINED,6654,Apply online\n",
		"/item-restriction-relationships": "pbs_code,res_code\n" +
			"11138J,7501\n",
		"/restriction-prescribing-text-relationships": "res_code,prescribing_text_id\n" +
			"7501,9001\n",
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/schedules" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":[
				{"schedule_code":1234,"effective_year":2024,"effective_month":"MARCH","effective_date":"2024-03-01"},
				{"schedule_code":1233,"effective_year":2024,"effective_month":"FEBRUARY","effective_date":"2024-02-01"}
			]}`))
			return
		}

		payload, ok := csvPayloads[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		assert.Equal(t, "1234", r.URL.Query().Get("schedule_code"),
			"table fetch for %s must target the selected schedule", r.URL.Path)
		assert.Equal(t, fetchLimit, r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(payload))
	}))
}

func TestPipelineRun(t *testing.T) {
	server := fakePBSAPI(t)
	defer server.Close()

	client := NewClient(server.URL, "key", 100, DefaultRetryPolicy())
	pipeline := NewPipeline(client,
		[]string{"Adalimumab"}, []string{"Rheumatoid Arthritis"})
	pipeline.now = func() time.Time {
		return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	}

	combinations, schedule, err := pipeline.Run()
	require.NoError(t, err)

	assert.Equal(t, 1234, schedule.ScheduleCode)
	assert.Equal(t, "MARCH", schedule.EffectiveMonth)

	// one restriction across two brands
	require.Len(t, combinations, 2)

	brands := []string{combinations[0].Brand, combinations[1].Brand}
	assert.ElementsMatch(t, []string{"Humira", "Amgevita"}, brands)

	first := combinations[0]
	assert.Equal(t, "11138J", first.PBSCode)
	assert.Equal(t, "ADALIMUMAB", first.Drug)
	assert.Equal(t, "Injection 40 mg in 0.4 mL pre-filled pen", first.Formulation)
	assert.Equal(t, "Rheumatoid Arthritis", first.Indication)
	assert.Equal(t, "Initial treatment", first.TreatmentPhase)
	assert.Equal(t, "STREAMLINED", first.AuthorityMethod)
	require.NotNil(t, first.StreamlinedCode)
	assert.Equal(t, "6654", *first.StreamlinedCode)
	assert.True(t, first.OnlineApplication)
	assert.Equal(t, HospitalPrivate, first.HospitalType)
	assert.Equal(t, 1234, first.ScheduleCode)
	assert.Equal(t, 2024, first.ScheduleYear)
	assert.Equal(t, "MARCH", first.ScheduleMonth)
}

func TestPipelineRunFailsWhenTableFetchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/schedules" {
			w.Write([]byte(`{"data":[{"schedule_code":1234,"effective_year":2024,"effective_month":"MARCH"}]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 100, DefaultRetryPolicy())
	pipeline := NewPipeline(client, []string{"Adalimumab"}, []string{"Rheumatoid Arthritis"})
	pipeline.now = func() time.Time {
		return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	}

	_, _, err := pipeline.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items")
}
