package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

func readSnapshot(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestPublishWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files", "biologics.csv")
	writer := NewWriter(path)

	streamlined := "6654"
	err := writer.Publish([]entities.Combination{
		{
			PBSCode: "11138J", Drug: "adalimumab", Brand: "Humira",
			Formulation: "Injection 40 mg in 0.4 mL pre-filled pen",
			Indication:  "Rheumatoid Arthritis", TreatmentPhase: "Initial treatment",
			StreamlinedCode: &streamlined, OnlineApplication: true,
			AuthorityMethod: "STREAMLINED", HospitalType: "Private",
			ScheduleCode: 1234, ScheduleYear: 2024, ScheduleMonth: "MARCH",
		},
		{
			PBSCode: "11205P", Drug: "etanercept", Brand: "Enbrel",
			AuthorityMethod: "WRITTEN", HospitalType: "Any",
			ScheduleCode: 1234, ScheduleYear: 2024, ScheduleMonth: "MARCH",
		},
	})
	require.NoError(t, err)

	rows := readSnapshot(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])

	assert.Equal(t, []string{
		"11138J", "adalimumab", "Humira",
		"Injection 40 mg in 0.4 mL pre-filled pen",
		"Rheumatoid Arthritis", "Initial treatment",
		"6654", "true", "STREAMLINED", "Private",
		"1234", "2024", "MARCH",
	}, rows[1])

	// nil streamlined code serializes as an empty field
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "false", rows[2][7])
}

func TestPublishReplacesExistingSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biologics.csv")
	writer := NewWriter(path)

	require.NoError(t, writer.Publish([]entities.Combination{
		{PBSCode: "11138J", Brand: "Humira"},
		{PBSCode: "11138J", Brand: "Amgevita"},
	}))
	require.NoError(t, writer.Publish([]entities.Combination{
		{PBSCode: "11205P", Brand: "Enbrel"},
	}))

	rows := readSnapshot(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "11205P", rows[1][0])

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPublishEmptyTableStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biologics.csv")

	require.NoError(t, NewWriter(path).Publish(nil))

	rows := readSnapshot(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}
