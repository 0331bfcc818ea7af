package pbs

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/cmcmaster1/rheum-biologics-helper/logging"
)

// fetchLimit is large enough to cover any PBS table in one page, so no
// follow-up pagination requests are needed.
const fetchLimit = "100000"

// Tables holds the seven entity and relationship tables fetched for one
// schedule. All joins downstream read from here; nothing is fetched lazily.
type Tables struct {
	Items                       []Row
	Indications                 []Row
	PrescribingTexts            []Row
	ItemPrescribingTexts        []Row
	Restrictions                []Row
	ItemRestrictions            []Row
	RestrictionPrescribingTexts []Row
}

// FetchTables retrieves every table for the given schedule, strictly
// sequentially to stay inside the shared rate budget. Any single failure
// aborts the run: the joins need referential integrity across all tables, so
// there is no partial-success mode.
func (c *Client) FetchTables(scheduleCode int) (*Tables, error) {
	tables := &Tables{}

	fetches := []struct {
		endpoint string
		dest     *[]Row
	}{
		{"items", &tables.Items},
		{"indications", &tables.Indications},
		{"prescribing-texts", &tables.PrescribingTexts},
		{"item-prescribing-text-relationships", &tables.ItemPrescribingTexts},
		{"restrictions", &tables.Restrictions},
		{"item-restriction-relationships", &tables.ItemRestrictions},
		{"restriction-prescribing-text-relationships", &tables.RestrictionPrescribingTexts},
	}

	for _, f := range fetches {
		logging.Info("Fetching PBS table", "endpoint", f.endpoint, "schedule_code", scheduleCode)

		rows, err := c.fetchTable(f.endpoint, scheduleCode)
		if err != nil {
			return nil, err
		}

		logging.Info("Fetched PBS table", "endpoint", f.endpoint, "rows", len(rows))
		*f.dest = rows
	}

	return tables, nil
}

func (c *Client) fetchTable(endpoint string, scheduleCode int) ([]Row, error) {
	params := map[string]string{
		"schedule_code": strconv.Itoa(scheduleCode),
		"limit":         fetchLimit,
	}

	body, err := c.Get(endpoint, params, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}

	rows, err := parseCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", endpoint, err)
	}

	return rows, nil
}

// parseCSV converts a tabular payload into header-keyed rows. Some government
// payloads arrive in ISO-8859-1 rather than UTF-8, so non-UTF-8 bodies are
// decoded first.
func parseCSV(body []byte) ([]Row, error) {
	var reader io.Reader = bytes.NewReader(body)
	if !utf8.Valid(body) {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(body))
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record: %w", err)
		}

		row := make(Row, len(header))
		for i, field := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = field
		}
		rows = append(rows, row)
	}

	return rows, nil
}
