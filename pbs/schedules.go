package pbs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmcmaster1/rheum-biologics-helper/pbs/entities"
)

// GetSchedules fetches the list of available schedules. The schedules
// endpoint is the only one served as structured JSON, with the list under a
// top-level data key.
func (c *Client) GetSchedules() ([]entities.Schedule, error) {
	body, err := c.Get("schedules", map[string]string{"limit": "100"}, "application/json")
	if err != nil {
		return nil, fmt.Errorf("fetching schedules: %w", err)
	}

	var payload struct {
		Data []entities.Schedule `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding schedules: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("schedules endpoint returned no schedules")
	}

	return payload.Data, nil
}

// SelectSchedule picks the schedule effective for now's calendar month.
// Month names in the schedule list are uppercase English ("MARCH"). When no
// schedule matches the current month the first list element is used; the API
// does not guarantee any ordering, so this is a best-effort fallback rather
// than a "latest" choice.
func SelectSchedule(schedules []entities.Schedule, now time.Time) entities.Schedule {
	month := strings.ToUpper(now.Month().String())

	for _, s := range schedules {
		if s.EffectiveYear == now.Year() && s.EffectiveMonth == month {
			return s
		}
	}

	return schedules[0]
}
