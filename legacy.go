package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"community-event-planner/internal/attendance"
	"community-event-planner/internal/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LegacyEvent is an event as exported from the browser-only version of the
// planner. Attendees may be bare names and maxAttendees is whatever the form
// held, usually a string.
type LegacyEvent struct {
	ID            int64                    `json:"id"`
	Title         string                   `json:"title"`
	Category      string                   `json:"category"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	Location      string                   `json:"location"`
	Description   string                   `json:"description"`
	MaxAttendees  looseInt                 `json:"maxAttendees"`
	CreatedBy     string                   `json:"createdBy"`
	CreatedByRole string                   `json:"createdByRole"`
	Attendees     []attendance.RawAttendee `json:"attendees"`
}

// looseInt decodes a JSON number, a numeric string, an empty string or null.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(err, "invalid maxAttendees %q", s)
		}
		*n = looseInt(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = looseInt(v)
	return nil
}

// ReadLegacyEvents decodes an exported events array.
func ReadLegacyEvents(r io.Reader) ([]LegacyEvent, error) {
	var events []LegacyEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, errors.Wrap(err, "failed to decode legacy events")
	}
	return events, nil
}

// toEvent normalizes the attendee list once. A missing creator role stays
// empty so the creator-name rule still applies to these events.
func (le LegacyEvent) toEvent() attendance.Event {
	ev := attendance.Event{
		ID:           le.ID,
		Title:        le.Title,
		Category:     le.Category,
		Date:         le.Date,
		Time:         le.Time,
		Location:     le.Location,
		Description:  le.Description,
		MaxAttendees: int(le.MaxAttendees),
		CreatedBy:    le.CreatedBy,
		Attendees:    attendance.Dedupe(attendance.NormalizeAll(le.Attendees)),
	}
	if strings.TrimSpace(le.CreatedByRole) != "" {
		ev.CreatedByRole = attendance.ParseRole(le.CreatedByRole)
	}
	return ev
}

// ImportResult reports what an import did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import stores legacy events. Events whose id already exists are skipped,
// so an export can be imported more than once.
func (s *EventService) Import(ctx context.Context, legacy []LegacyEvent) (ImportResult, error) {
	var res ImportResult
	for _, le := range legacy {
		ev := le.toEvent()
		if ev.ID <= 0 {
			ev.ID = s.nextID()
		}
		err := s.store.Create(ctx, ev)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, store.ErrDuplicate):
			log.Warn().Int64("event_id", ev.ID).Msg("event already exists, skipping")
			res.Skipped++
		default:
			return res, errors.Wrapf(err, "import of event %d failed", ev.ID)
		}
	}
	return res, nil
}
