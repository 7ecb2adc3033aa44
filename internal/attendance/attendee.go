package attendance

import (
	"bytes"
	"encoding/json"
)

// Status is an attendee's response to an event.
type Status string

const (
	StatusGoing    Status = "going"
	StatusMaybe    Status = "maybe"
	StatusNotGoing Status = "notgoing"
)

// UnknownUser replaces a missing attendee name.
const UnknownUser = "Unknown User"

// Valid reports whether s is one of the recognised statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusNotGoing:
		return true
	}
	return false
}

// Record is the canonical attendee entry.
type Record struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// RawAttendee is an attendee entry as found in stored or imported data:
// either a bare name string or a possibly incomplete record.
type RawAttendee struct {
	Bare   bool
	Name   string
	Status Status
}

// BareAttendee builds the legacy string form.
func BareAttendee(name string) RawAttendee {
	return RawAttendee{Bare: true, Name: name}
}

func (r *RawAttendee) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = RawAttendee{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*r = BareAttendee(name)
		return nil
	}
	var rec struct {
		Name   string `json:"name"`
		Status Status `json:"status"`
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	*r = RawAttendee{Name: rec.Name, Status: rec.Status}
	return nil
}

// Normalize coerces a raw attendee entry into a Record. A bare string is a
// "going" response; a record without status defaults to "going" and one
// without a name gets UnknownUser.
func Normalize(raw RawAttendee) Record {
	if raw.Bare {
		return Record{Name: raw.Name, Status: StatusGoing}
	}
	rec := Record{Name: raw.Name, Status: raw.Status}
	if rec.Name == "" {
		rec.Name = UnknownUser
	}
	if rec.Status == "" {
		rec.Status = StatusGoing
	}
	return rec
}

// NormalizeRecords applies the record defaults to already structured entries.
func NormalizeRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Normalize(RawAttendee{Name: r.Name, Status: r.Status})
	}
	return out
}

// NormalizeAll normalizes a raw attendee list, preserving order.
func NormalizeAll(raw []RawAttendee) []Record {
	out := make([]Record, len(raw))
	for i, r := range raw {
		out[i] = Normalize(r)
	}
	return out
}
