package attendance

import "errors"

var (
	ErrEmptyUser     = errors.New("attendance: user name is required")
	ErrInvalidStatus = errors.New("attendance: invalid rsvp status")
)

// SetRSVP records userName's response on ev and returns the updated event.
// An existing record for the same name (exact match) keeps its position and
// takes the new status; otherwise a record is appended. ev is not modified.
func SetRSVP(ev Event, userName string, status Status) (Event, error) {
	if userName == "" {
		return ev, ErrEmptyUser
	}
	if !status.Valid() {
		return ev, ErrInvalidStatus
	}

	out := ev.Clone()
	out.Attendees = NormalizeRecords(ev.Attendees)
	for i := range out.Attendees {
		if out.Attendees[i].Name == userName {
			out.Attendees[i].Status = status
			return out, nil
		}
	}
	out.Attendees = append(out.Attendees, Record{Name: userName, Status: status})
	return out, nil
}

// Dedupe drops every record whose name already appeared earlier in the list.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r)
	}
	return out
}
