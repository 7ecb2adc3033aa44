package attendance

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter selects attendee records by status.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterGoing    Filter = Filter(StatusGoing)
	FilterMaybe    Filter = Filter(StatusMaybe)
	FilterNotGoing Filter = Filter(StatusNotGoing)
)

// ParseFilter accepts the four filter names; an empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterGoing, FilterMaybe, FilterNotGoing:
		return f, nil
	default:
		return "", fmt.Errorf("unknown attendee filter %q", s)
	}
}

// FilterByStatus keeps the records matching f. The input is not modified.
func FilterByStatus(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f == FilterAll || Filter(r.Status) == f {
			out = append(out, r)
		}
	}
	return out
}

// VisibleAttendees returns the attendee records of ev that a viewer with the
// given role may see, sorted by name. Only admins see who declined.
func VisibleAttendees(viewer Role, ev Event) []Record {
	all := NormalizeRecords(ev.Attendees)
	if viewer != RoleAdmin {
		all = slices.DeleteFunc(all, func(r Record) bool { return r.Status == StatusNotGoing })
	}
	return SortByName(all)
}

// SortByName returns records ordered by name using root-locale collation.
// Names that collate equal fall back to byte order and then to their
// original position, so the result is the same for the same input.
func SortByName(records []Record) []Record {
	out := slices.Clone(records)
	col := collate.New(language.Und)
	slices.SortStableFunc(out, func(a, b Record) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Counts tallies the responses on an event regardless of who is looking.
type Counts struct {
	Attending int `json:"attending"`
	Going     int `json:"going"`
	Maybe     int `json:"maybe"`
	NotGoing  int `json:"not_going"`
}

// CountOf counts the normalized attendee records of ev by status.
// Attending is everyone who has not declined.
func CountOf(ev Event) Counts {
	var c Counts
	for _, r := range NormalizeRecords(ev.Attendees) {
		switch r.Status {
		case StatusNotGoing:
			c.NotGoing++
			continue
		case StatusGoing:
			c.Going++
		case StatusMaybe:
			c.Maybe++
		}
		c.Attending++
	}
	return c
}

// StatusOf returns the status recorded for name in records, if any.
func StatusOf(records []Record, name string) (Status, bool) {
	if name == "" {
		return "", false
	}
	for _, r := range records {
		if r.Name == name {
			return r.Status, true
		}
	}
	return "", false
}
