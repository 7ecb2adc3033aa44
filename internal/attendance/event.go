package attendance

import "strings"

// Role is the role of a session user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a raw role string to a Role. Anything that isn't "admin"
// (case-insensitive) is a plain user.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Event is an event together with its attendee records.
type Event struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	MaxAttendees  int      `json:"max_attendees,omitempty"`
	CreatedBy     string   `json:"created_by"`
	CreatedByRole Role     `json:"created_by_role,omitempty"`
	Attendees     []Record `json:"attendees"`
}

// Clone returns a copy of e that shares no attendee storage with it.
func (e Event) Clone() Event {
	out := e
	if e.Attendees != nil {
		out.Attendees = make([]Record, len(e.Attendees))
		copy(out.Attendees, e.Attendees)
	}
	return out
}
