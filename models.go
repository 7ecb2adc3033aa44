package main

import "community-event-planner/internal/attendance"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"omitempty,viewer_role"`
}

// EventRequest is the body of create and edit requests.
type EventRequest struct {
	Title        string `json:"title" binding:"required,notblank"`
	Category     string `json:"category" binding:"required,notblank"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	Time         string `json:"time" binding:"required,datetime=15:04"`
	Location     string `json:"location" binding:"required,notblank"`
	Description  string `json:"description" binding:"required,notblank"`
	MaxAttendees int    `json:"max_attendees" binding:"gte=0"`
}

func (r EventRequest) input() EventInput {
	return EventInput{
		Title:        r.Title,
		Category:     r.Category,
		Date:         r.Date,
		Time:         r.Time,
		Location:     r.Location,
		Description:  r.Description,
		MaxAttendees: r.MaxAttendees,
	}
}

type AttendanceRequest struct {
	Status string `json:"status" binding:"required,rsvp_status"` // going / maybe / notgoing
}

// EventQuery holds the list filters.
type EventQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// EventView is an event as seen by one viewer.
type EventView struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Location     string          `json:"location"`
	Description  string          `json:"description"`
	MaxAttendees int             `json:"max_attendees,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatorRole  attendance.Role `json:"creator_role"`

	Capacity      attendance.Capacity `json:"capacity"`
	Availability  attendance.Tier     `json:"availability"`
	AttendeeCount int                 `json:"attendee_count"`
	NotGoingCount *int                `json:"not_going_count,omitempty"`

	AttendeeListVisible bool                `json:"attendee_list_visible"`
	Attendees           []attendance.Record `json:"attendees,omitempty"`
	YourStatus          attendance.Status   `json:"your_status,omitempty"`
	CanEdit             bool                `json:"can_edit"`
	CanDelete           bool                `json:"can_delete"`
}

// newEventView applies the visibility rules for sess to ev. Attendees are
// only filled in when withAttendees is set and the viewer may see the list.
func newEventView(sess Session, ev attendance.Event, filter attendance.Filter, withAttendees bool) EventView {
	capacity := attendance.CapacityOf(ev)
	counts := attendance.CountOf(ev)
	visible := attendance.VisibleAttendees(sess.Role, ev)

	view := EventView{
		ID:                  ev.ID,
		Title:               ev.Title,
		Category:            ev.Category,
		Date:                ev.Date,
		Time:                ev.Time,
		Location:            ev.Location,
		Description:         ev.Description,
		MaxAttendees:        ev.MaxAttendees,
		CreatedBy:           ev.CreatedBy,
		CreatorRole:         attendance.CreatorRole(ev),
		Capacity:            capacity,
		Availability:        capacity.Tier(),
		AttendeeCount:       counts.Attending,
		AttendeeListVisible: attendance.CanViewAttendeeList(sess.Role, ev),
		CanEdit:             attendance.CanEdit(sess.Role, sess.Name, ev),
		CanDelete:           attendance.CanDelete(sess.Role, sess.Name, ev),
	}
	if sess.Role == attendance.RoleAdmin {
		view.NotGoingCount = &counts.NotGoing
	}
	if status, ok := attendance.StatusOf(visible, sess.Name); ok {
		view.YourStatus = status
	}
	if withAttendees && view.AttendeeListVisible {
		view.Attendees = attendance.FilterByStatus(visible, filter)
	}
	return view
}
