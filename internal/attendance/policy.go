package attendance

import "strings"

// CreatorRole returns the role the creator of ev had when it was created.
// Events stored before the role was recorded are treated as admin events
// only when they were created by the user literally named "admin".
func CreatorRole(ev Event) Role {
	if ev.CreatedByRole != "" {
		return ev.CreatedByRole
	}
	if strings.EqualFold(ev.CreatedBy, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// CanViewAttendeeList reports whether a viewer may see who responded to ev.
// Attendee lists of admin-created events are restricted to admins.
func CanViewAttendeeList(viewer Role, ev Event) bool {
	return viewer == RoleAdmin || CreatorRole(ev) != RoleAdmin
}

// CanEdit reports whether the viewer may change ev. Admins may edit any
// event, everyone else only their own.
func CanEdit(viewer Role, identity string, ev Event) bool {
	if viewer == RoleAdmin {
		return true
	}
	return identity != "" && ev.CreatedBy == identity
}

// CanDelete follows the same rule as CanEdit.
func CanDelete(viewer Role, identity string, ev Event) bool {
	return CanEdit(viewer, identity, ev)
}
