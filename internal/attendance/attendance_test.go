package attendance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name string, s Status) Record { return Record{Name: name, Status: s} }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  RawAttendee
		want Record
	}{
		{"legacy string", BareAttendee("Carol"), rec("Carol", StatusGoing)},
		{"full record", RawAttendee{Name: "Dan", Status: StatusMaybe}, rec("Dan", StatusMaybe)},
		{"missing status", RawAttendee{Name: "Eve"}, rec("Eve", StatusGoing)},
		{"missing name", RawAttendee{Status: StatusNotGoing}, rec(UnknownUser, StatusNotGoing)},
		{"empty record", RawAttendee{}, rec(UnknownUser, StatusGoing)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestRawAttendeeUnmarshal(t *testing.T) {
	var raw []RawAttendee
	err := json.Unmarshal([]byte(`["Carol", {"name":"Dan","status":"maybe"}, {"status":"notgoing"}, null]`), &raw)
	require.NoError(t, err)

	got := NormalizeAll(raw)
	assert.Equal(t, []Record{
		rec("Carol", StatusGoing),
		rec("Dan", StatusMaybe),
		rec(UnknownUser, StatusNotGoing),
		rec(UnknownUser, StatusGoing),
	}, got)

	var bad RawAttendee
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestSetRSVPAppendsAndReplaces(t *testing.T) {
	ev := Event{ID: 1, Attendees: []Record{rec("A", StatusGoing), rec("B", StatusMaybe)}}

	added, err := SetRSVP(ev, "C", StatusNotGoing)
	require.NoError(t, err)
	assert.Equal(t, []Record{rec("A", StatusGoing), rec("B", StatusMaybe), rec("C", StatusNotGoing)}, added.Attendees)

	changed, err := SetRSVP(added, "A", StatusMaybe)
	require.NoError(t, err)
	assert.Equal(t, []Record{rec("A", StatusMaybe), rec("B", StatusMaybe), rec("C", StatusNotGoing)}, changed.Attendees)

	// inputs untouched
	assert.Len(t, ev.Attendees, 2)
	assert.Equal(t, StatusGoing, added.Attendees[0].Status)
}

func TestSetRSVPGoingThenMaybe(t *testing.T) {
	ev := Event{ID: 7}
	ev, err := SetRSVP(ev, "alice", StatusGoing)
	require.NoError(t, err)
	ev, err = SetRSVP(ev, "alice", StatusMaybe)
	require.NoError(t, err)

	require.Len(t, ev.Attendees, 1)
	assert.Equal(t, rec("alice", StatusMaybe), ev.Attendees[0])
}

func TestSetRSVPUniqueness(t *testing.T) {
	base := Event{Attendees: []Record{rec("A", StatusGoing), rec("b", StatusMaybe), {Name: "legacy"}}}
	users := []string{"A", "a", "b", "B", "legacy", "new"}
	statuses := []Status{StatusGoing, StatusMaybe, StatusNotGoing}

	for _, u := range users {
		for _, s := range statuses {
			_, existed := StatusOf(base.Attendees, u)
			got, err := SetRSVP(base, u, s)
			require.NoError(t, err)

			matches := 0
			for _, r := range got.Attendees {
				if r.Name == u {
					matches++
					assert.Equal(t, s, r.Status)
				}
			}
			assert.Equal(t, 1, matches, "user %q", u)
			if existed {
				assert.Len(t, got.Attendees, len(base.Attendees))
			} else {
				assert.Len(t, got.Attendees, len(base.Attendees)+1)
			}
		}
	}
}

func TestSetRSVPRejects(t *testing.T) {
	ev := Event{Attendees: []Record{rec("A", StatusGoing)}}

	_, err := SetRSVP(ev, "", StatusGoing)
	assert.ErrorIs(t, err, ErrEmptyUser)

	_, err = SetRSVP(ev, "A", Status("attending"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusGoing, ev.Attendees[0].Status)
}

func TestSetRSVPNormalizesExisting(t *testing.T) {
	ev := Event{Attendees: []Record{{Name: "Carol"}}}
	got, err := SetRSVP(ev, "Dan", StatusMaybe)
	require.NoError(t, err)
	assert.Equal(t, []Record{rec("Carol", StatusGoing), rec("Dan", StatusMaybe)}, got.Attendees)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Record{rec("A", StatusGoing), rec("B", StatusMaybe), rec("A", StatusNotGoing)})
	assert.Equal(t, []Record{rec("A", StatusGoing), rec("B", StatusMaybe)}, got)
}

func TestCapacityScenarios(t *testing.T) {
	full := CapacityOf(Event{MaxAttendees: 2, Attendees: []Record{rec("A", StatusGoing), rec("B", StatusGoing)}})
	assert.True(t, full.IsFull)
	assert.Equal(t, 0, full.SpotsLeft)
	assert.Equal(t, 0, full.Available)
	assert.Equal(t, TierFull, full.Tier())

	open := CapacityOf(Event{MaxAttendees: 3, Attendees: []Record{rec("A", StatusGoing), rec("B", StatusNotGoing)}})
	assert.Equal(t, 1, open.Occupied)
	assert.Equal(t, 2, open.SpotsLeft)
	assert.False(t, open.IsFull)
	assert.Equal(t, TierLow, open.Tier())
}

func TestCapacityOversubscribed(t *testing.T) {
	c := CapacityOf(Event{MaxAttendees: 1, Attendees: []Record{rec("A", StatusGoing), rec("B", StatusMaybe), rec("C", StatusGoing)}})
	assert.Equal(t, 3, c.Occupied)
	assert.Equal(t, -2, c.SpotsLeft)
	assert.Equal(t, 0, c.Available)
	assert.True(t, c.IsFull)
}

func TestCapacityUnlimited(t *testing.T) {
	for _, limit := range []int{0, -4} {
		c := CapacityOf(Event{MaxAttendees: limit, Attendees: []Record{rec("A", StatusGoing)}})
		assert.False(t, c.Limited)
		assert.False(t, c.IsFull)
		assert.Equal(t, Unbounded, c.Available)
		assert.Equal(t, TierUnlimited, c.Tier())
	}
	assert.Equal(t, TierOpen, CapacityOf(Event{MaxAttendees: 50}).Tier())
}

func TestCapacityExcludesNotGoing(t *testing.T) {
	statuses := []Status{StatusGoing, StatusMaybe, StatusNotGoing}
	var attendees []Record
	want := 0
	for i := 0; i < 30; i++ {
		s := statuses[(i*7)%3]
		if s != StatusNotGoing {
			want++
		}
		attendees = append(attendees, Record{Name: string(rune('a' + i)), Status: s})
		assert.Equal(t, want, CapacityOf(Event{Attendees: attendees}).Occupied)
	}
}

func TestCreatorRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, CreatorRole(Event{CreatedBy: "bob", CreatedByRole: RoleAdmin}))
	assert.Equal(t, RoleUser, CreatorRole(Event{CreatedBy: "admin", CreatedByRole: RoleUser}))
	assert.Equal(t, RoleAdmin, CreatorRole(Event{CreatedBy: "Admin"}))
	assert.Equal(t, RoleUser, CreatorRole(Event{CreatedBy: "bob"}))
	assert.Equal(t, RoleUser, CreatorRole(Event{}))
}

func TestCanViewAttendeeList(t *testing.T) {
	adminEvent := Event{CreatedBy: "root", CreatedByRole: RoleAdmin, Attendees: []Record{rec("A", StatusGoing)}}
	userEvent := Event{CreatedBy: "bob", CreatedByRole: RoleUser}

	for _, viewer := range []Role{RoleAdmin, RoleUser, ""} {
		for _, ev := range []Event{adminEvent, userEvent, {CreatedBy: "admin"}} {
			want := !(CreatorRole(ev) == RoleAdmin && viewer != RoleAdmin)
			assert.Equal(t, want, CanViewAttendeeList(viewer, ev), "viewer %q creator %q", viewer, ev.CreatedBy)
		}
	}
	assert.False(t, CanViewAttendeeList(RoleUser, adminEvent))
}

func TestCanEditAndDelete(t *testing.T) {
	ev := Event{CreatedBy: "bob", CreatedByRole: RoleUser}

	assert.True(t, CanEdit(RoleAdmin, "root", ev))
	assert.True(t, CanEdit(RoleUser, "bob", ev))
	assert.False(t, CanEdit(RoleUser, "Bob", ev))
	assert.False(t, CanEdit(RoleUser, "", Event{}))
	assert.True(t, CanDelete(RoleUser, "bob", ev))
	assert.False(t, CanDelete(RoleUser, "alice", ev))
}

func TestVisibleAttendees(t *testing.T) {
	ev := Event{Attendees: []Record{rec("zed", StatusNotGoing), rec("Bea", StatusGoing), rec("amy", StatusMaybe), {Name: "Carl"}}}

	user := VisibleAttendees(RoleUser, ev)
	assert.Equal(t, []Record{rec("amy", StatusMaybe), rec("Bea", StatusGoing), rec("Carl", StatusGoing)}, user)
	for _, r := range user {
		assert.NotEqual(t, StatusNotGoing, r.Status)
	}

	admin := VisibleAttendees(RoleAdmin, ev)
	assert.Len(t, admin, len(ev.Attendees))
	assert.Equal(t, "zed", admin[3].Name)
}

func TestFilterByStatus(t *testing.T) {
	list := []Record{rec("A", StatusGoing), rec("B", StatusMaybe), rec("C", StatusNotGoing), rec("D", StatusGoing)}

	assert.Equal(t, list, FilterByStatus(list, FilterAll))
	assert.Equal(t, []Record{rec("A", StatusGoing), rec("D", StatusGoing)}, FilterByStatus(list, FilterGoing))
	assert.Equal(t, []Record{rec("B", StatusMaybe)}, FilterByStatus(list, FilterMaybe))
	assert.Equal(t, []Record{rec("C", StatusNotGoing)}, FilterByStatus(list, FilterNotGoing))
	assert.Empty(t, FilterByStatus(nil, FilterGoing))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter(" NotGoing ")
	require.NoError(t, err)
	assert.Equal(t, FilterNotGoing, f)

	_, err = ParseFilter("declined")
	assert.Error(t, err)
}

func TestSortByNameReproducible(t *testing.T) {
	list := []Record{rec("émile", StatusGoing), rec("Zoe", StatusMaybe), rec("adam", StatusGoing), rec("Eve", StatusGoing), rec("adam", StatusNotGoing)}

	first := SortByName(FilterByStatus(list, FilterAll))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SortByName(FilterByStatus(list, FilterAll)))
	}
	assert.Equal(t, []Record{rec("adam", StatusGoing), rec("adam", StatusNotGoing), rec("émile", StatusGoing), rec("Eve", StatusGoing), rec("Zoe", StatusMaybe)}, first)
	assert.Equal(t, "émile", list[0].Name)
}

func TestCountOf(t *testing.T) {
	ev := Event{CreatedByRole: RoleAdmin, Attendees: []Record{rec("A", StatusGoing), rec("B", StatusNotGoing), rec("C", StatusMaybe), {Name: "D"}}}
	assert.Equal(t, Counts{Attending: 3, Going: 2, Maybe: 1, NotGoing: 1}, CountOf(ev))
}

func TestStatusOf(t *testing.T) {
	list := []Record{rec("A", StatusGoing)}
	s, ok := StatusOf(list, "A")
	assert.True(t, ok)
	assert.Equal(t, StatusGoing, s)

	_, ok = StatusOf(list, "a")
	assert.False(t, ok)
	_, ok = StatusOf(list, "")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" ADMIN "))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
}
