package main

import (
	"bytes"
	"testing"
	"time"

	"community-event-planner/internal/attendance"
	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendarEvent(creatorRole attendance.Role) attendance.Event {
	return attendance.Event{
		ID:            77,
		Title:         "Go meetup",
		Category:      "Technology",
		Date:          "2026-11-02",
		Time:          "18:30",
		Location:      "Library",
		Description:   "Talks and pizza",
		CreatedBy:     "bob",
		CreatedByRole: creatorRole,
		Attendees: []attendance.Record{
			{Name: "zoe", Status: attendance.StatusMaybe},
			{Name: "carl", Status: attendance.StatusNotGoing},
			{Name: "amy", Status: attendance.StatusGoing},
		},
	}
}

func decodeVEvent(t *testing.T, data []byte) *ical.Component {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	return events[0].Component
}

func attendeeNames(ve *ical.Component) map[string]string {
	out := map[string]string{}
	for _, p := range ve.Props.Values(ical.PropAttendee) {
		out[p.Params.Get(ical.ParamCommonName)] = p.Params.Get(ical.ParamParticipationStatus)
	}
	return out
}

func TestWriteICS(t *testing.T) {
	data, err := WriteICS(Session{Name: "amy", Role: attendance.RoleUser}, calendarEvent(attendance.RoleUser), "https://events.example.com/", time.UTC)
	require.NoError(t, err)

	ve := decodeVEvent(t, data)
	summary, err := ve.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Go meetup", summary)

	start, err := ve.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 2, 18, 30, 0, 0, time.UTC), start)
	end, err := ve.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, start.Add(2*time.Hour), end)

	url, err := ve.Props.Text(ical.PropURL)
	require.NoError(t, err)
	assert.Equal(t, "https://events.example.com/event/77", url)

	assert.Equal(t, map[string]string{"amy": "ACCEPTED", "zoe": "TENTATIVE"}, attendeeNames(ve))
}

func TestWriteICSAttendeeVisibility(t *testing.T) {
	data, err := WriteICS(Session{}, calendarEvent(attendance.RoleAdmin), "", time.UTC)
	require.NoError(t, err)
	assert.Empty(t, attendeeNames(decodeVEvent(t, data)))

	data, err = WriteICS(Session{Name: "root", Role: attendance.RoleAdmin}, calendarEvent(attendance.RoleAdmin), "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"amy":  "ACCEPTED",
		"carl": "DECLINED",
		"zoe":  "TENTATIVE",
	}, attendeeNames(decodeVEvent(t, data)))
}

func TestWriteICSWithoutDate(t *testing.T) {
	ev := calendarEvent(attendance.RoleUser)
	ev.Date = ""
	_, err := WriteICS(Session{}, ev, "", time.UTC)
	assert.Error(t, err)
}

func TestQRCode(t *testing.T) {
	png, err := QRCode("https://events.example.com", 77, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}

func TestEventURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/event/5", EventURL("http://localhost:8080/", 5))
	assert.Equal(t, "/event/5", EventURL("", 5))
}
