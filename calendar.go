package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"community-event-planner/internal/attendance"
	"github.com/emersion/go-ical"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

// defaultDuration is used for the end time of exported events, which have no
// duration of their own.
const defaultDuration = 2 * time.Hour

// EventURL is the public page of an event.
func EventURL(baseURL string, id int64) string {
	return fmt.Sprintf("%s/event/%d", strings.TrimRight(baseURL, "/"), id)
}

// WriteICS renders ev as a single-event iCalendar file. Attendees are only
// included when the viewer may see the list, and declined ones only for
// admins.
func WriteICS(sess Session, ev attendance.Event, baseURL string, loc *time.Location) ([]byte, error) {
	start, err := startTime(ev, loc)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//community-event-planner//EN")

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, fmt.Sprintf("event-%d@community-event-planner", ev.ID))
	ve.Props.SetText(ical.PropSummary, ev.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(defaultDuration))
	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.Category != "" {
		ve.Props.SetText(ical.PropCategories, ev.Category)
	}
	if baseURL != "" {
		ve.Props.SetText(ical.PropURL, EventURL(baseURL, ev.ID))
	}
	if ev.CreatedBy != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.Params.Set(ical.ParamCommonName, ev.CreatedBy)
		p.Value = "urn:x-user:" + ev.CreatedBy
		ve.Props.Add(p)
	}
	if attendance.CanViewAttendeeList(sess.Role, ev) {
		for _, a := range attendance.VisibleAttendees(sess.Role, ev) {
			p := ical.NewProp(ical.PropAttendee)
			p.Params.Set(ical.ParamCommonName, a.Name)
			p.Params.Set(ical.ParamParticipationStatus, partStat(a.Status))
			p.Value = "urn:x-user:" + a.Name
			ve.Props.Add(p)
		}
	}
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, errors.Wrap(err, "failed to encode calendar")
	}
	return buf.Bytes(), nil
}

func startTime(ev attendance.Event, loc *time.Location) (time.Time, error) {
	clock := ev.Time
	if clock == "" {
		clock = "00:00"
	}
	start, err := time.ParseInLocation("2006-01-02T15:04", ev.Date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "event %d has no usable date", ev.ID)
	}
	return start, nil
}

func partStat(s attendance.Status) string {
	switch s {
	case attendance.StatusMaybe:
		return "TENTATIVE"
	case attendance.StatusNotGoing:
		return "DECLINED"
	default:
		return "ACCEPTED"
	}
}

// QRCode renders a PNG QR code pointing at the event's public page.
func QRCode(baseURL string, id int64, size int) ([]byte, error) {
	png, err := qrcode.Encode(EventURL(baseURL, id), qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate QR code")
	}
	return png, nil
}
