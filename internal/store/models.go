package store

import (
	"time"

	"community-event-planner/internal/attendance"
	"gorm.io/gorm"
)

// Event is the persisted form of an event.
type Event struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	Title         string `gorm:"not null"`
	Category      string `gorm:"index"`
	Date          string `gorm:"type:varchar(10);index"`
	Time          string `gorm:"type:varchar(5)"`
	Location      string
	Description   string
	MaxAttendees  int
	CreatedBy     string `gorm:"index"`
	CreatedByRole string `gorm:"type:varchar(16)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Attendees []EventAttendee `gorm:"foreignKey:EventID"`
}

// EventAttendee is one response on an event. Position keeps insertion order.
type EventAttendee struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   int64  `gorm:"uniqueIndex:idx_event_attendee_name;not null"`
	Name      string `gorm:"uniqueIndex:idx_event_attendee_name;not null"`
	Status    string `gorm:"type:varchar(16);not null"`
	Position  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Migrate creates or updates the event tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Event{}, &EventAttendee{})
}

func toRow(ev attendance.Event) Event {
	row := Event{
		ID:            ev.ID,
		Title:         ev.Title,
		Category:      ev.Category,
		Date:          ev.Date,
		Time:          ev.Time,
		Location:      ev.Location,
		Description:   ev.Description,
		MaxAttendees:  ev.MaxAttendees,
		CreatedBy:     ev.CreatedBy,
		CreatedByRole: string(ev.CreatedByRole),
	}
	row.Attendees = attendeeRows(ev.ID, ev.Attendees)
	return row
}

func attendeeRows(eventID int64, records []attendance.Record) []EventAttendee {
	rows := make([]EventAttendee, 0, len(records))
	for i, r := range attendance.NormalizeRecords(records) {
		rows = append(rows, EventAttendee{
			EventID:  eventID,
			Name:     r.Name,
			Status:   string(r.Status),
			Position: i,
		})
	}
	return rows
}

func (row Event) toDomain() attendance.Event {
	ev := attendance.Event{
		ID:            row.ID,
		Title:         row.Title,
		Category:      row.Category,
		Date:          row.Date,
		Time:          row.Time,
		Location:      row.Location,
		Description:   row.Description,
		MaxAttendees:  row.MaxAttendees,
		CreatedBy:     row.CreatedBy,
		CreatedByRole: attendance.Role(row.CreatedByRole),
		Attendees:     make([]attendance.Record, 0, len(row.Attendees)),
	}
	for _, a := range row.Attendees {
		ev.Attendees = append(ev.Attendees, attendance.Record{Name: a.Name, Status: attendance.Status(a.Status)})
	}
	return ev
}
