package store

import (
	"context"

	"community-event-planner/internal/attendance"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Common store errors
var (
	ErrNotFound  = errors.New("event not found")
	ErrDuplicate = errors.New("event already exists")
)

// EventStore persists events together with their attendee records.
type EventStore interface {
	List(ctx context.Context) ([]attendance.Event, error)
	Get(ctx context.Context, id int64) (attendance.Event, error)
	Create(ctx context.Context, ev attendance.Event) error
	Update(ctx context.Context, ev attendance.Event) error
	Delete(ctx context.Context, id int64) error
}

// GormStore is an EventStore backed by gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func orderedAttendees(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// List returns every event ordered by date and time.
func (s *GormStore) List(ctx context.Context) ([]attendance.Event, error) {
	var rows []Event
	err := s.db.WithContext(ctx).
		Preload("Attendees", orderedAttendees).
		Order("date asc").Order("time asc").Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}

	events := make([]attendance.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}

// Get loads a single event.
func (s *GormStore) Get(ctx context.Context, id int64) (attendance.Event, error) {
	var row Event
	err := s.db.WithContext(ctx).Preload("Attendees", orderedAttendees).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendance.Event{}, ErrNotFound
		}
		return attendance.Event{}, errors.Wrapf(err, "failed to load event %d", id)
	}
	return row.toDomain(), nil
}

// Create inserts ev and its attendees.
func (s *GormStore) Create(ctx context.Context, ev attendance.Event) error {
	row := toRow(ev)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Event{}).Where("id = ?", ev.ID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "failed to check event id")
		}
		if n > 0 {
			return ErrDuplicate
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return errors.Wrap(err, "failed to create event")
		}
		if len(row.Attendees) > 0 {
			if err := tx.Create(&row.Attendees).Error; err != nil {
				return errors.Wrap(err, "failed to create attendees")
			}
		}
		return nil
	})
}

// Update rewrites the fields and attendee list of an existing event.
func (s *GormStore) Update(ctx context.Context, ev attendance.Event) error {
	row := toRow(ev)
	fields := row
	fields.Attendees = nil
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Event{ID: ev.ID}).
			Select("title", "category", "date", "time", "location", "description",
				"max_attendees", "created_by", "created_by_role", "updated_at").
			Updates(&fields)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to update event %d", ev.ID)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("event_id = ?", ev.ID).Delete(&EventAttendee{}).Error; err != nil {
			return errors.Wrap(err, "failed to clear attendees")
		}
		if len(row.Attendees) > 0 {
			if err := tx.Create(&row.Attendees).Error; err != nil {
				return errors.Wrap(err, "failed to write attendees")
			}
		}
		return nil
	})
}

// Delete removes an event and its attendees.
func (s *GormStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&EventAttendee{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete attendees")
		}
		res := tx.Delete(&Event{}, id)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to delete event %d", id)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
