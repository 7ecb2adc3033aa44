package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"community-event-planner/internal/attendance"
	"community-event-planner/internal/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnauthenticated = errors.New("login required")
	ErrForbidden       = errors.New("permission denied")
)

// Session is the acting user as supplied by the session token. A zero
// Session is an anonymous viewer.
type Session struct {
	Name string
	Role attendance.Role
}

func (s Session) Authenticated() bool {
	return s.Name != ""
}

// EventInput carries the editable fields of an event.
type EventInput struct {
	Title        string
	Category     string
	Date         string
	Time         string
	Location     string
	Description  string
	MaxAttendees int
}

// ListFilter narrows the event list. Empty fields match everything.
type ListFilter struct {
	Search   string
	Category string
	Date     string
}

// Summary counts the events a logged-in user is reminded about.
type Summary struct {
	Upcoming int `json:"upcoming"`
	Today    int `json:"today"`
}

// EventService is the single entry point for reading and mutating events.
// Every mutation of one event runs under that event's lock so concurrent
// RSVPs cannot lose each other's records.
type EventService struct {
	store store.EventStore
	now   func() time.Time
	locks *eventLocks

	idMu   sync.Mutex
	lastID int64
}

func NewEventService(s store.EventStore) *EventService {
	return &EventService{
		store: s,
		now:   time.Now,
		locks: newEventLocks(),
	}
}

// nextID hands out creation-time based ids that never repeat within this
// process, even for events created in the same millisecond.
func (s *EventService) nextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *EventService) List(ctx context.Context, f ListFilter) ([]attendance.Event, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]attendance.Event, 0, len(events))
	for _, ev := range events {
		if ev.Title == "" {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(ev.Title), search) {
			continue
		}
		if f.Category != "" && ev.Category != f.Category {
			continue
		}
		if f.Date != "" && ev.Date != f.Date {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (attendance.Event, error) {
	return s.store.Get(ctx, id)
}

// updateReader is implemented by stores that put a cache in front of the
// database. Reads that are written back must skip that cache.
type updateReader interface {
	GetForUpdate(ctx context.Context, id int64) (attendance.Event, error)
}

// loadForUpdate reads the current state of an event. Callers hold the
// event's lock.
func (s *EventService) loadForUpdate(ctx context.Context, id int64) (attendance.Event, error) {
	if r, ok := s.store.(updateReader); ok {
		return r.GetForUpdate(ctx, id)
	}
	return s.store.Get(ctx, id)
}

// Create stores a new event owned by the session user. The creator's role
// is captured now and never changes afterwards.
func (s *EventService) Create(ctx context.Context, sess Session, in EventInput) (attendance.Event, error) {
	if !sess.Authenticated() {
		return attendance.Event{}, ErrUnauthenticated
	}

	role := sess.Role
	if role == "" {
		role = attendance.RoleUser
	}
	ev := attendance.Event{
		CreatedBy:     sess.Name,
		CreatedByRole: role,
		Attendees:     []attendance.Record{},
	}
	applyInput(&ev, in)

	const attempts = 3
	for i := 0; i < attempts; i++ {
		ev.ID = s.nextID()
		err := s.store.Create(ctx, ev)
		if err == nil {
			log.Info().Int64("event_id", ev.ID).Str("created_by", ev.CreatedBy).Msg("event created")
			return ev, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return attendance.Event{}, err
		}
	}
	return attendance.Event{}, store.ErrDuplicate
}

// Update changes the descriptive fields of an event. Ownership, creator
// role and attendees are left alone.
func (s *EventService) Update(ctx context.Context, sess Session, id int64, in EventInput) (attendance.Event, error) {
	if !sess.Authenticated() {
		return attendance.Event{}, ErrUnauthenticated
	}

	unlock := s.locks.lock(id)
	defer unlock()

	ev, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return attendance.Event{}, err
	}
	if !attendance.CanEdit(sess.Role, sess.Name, ev) {
		return attendance.Event{}, ErrForbidden
	}

	applyInput(&ev, in)
	if err := s.store.Update(ctx, ev); err != nil {
		return attendance.Event{}, err
	}
	return ev, nil
}

// Delete removes an event if the session user may delete it.
func (s *EventService) Delete(ctx context.Context, sess Session, id int64) error {
	if !sess.Authenticated() {
		return ErrUnauthenticated
	}

	unlock := s.locks.lock(id)
	defer unlock()

	ev, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if !attendance.CanDelete(sess.Role, sess.Name, ev) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("event_id", id).Str("deleted_by", sess.Name).Msg("event deleted")
	return nil
}

// SetRSVP records the session user's response on an event. Capacity is
// informational; a full event still accepts responses.
func (s *EventService) SetRSVP(ctx context.Context, sess Session, id int64, status attendance.Status) (attendance.Event, error) {
	if !sess.Authenticated() {
		return attendance.Event{}, ErrUnauthenticated
	}

	unlock := s.locks.lock(id)
	defer unlock()

	ev, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return attendance.Event{}, err
	}
	updated, err := attendance.SetRSVP(ev, sess.Name, status)
	if err != nil {
		return attendance.Event{}, err
	}
	if err := s.store.Update(ctx, updated); err != nil {
		return attendance.Event{}, err
	}

	if c := attendance.CapacityOf(updated); c.Limited && c.SpotsLeft < 0 {
		log.Warn().Int64("event_id", id).Int("spots_left", c.SpotsLeft).Msg("event is oversubscribed")
	}
	return updated, nil
}

// Summary counts events starting after now and events dated today.
func (s *EventService) Summary(ctx context.Context) (Summary, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return summarize(events, s.now()), nil
}

func summarize(events []attendance.Event, now time.Time) Summary {
	var sum Summary
	today := now.UTC().Format("2006-01-02")
	for _, ev := range events {
		if ev.Date == "" {
			continue
		}
		if ev.Date == today {
			sum.Today++
		}
		clock := ev.Time
		if clock == "" {
			clock = "00:00"
		}
		start, err := time.ParseInLocation("2006-01-02T15:04", ev.Date+"T"+clock, now.Location())
		if err != nil {
			continue
		}
		if start.After(now) {
			sum.Upcoming++
		}
	}
	return sum
}

func applyInput(ev *attendance.Event, in EventInput) {
	ev.Title = strings.TrimSpace(in.Title)
	ev.Category = strings.TrimSpace(in.Category)
	ev.Date = in.Date
	ev.Time = in.Time
	ev.Location = strings.TrimSpace(in.Location)
	ev.Description = strings.TrimSpace(in.Description)
	ev.MaxAttendees = in.MaxAttendees
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// eventLocks is a set of per-event mutexes that are dropped once unused.
type eventLocks struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[int64]*lockEntry)}
}

func (l *eventLocks) lock(id int64) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
