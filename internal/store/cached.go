package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"community-event-planner/internal/attendance"
	"community-event-planner/internal/cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cache is the key/value cache the CachedStore reads through.
type Cache interface {
	Get(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedStore serves reads from a cache in front of another EventStore and
// drops the affected keys on every write. Cache failures are logged and
// never fail the request.
//
// A fill is dropped when any write invalidated the cache after the fill's
// read started, so a slow reader cannot put an overwritten event back.
type CachedStore struct {
	next  EventStore
	cache Cache
	ttl   time.Duration
	group singleflight.Group

	mu         sync.Mutex
	generation uint64
}

// NewCachedStore wraps next with a read-through cache.
func NewCachedStore(next EventStore, c Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: c, ttl: ttl}
}

func (s *CachedStore) List(ctx context.Context) ([]attendance.Event, error) {
	var events []attendance.Event
	if err := s.cache.Get(ctx, cache.EventListKey, &events); err == nil {
		return events, nil
	}

	v, err, _ := s.group.Do(cache.EventListKey, func() (interface{}, error) {
		gen := s.currentGeneration()
		events, err := s.next.List(ctx)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, gen, cache.EventListKey, events)
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneEvents(v.([]attendance.Event)), nil
}

func (s *CachedStore) Get(ctx context.Context, id int64) (attendance.Event, error) {
	key := cache.EventKey(id)
	var ev attendance.Event
	if err := s.cache.Get(ctx, key, &ev); err == nil {
		return ev, nil
	}

	v, err, _ := s.group.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		gen := s.currentGeneration()
		ev, err := s.next.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		s.fill(ctx, gen, key, ev)
		return ev, nil
	})
	if err != nil {
		return attendance.Event{}, err
	}
	return v.(attendance.Event).Clone(), nil
}

// GetForUpdate reads an event straight from the underlying store. Callers
// that write the event back use it instead of Get.
func (s *CachedStore) GetForUpdate(ctx context.Context, id int64) (attendance.Event, error) {
	return s.next.Get(ctx, id)
}

func (s *CachedStore) Create(ctx context.Context, ev attendance.Event) error {
	if err := s.next.Create(ctx, ev); err != nil {
		return err
	}
	s.invalidate(ctx, ev.ID)
	return nil
}

func (s *CachedStore) Update(ctx context.Context, ev attendance.Event) error {
	err := s.next.Update(ctx, ev)
	s.invalidate(ctx, ev.ID)
	return err
}

func (s *CachedStore) Delete(ctx context.Context, id int64) error {
	err := s.next.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *CachedStore) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// fill stores value unless a write invalidated the cache since gen was read.
// The check and the write happen under mu so an invalidation cannot slip in
// between them.
func (s *CachedStore) fill(ctx context.Context, gen uint64, key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.Debug().Str("key", key).Msg("cache fill dropped after concurrent write")
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache fill skipped")
	}
}

func (s *CachedStore) invalidate(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if err := s.cache.Delete(ctx, cache.EventKey(id), cache.EventListKey); err != nil {
		log.Debug().Err(err).Int64("event_id", id).Msg("cache invalidation skipped")
	}
}

func cloneEvents(events []attendance.Event) []attendance.Event {
	out := make([]attendance.Event, len(events))
	for i, ev := range events {
		out[i] = ev.Clone()
	}
	return out
}
