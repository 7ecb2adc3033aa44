package attendance

// Unbounded is the Available value of an event without a capacity limit.
const Unbounded = -1

// LowAvailability is the number of remaining spots at or below which an
// event is flagged as nearly full.
const LowAvailability = 5

// Tier is the advisory availability band shown next to an event.
type Tier string

const (
	TierUnlimited Tier = "unlimited"
	TierOpen      Tier = "open"
	TierLow       Tier = "low"
	TierFull      Tier = "full"
)

// Capacity describes the occupancy of an event. SpotsLeft is only
// meaningful when Limited is set and can go negative when an event is
// oversubscribed.
type Capacity struct {
	Occupied     int  `json:"occupied"`
	Limited      bool `json:"limited"`
	MaxAttendees int  `json:"max_attendees,omitempty"`
	SpotsLeft    int  `json:"spots_left"`
	Available    int  `json:"available"`
	IsFull       bool `json:"is_full"`
}

// CapacityOf derives the occupancy of ev. Records marked notgoing do not
// take a spot.
func CapacityOf(ev Event) Capacity {
	c := Capacity{Occupied: CountOf(ev).Attending, Available: Unbounded}
	if ev.MaxAttendees <= 0 {
		return c
	}
	c.Limited = true
	c.MaxAttendees = ev.MaxAttendees
	c.SpotsLeft = ev.MaxAttendees - c.Occupied
	c.IsFull = c.SpotsLeft <= 0
	c.Available = max(c.SpotsLeft, 0)
	return c
}

// Tier returns the display band for c. It never affects whether an RSVP is
// accepted.
func (c Capacity) Tier() Tier {
	switch {
	case !c.Limited:
		return TierUnlimited
	case c.SpotsLeft <= 0:
		return TierFull
	case c.SpotsLeft <= LowAvailability:
		return TierLow
	default:
		return TierOpen
	}
}
