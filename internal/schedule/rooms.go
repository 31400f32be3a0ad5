package schedule

import (
	"sort"
)

type booking struct {
	start Minutes
	end   Minutes
	size  int
}

// track is the per-room ordered occupancy structure. It is local to one
// date's solve and discarded afterward.
type track struct {
	room     Room
	bookings []booking
}

// peakHeadcount returns the maximum concurrent headcount inside
// [start,end) if a booking of the given size were added.
func (t *track) peakHeadcount(start, end Minutes, size int) int {
	peak := size
	for _, b := range t.bookings {
		if b.start >= end || b.end <= start {
			continue
		}
		// Sweep the overlapping booking's start point.
		at := b.start
		if at < start {
			at = start
		}
		sum := size
		for _, o := range t.bookings {
			if o.start <= at && o.end > at {
				sum += o.size
			}
		}
		if sum > peak {
			peak = sum
		}
	}
	return peak
}

func (t *track) fits(start, end Minutes, size int) bool {
	return t.peakHeadcount(start, end, size) <= t.room.Capacity
}

func (t *track) book(start, end Minutes, size int) error {
	i := sort.Search(len(t.bookings), func(i int) bool { return t.bookings[i].start >= start })
	t.bookings = append(t.bookings, booking{})
	copy(t.bookings[i+1:], t.bookings[i:])
	t.bookings[i] = booking{start: start, end: end, size: size}
	// Defensive re-check of the whole track.
	for _, b := range t.bookings {
		if hc := t.peakHeadcount(b.start, b.end, 0); hc > t.room.Capacity {
			return &CapacityError{Room: t.room.ID, At: b.start, Headcount: hc, Capacity: t.room.Capacity}
		}
	}
	return nil
}

// Interval is a candidate-busy span the assigner must avoid when shifting.
type Interval struct {
	Start Minutes
	End   Minutes
}

// Assigner binds concrete rooms to time-stamped activity instances, both
// group and individual. State is scoped to one date.
type Assigner struct {
	rooms  []Room
	tracks map[string]*track
	policy Policy
}

func NewAssigner(rooms []Room, policy Policy) *Assigner {
	sorted := append([]Room{}, rooms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	tracks := make(map[string]*track, len(sorted))
	for _, r := range sorted {
		tracks[r.ID] = &track{room: r}
	}
	return &Assigner{rooms: sorted, tracks: tracks, policy: policy}
}

// PlacementRequest asks for a room for one entity. MaxShift bounds how far
// past Start the assigner may move the interval; 0 pins it exactly.
type PlacementRequest struct {
	Entity   string
	Activity Activity
	JobCode  string
	Start    Minutes
	Size     int
	MaxShift Minutes
	Window   OperatingWindow
	Lunch    LunchBreak
	Busy     []Interval
}

type Placement struct {
	Room  string
	Start Minutes
	End   Minutes
}

func overlapsAny(busy []Interval, start, end Minutes) bool {
	for _, iv := range busy {
		if start < iv.End && end > iv.Start {
			return true
		}
	}
	return false
}

// Place scans eligible rooms at the requested start, then shifts forward
// in fixed increments up to MaxShift. The earliest admissible start wins;
// ties go to the lowest room id. Exhaustion yields *RoomUnavailableError.
func (a *Assigner) Place(req PlacementRequest) (Placement, error) {
	dur := req.Activity.Duration
	for shift := Minutes(0); shift <= req.MaxShift; shift += a.policy.ShiftStep {
		start := req.Start + shift
		end := start + dur
		if end > req.Window.End {
			break
		}
		if req.Lunch.Overlaps(start, end) {
			continue
		}
		if overlapsAny(req.Busy, start, end) {
			continue
		}
		for _, room := range a.rooms {
			if !room.EligibleFor(req.JobCode, req.Activity.RoomType) {
				continue
			}
			tr := a.tracks[room.ID]
			if !tr.fits(start, end, req.Size) {
				continue
			}
			if err := tr.book(start, end, req.Size); err != nil {
				return Placement{}, err
			}
			return Placement{Room: room.ID, Start: start, End: end}, nil
		}
		if req.MaxShift == 0 {
			break
		}
	}
	return Placement{}, &RoomUnavailableError{Entity: req.Entity, Activity: req.Activity.Name, Start: req.Start}
}
