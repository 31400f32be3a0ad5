package schedule

import (
	"fmt"
	"strings"
)

// Minutes counts whole minutes since midnight for times, or a span of
// whole minutes for durations and gaps.
type Minutes int

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (Minutes, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return Minutes(h*60 + m), nil
}

// Clock renders minutes since midnight back as "HH:MM".
func (m Minutes) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

type ActivityMode string

const (
	ModeIndividual ActivityMode = "individual"
	ModeBatched    ActivityMode = "batched"
	ModeParallel   ActivityMode = "parallel"
)

// Activity is immutable after configuration.
type Activity struct {
	Name        string
	Mode        ActivityMode
	Duration    Minutes
	RoomType    string
	MinCapacity int
	MaxCapacity int
}

// JobCode defines which activities each of its candidates must receive.
type JobCode struct {
	Code           string
	CandidateCount int
	Activities     []string
}

type Candidate struct {
	ID         string
	JobCode    string
	Activities []string
}

// Requires reports whether the candidate's required set contains name.
func (c *Candidate) Requires(name string) bool {
	for _, a := range c.Activities {
		if a == name {
			return true
		}
	}
	return false
}

// Room is one physical instance of a room type, identified by a suffix
// letter. A nil JobCodes set means the room admits every job code; a
// non-nil set admits exactly its members.
type Room struct {
	ID       string
	RoomType string
	Suffix   string
	Capacity int
	JobCodes map[string]bool
}

// EligibleFor reports whether the room may host the given job code for an
// activity of the given room type.
func (r *Room) EligibleFor(jobCode, roomType string) bool {
	if r.RoomType != roomType {
		return false
	}
	if r.JobCodes == nil {
		return true
	}
	return r.JobCodes[jobCode]
}

// Virtual precedence anchors meaning "first/last activity of the day".
const (
	AnchorStart = "__START__"
	AnchorEnd   = "__END__"
)

type PrecedenceRule struct {
	Predecessor string
	Successor   string
	GapMinutes  Minutes
	Adjacent    bool
}

// OperatingWindow bounds all activities of one job code on one date.
type OperatingWindow struct {
	JobCode string
	Date    string
	Start   Minutes
	End     Minutes
}

// LunchBreak is a fixed block no activity may overlap. The zero value
// means no lunch block is configured.
type LunchBreak struct {
	Start Minutes
	End   Minutes
}

func (l LunchBreak) IsZero() bool { return l.Start == 0 && l.End == 0 }

// Overlaps reports whether [start,end) intersects the lunch block.
func (l LunchBreak) Overlaps(start, end Minutes) bool {
	if l.IsZero() {
		return false
	}
	return start < l.End && end > l.Start
}

// GroupAssignment is one batched (or parallel) group: all members share
// identical room and time.
type GroupAssignment struct {
	GroupID  string
	Activity string
	JobCode  string
	Members  []string
	Room     string
	Start    Minutes
	End      Minutes
}

// ScheduleItem is the flattened output unit: one per candidate per
// activity. Batched groups expand into one item per member.
type ScheduleItem struct {
	CandidateID string
	JobCode     string
	Date        string
	Activity    string
	Room        string
	Start       Minutes
	End         Minutes
	GroupSize   int
}

func (s ScheduleItem) overlaps(o ScheduleItem) bool {
	return s.Start < o.End && s.End > o.Start
}

type SolveStatus string

const (
	StatusOK         SolveStatus = "OK"
	StatusNoSolution SolveStatus = "NO_SOLUTION"
	StatusInfeasible SolveStatus = "INFEASIBLE"
	StatusTimeLimit  SolveStatus = "TIME_LIMIT_EXCEEDED"
)

// Diagnostic identifies the offending activity/group/date/constraint on
// failure, for the external reporting layer.
type Diagnostic struct {
	Date       string `json:"date"`
	Activity   string `json:"activity,omitempty"`
	Entity     string `json:"entity,omitempty"`
	Constraint string `json:"constraint"`
	Detail     string `json:"detail,omitempty"`
}

// DayInput is the full, immutable configuration for one date's solve.
type DayInput struct {
	Date       string
	Activities []Activity
	JobCodes   []JobCode
	Candidates []Candidate
	Rooms      []Room
	Rules      []PrecedenceRule
	Windows    map[string]OperatingWindow
	Lunch      LunchBreak
}

// DayResult is the all-or-nothing outcome of one date's solve: on any
// failure Items and Groups are empty and Diagnostic is set.
type DayResult struct {
	Date       string
	Status     SolveStatus
	Items      []ScheduleItem
	Groups     []GroupAssignment
	Stats      []StayTimeSummary
	Diagnostic *Diagnostic
}
