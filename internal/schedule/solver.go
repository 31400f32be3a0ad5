package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Event is a structured engine record keyed by date/stage/entity. Events
// are consumed by an external observability layer; the engine never makes
// control-flow decisions from them.
type Event struct {
	Date     string `json:"date"`
	Stage    string `json:"stage"`
	Activity string `json:"activity,omitempty"`
	Entity   string `json:"entity,omitempty"`
	Message  string `json:"message"`
}

type Emitter interface {
	Emit(e Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(Event) {}

// Solver runs the heuristic pipeline: precedence resolution, batched
// group distribution, room assignment, individual scheduling, stay-time
// evaluation. One date is a single-threaded deterministic computation;
// distinct dates share no state and may run in parallel.
type Solver struct {
	policy  Policy
	emitter Emitter
}

func NewSolver(policy Policy, emitter Emitter) *Solver {
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &Solver{policy: policy, emitter: emitter}
}

// Solve validates the precedence graph once, then fans the dates out.
// A cyclic rule set fails the whole solve before any scheduling attempt.
func (s *Solver) Solve(ctx context.Context, days []DayInput) ([]DayResult, error) {
	for _, day := range days {
		if _, err := NewResolver(day.Rules); err != nil {
			return nil, err
		}
	}
	results := make([]DayResult, len(days))
	g, _ := errgroup.WithContext(ctx)
	for i := range days {
		i := i
		g.Go(func() error {
			results[i] = s.SolveDay(days[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SolveDay runs the full pipeline for one date. The result is
// all-or-nothing: a failed day carries only a diagnostic.
func (s *Solver) SolveDay(input DayInput) DayResult {
	return s.runDay(input, nil)
}

type dayState struct {
	input    DayInput
	acts     map[string]Activity
	resolver *Resolver
	assigner *Assigner
	// placed maps candidate id -> activity name -> item.
	placed map[string]map[string]ScheduleItem
	items  []ScheduleItem
	groups []GroupAssignment
}

func (d *dayState) record(item ScheduleItem) {
	if d.placed[item.CandidateID] == nil {
		d.placed[item.CandidateID] = make(map[string]ScheduleItem)
	}
	d.placed[item.CandidateID][item.Activity] = item
	d.items = append(d.items, item)
}

func (d *dayState) busy(candidateID string) []Interval {
	var out []Interval
	for _, it := range d.placed[candidateID] {
		out = append(out, Interval{Start: it.Start, End: it.End})
	}
	return out
}

// plannedGroup is one (activity, job code) cohort with its formed but
// not yet time-slotted groups.
type plannedGroup struct {
	act     Activity
	jobCode string
	groups  []GroupAssignment
}

// groupPlan forms all batched/parallel groups in the fixed order the
// pipeline processes them: group-mode activities in topological order,
// job codes in input order, members by candidate id ascending.
func (s *Solver) groupPlan(input DayInput, resolver *Resolver, gs *GroupScheduler) []plannedGroup {
	acts := make(map[string]Activity, len(input.Activities))
	names := make([]string, 0, len(input.Activities))
	for _, a := range input.Activities {
		acts[a.Name] = a
		names = append(names, a.Name)
	}
	sort.Strings(names)

	var out []plannedGroup
	for _, name := range resolver.TopoOrder(names) {
		act := acts[name]
		if act.Mode == ModeIndividual {
			continue
		}
		for _, jc := range input.JobCodes {
			var members []Candidate
			for _, c := range input.Candidates {
				if c.JobCode == jc.Code && c.Requires(act.Name) {
					members = append(members, c)
				}
			}
			groups := gs.FormGroups(act, jc.Code, members)
			if len(groups) == 0 {
				continue
			}
			out = append(out, plannedGroup{act: act, jobCode: jc.Code, groups: groups})
		}
	}
	return out
}

// runDay executes one date. fixedSlots, when non-nil, overrides the raw
// group slots (exact mode drives this).
func (s *Solver) runDay(input DayInput, fixedSlots map[string]Minutes) DayResult {
	resolver, err := NewResolver(input.Rules)
	if err != nil {
		return s.failDay(input.Date, err)
	}

	day := &dayState{
		input:    input,
		acts:     make(map[string]Activity, len(input.Activities)),
		resolver: resolver,
		assigner: NewAssigner(input.Rooms, s.policy),
		placed:   make(map[string]map[string]ScheduleItem),
	}
	for _, a := range input.Activities {
		day.acts[a.Name] = a
	}

	for _, jc := range input.JobCodes {
		if jc.CandidateCount == 0 {
			continue
		}
		if _, ok := input.Windows[jc.Code]; !ok {
			return s.failDay(input.Date, fmt.Errorf("no operating window for job code %s on %s", jc.Code, input.Date))
		}
	}

	s.emitter.Emit(Event{Date: input.Date, Stage: "groups", Message: "scheduling batched groups"})
	gs := NewGroupScheduler(s.policy, resolver)
	for _, pg := range s.groupPlan(input, resolver, gs) {
		if err := s.scheduleGroups(day, gs, pg, fixedSlots); err != nil {
			return s.failDay(input.Date, err)
		}
	}

	s.emitter.Emit(Event{Date: input.Date, Stage: "individual", Message: "scheduling individual activities"})
	if err := s.scheduleIndividuals(day); err != nil {
		return s.failDay(input.Date, err)
	}

	stats := EvaluateStayTimes(day.items)
	s.emitter.Emit(Event{Date: input.Date, Stage: "done", Message: fmt.Sprintf("placed %d items", len(day.items))})
	return DayResult{
		Date:   input.Date,
		Status: StatusOK,
		Items:  day.items,
		Groups: day.groups,
		Stats:  stats,
	}
}

// scheduleGroups time-slots one cohort's groups and binds rooms to them.
func (s *Solver) scheduleGroups(day *dayState, gs *GroupScheduler, pg plannedGroup, fixedSlots map[string]Minutes) error {
	window := day.input.Windows[pg.jobCode]
	candByID := make(map[string]*Candidate)
	for i := range day.input.Candidates {
		c := &day.input.Candidates[i]
		candByID[c.ID] = c
	}
	earliest := func(memberID string) Minutes {
		return day.resolver.EarliestStart(candByID[memberID], pg.act.Name, window.Start, day.placed[memberID])
	}

	if err := gs.PlanSlots(pg.groups, pg.act, window, day.input.Lunch, day.input.Date, earliest, fixedSlots); err != nil {
		return err
	}

	for i := range pg.groups {
		grp := &pg.groups[i]
		var busy []Interval
		for _, id := range grp.Members {
			busy = append(busy, day.busy(id)...)
		}
		placement, err := day.assigner.Place(PlacementRequest{
			Entity:   grp.GroupID,
			Activity: pg.act,
			JobCode:  pg.jobCode,
			Start:    grp.Start,
			Size:     len(grp.Members),
			MaxShift: s.policy.MaxGap,
			Window:   window,
			Lunch:    day.input.Lunch,
			Busy:     busy,
		})
		if err != nil {
			return err
		}
		grp.Room = placement.Room
		grp.Start = placement.Start
		grp.End = placement.End
		day.groups = append(day.groups, *grp)
		s.emitter.Emit(Event{
			Date: day.input.Date, Stage: "groups", Activity: pg.act.Name, Entity: grp.GroupID,
			Message: fmt.Sprintf("group of %d in %s at %s", len(grp.Members), grp.Room, grp.Start.Clock()),
		})
		for _, id := range grp.Members {
			day.record(ScheduleItem{
				CandidateID: id,
				JobCode:     pg.jobCode,
				Date:        day.input.Date,
				Activity:    pg.act.Name,
				Room:        placement.Room,
				Start:       placement.Start,
				End:         placement.End,
				GroupSize:   len(grp.Members),
			})
		}
	}
	return nil
}

// scheduleIndividuals places each candidate's remaining individual-mode
// activities after their precedence predecessors.
func (s *Solver) scheduleIndividuals(day *dayState) error {
	candidates := append([]Candidate{}, day.input.Candidates...)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	for i := range candidates {
		c := &candidates[i]
		window, ok := day.input.Windows[c.JobCode]
		if !ok {
			return fmt.Errorf("no operating window for job code %s on %s", c.JobCode, day.input.Date)
		}
		for _, name := range day.resolver.TopoOrder(c.Activities) {
			act, known := day.acts[name]
			if !known || act.Mode != ModeIndividual {
				continue
			}
			if _, already := day.placed[c.ID][name]; already {
				continue
			}

			start := day.resolver.EarliestStart(c, name, window.Start, day.placed[c.ID])
			maxShift := s.policy.MaxGap
			pinned := false
			var pinWant Minutes
			if rule, has := day.resolver.AdjacentRule(name); has && c.Requires(rule.Predecessor) {
				if pred, placed := day.placed[c.ID][rule.Predecessor]; placed {
					pinWant = pred.End + rule.GapMinutes
					start = pinWant
					maxShift = 0
					pinned = true
				}
			}
			if !pinned && day.input.Lunch.Overlaps(start, start+act.Duration) {
				start = day.input.Lunch.End
			}

			placement, err := day.assigner.Place(PlacementRequest{
				Entity:   c.ID,
				Activity: act,
				JobCode:  c.JobCode,
				Start:    start,
				Size:     1,
				MaxShift: maxShift,
				Window:   window,
				Lunch:    day.input.Lunch,
				Busy:     day.busy(c.ID),
			})
			if err != nil {
				return err
			}
			if pinned && placement.Start != pinWant {
				return &ConstraintViolationError{Candidate: c.ID, Activity: name, Want: pinWant, Got: placement.Start}
			}

			day.record(ScheduleItem{
				CandidateID: c.ID,
				JobCode:     c.JobCode,
				Date:        day.input.Date,
				Activity:    name,
				Room:        placement.Room,
				Start:       placement.Start,
				End:         placement.End,
				GroupSize:   1,
			})
		}
	}
	return nil
}

// failDay maps an error to the day's terminal status. Heuristic dead ends
// are NO_SOLUTION; structural and internal-defect failures are
// INFEASIBLE. Partial assignments are never surfaced.
func (s *Solver) failDay(date string, err error) DayResult {
	diag := &Diagnostic{Date: date, Detail: err.Error()}
	status := StatusInfeasible

	var cyc *CycleError
	var sf *SchedulingFailureError
	var ru *RoomUnavailableError
	var cv *ConstraintViolationError
	var ce *CapacityError
	switch {
	case errors.As(err, &cyc):
		diag.Constraint = "CycleDetected"
	case errors.As(err, &sf):
		diag.Constraint = "SchedulingFailure"
		diag.Activity = sf.Activity
		diag.Entity = sf.GroupID
		status = StatusNoSolution
	case errors.As(err, &ru):
		diag.Constraint = "RoomUnavailable"
		diag.Activity = ru.Activity
		diag.Entity = ru.Entity
		status = StatusNoSolution
	case errors.As(err, &cv):
		diag.Constraint = "ConstraintViolation"
		diag.Activity = cv.Activity
		diag.Entity = cv.Candidate
	case errors.As(err, &ce):
		diag.Constraint = "CapacityExceeded"
		diag.Entity = ce.Room
	default:
		diag.Constraint = "InvalidConfiguration"
	}

	s.emitter.Emit(Event{Date: date, Stage: "failed", Activity: diag.Activity, Entity: diag.Entity, Message: err.Error()})
	return DayResult{Date: date, Status: status, Diagnostic: diag}
}
