package schedule

import (
	"context"
	"time"
)

// ExactOutcome is the status of the alternative exact execution mode.
// Timing out is not an error: the caller decides whether to accept the
// best-found feasible schedule or retry with relaxed constraints.
type ExactOutcome string

const (
	ExactOptimal    ExactOutcome = "optimal"
	ExactFeasible   ExactOutcome = "feasible"
	ExactInfeasible ExactOutcome = "infeasible"
	ExactTimedOut   ExactOutcome = "timed_out"
)

// Grid granularity for enumerated group starts. Coarser than the room
// assigner's shift step to keep the search space bounded.
const exactGridStep = Minutes(30)

// SolveDayExact searches over discretized group start times by
// backtracking, keeping the schedule with the lowest total stay time.
// Individual activities are still placed by the heuristic pipeline at
// every leaf, so the result is exact at the group-slot level only.
func (s *Solver) SolveDayExact(ctx context.Context, input DayInput, budget time.Duration) (DayResult, ExactOutcome) {
	resolver, err := NewResolver(input.Rules)
	if err != nil {
		return s.failDay(input.Date, err), ExactInfeasible
	}

	if budget <= 0 {
		budget = 30 * time.Second
	}
	deadline := time.Now().Add(budget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	gs := NewGroupScheduler(s.policy, resolver)
	plan := s.groupPlan(input, resolver, gs)

	// Flatten to one slot variable per group, with its admissible grid.
	type variable struct {
		groupID string
		grid    []Minutes
	}
	var vars []variable
	for _, pg := range plan {
		window := input.Windows[pg.jobCode]
		var grid []Minutes
		for t := window.Start; t+pg.act.Duration <= window.End; t += exactGridStep {
			if input.Lunch.Overlaps(t, t+pg.act.Duration) {
				continue
			}
			grid = append(grid, t)
		}
		for _, grp := range pg.groups {
			vars = append(vars, variable{groupID: grp.GroupID, grid: grid})
		}
	}

	if len(vars) == 0 {
		// Nothing to enumerate; the heuristic result is the exact result.
		res := s.runDay(input, nil)
		if res.Status == StatusOK {
			return res, ExactOptimal
		}
		return res, ExactInfeasible
	}

	best := DayResult{}
	bestCost := -1
	timedOut := false
	assignment := make(map[string]Minutes, len(vars))

	var search func(i int) bool
	search = func(i int) bool {
		if time.Now().After(deadline) || ctx.Err() != nil {
			timedOut = true
			return false
		}
		if i == len(vars) {
			res := s.runDay(input, assignment)
			if res.Status != StatusOK {
				return true
			}
			cost := 0
			for _, stay := range CandidateStayTimes(res.Items) {
				cost += int(stay)
			}
			if bestCost < 0 || cost < bestCost {
				bestCost = cost
				best = res
			}
			return true
		}
		for _, t := range vars[i].grid {
			assignment[vars[i].groupID] = t
			if !search(i + 1) {
				return false
			}
		}
		delete(assignment, vars[i].groupID)
		return true
	}
	completed := search(0)

	switch {
	case bestCost >= 0 && completed:
		return best, ExactOptimal
	case bestCost >= 0 && timedOut:
		best.Status = StatusTimeLimit
		return best, ExactTimedOut
	case bestCost >= 0:
		return best, ExactFeasible
	case timedOut:
		res := s.failDay(input.Date, &SchedulingFailureError{Activity: "", GroupID: "", Date: input.Date})
		res.Status = StatusTimeLimit
		res.Diagnostic.Constraint = "TimeLimitExceeded"
		res.Diagnostic.Detail = "exact search exhausted its time budget without a feasible schedule"
		return res, ExactTimedOut
	default:
		res := s.runDay(input, nil) // reuse the heuristic diagnostic
		if res.Status == StatusOK {
			// The heuristic found a schedule the grid search missed
			// (off-grid slots); report it as feasible, not optimal.
			return res, ExactFeasible
		}
		res.Status = StatusInfeasible
		return res, ExactInfeasible
	}
}
