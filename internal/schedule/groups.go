package schedule

import (
	"fmt"
	"math"
	"sort"
)

// GroupScheduler partitions candidates sharing a batched activity into
// groups and computes target start times for them. Room binding is
// deferred to the Assigner.
type GroupScheduler struct {
	policy   Policy
	resolver *Resolver
}

func NewGroupScheduler(policy Policy, resolver *Resolver) *GroupScheduler {
	return &GroupScheduler{policy: policy, resolver: resolver}
}

// distributes reports whether the balanced distribution applies to the
// activity; everything else falls back to sequential packing.
func (g *GroupScheduler) distributes(act Activity) bool {
	return act.Mode == ModeBatched &&
		act.MinCapacity >= g.policy.MinGroupSize &&
		act.Duration >= g.policy.MinDistributionDuration &&
		!g.policy.excluded(act.Name)
}

// FormGroups chunks the members (candidate id ascending) into groups as
// evenly sized as possible, never exceeding the activity's max capacity.
// A cohort smaller than min capacity still forms a single group rather
// than dropping candidates.
func (g *GroupScheduler) FormGroups(act Activity, jobCode string, members []Candidate) []GroupAssignment {
	if len(members) == 0 {
		return nil
	}
	sorted := append([]Candidate{}, members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	maxCap := act.MaxCapacity
	if maxCap <= 0 {
		maxCap = len(sorted)
	}
	groupCount := (len(sorted) + maxCap - 1) / maxCap
	q, r := len(sorted)/groupCount, len(sorted)%groupCount

	groups := make([]GroupAssignment, 0, groupCount)
	idx := 0
	for i := 0; i < groupCount; i++ {
		size := q
		if i < r {
			size++
		}
		ids := make([]string, 0, size)
		for _, c := range sorted[idx : idx+size] {
			ids = append(ids, c.ID)
		}
		idx += size
		groups = append(groups, GroupAssignment{
			GroupID:  fmt.Sprintf("%s-%s-g%d", act.Name, jobCode, i+1),
			Activity: act.Name,
			JobCode:  jobCode,
			Members:  ids,
		})
	}
	return groups
}

// PlanSlots assigns each group a start/end time within the window.
// earliest resolves the precedence lower bound for one member; the group
// bound is the maximum across members, since all members share one time.
// fixed, when non-nil, overrides the raw slot per group id (exact mode).
// Computed slots are floored to the whole minute.
func (g *GroupScheduler) PlanSlots(groups []GroupAssignment, act Activity, window OperatingWindow, lunch LunchBreak, date string, earliest func(memberID string) Minutes, fixed map[string]Minutes) error {
	if len(groups) == 0 {
		return nil
	}
	raw := make([]Minutes, len(groups))
	switch {
	case fixed != nil:
		for i, grp := range groups {
			raw[i] = fixed[grp.GroupID]
		}
	case g.distributes(act):
		g.balancedSlots(raw, act, window)
	default:
		g.sequentialSlots(raw, groups, act, window, earliest)
	}

	for i := range groups {
		slot := raw[i]
		if lunch.Overlaps(slot, slot+act.Duration) {
			slot = lunch.End
		}
		target := slot
		for _, id := range groups[i].Members {
			if lb := earliest(id); lb > target {
				target = lb
			}
		}
		if target+act.Duration > window.End {
			return &SchedulingFailureError{
				Activity: act.Name,
				GroupID:  groups[i].GroupID,
				Date:     date,
				Start:    target,
				End:      target + act.Duration,
			}
		}
		groups[i].Start = target
		groups[i].End = target + act.Duration
	}
	return nil
}

// balancedSlots spreads the groups evenly across the operating window so
// no cohort is parked at the end of the day.
func (g *GroupScheduler) balancedSlots(raw []Minutes, act Activity, window OperatingWindow) {
	n := len(raw)
	if n == 1 {
		raw[0] = window.Start
		return
	}
	available := float64(window.End - window.Start - act.Duration)
	interval := available / float64(n-1)
	if interval < float64(g.policy.MinGap) {
		interval = float64(g.policy.MinGap)
	}
	if interval > float64(g.policy.MaxGap) {
		interval = float64(g.policy.MaxGap)
	}
	for i := 0; i < n; i++ {
		raw[i] = window.Start + Minutes(math.Floor(float64(i)*interval))
	}
}

// sequentialSlots packs groups back to back from the window start with a
// fixed buffer between them.
func (g *GroupScheduler) sequentialSlots(raw []Minutes, groups []GroupAssignment, act Activity, window OperatingWindow, earliest func(memberID string) Minutes) {
	start := window.Start
	for _, id := range groups[0].Members {
		if lb := earliest(id); lb > start {
			start = lb
		}
	}
	for i := range raw {
		if i > 0 {
			start = raw[i-1] + act.Duration + g.policy.SequentialBuffer
		}
		raw[i] = start
	}
}
