package schedule

import (
	"sort"
)

// Resolver validates and queries the directed activity-ordering graph.
type Resolver struct {
	rules  []PrecedenceRule
	bySucc map[string][]PrecedenceRule
	byPred map[string][]PrecedenceRule
}

// NewResolver builds the resolver and rejects cyclic rule sets with a
// *CycleError naming the offending cycle.
func NewResolver(rules []PrecedenceRule) (*Resolver, error) {
	r := &Resolver{
		rules:  rules,
		bySucc: make(map[string][]PrecedenceRule),
		byPred: make(map[string][]PrecedenceRule),
	}
	for _, rule := range rules {
		r.bySucc[rule.Successor] = append(r.bySucc[rule.Successor], rule)
		r.byPred[rule.Predecessor] = append(r.byPred[rule.Predecessor], rule)
	}
	if cycle := r.findCycle(); cycle != nil {
		return nil, &CycleError{Cycle: cycle}
	}
	return r, nil
}

// findCycle runs a DFS over the rule graph, anchors included. Nodes are
// visited in sorted order so the reported cycle is deterministic.
func (r *Resolver) findCycle() []string {
	nodes := make(map[string]bool)
	for _, rule := range r.rules {
		nodes[rule.Predecessor] = true
		nodes[rule.Successor] = true
	}
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(names))
	var stack []string

	var visit func(n string) []string
	visit = func(n string) []string {
		color[n] = grey
		stack = append(stack, n)
		succs := make([]string, 0, len(r.byPred[n]))
		for _, rule := range r.byPred[n] {
			succs = append(succs, rule.Successor)
		}
		sort.Strings(succs)
		for _, next := range succs {
			switch color[next] {
			case grey:
				// Close the loop back to the first occurrence of next.
				for i, v := range stack {
					if v == next {
						cycle := append([]string{}, stack[i:]...)
						return append(cycle, next)
					}
				}
			case white:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, n := range names {
		if color[n] == white {
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// EarliestStart returns the lower bound for the candidate's activity:
// the max over applicable predecessor rules of predecessor_end + gap, or
// the operating-window start when no scheduled predecessor applies.
// placed maps the candidate's already-scheduled activities to their items.
func (r *Resolver) EarliestStart(c *Candidate, activity string, windowStart Minutes, placed map[string]ScheduleItem) Minutes {
	earliest := windowStart
	for _, rule := range r.bySucc[activity] {
		if rule.Predecessor == AnchorStart {
			if t := windowStart + rule.GapMinutes; t > earliest {
				earliest = t
			}
			continue
		}
		if c != nil && !c.Requires(rule.Predecessor) {
			continue
		}
		item, ok := placed[rule.Predecessor]
		if !ok {
			continue
		}
		if t := item.End + rule.GapMinutes; t > earliest {
			earliest = t
		}
	}
	return earliest
}

// AdjacentRule returns the adjacency rule pinning the start of activity,
// if one exists. Anchor predecessors are never adjacency-pinned.
func (r *Resolver) AdjacentRule(activity string) (PrecedenceRule, bool) {
	for _, rule := range r.bySucc[activity] {
		if rule.Adjacent && rule.Predecessor != AnchorStart && rule.Predecessor != AnchorEnd {
			return rule, true
		}
	}
	return PrecedenceRule{}, false
}

// endAnchored reports whether a rule pins the activity to the end of the
// day (activity -> __END__).
func (r *Resolver) endAnchored(activity string) bool {
	for _, rule := range r.byPred[activity] {
		if rule.Successor == AnchorEnd {
			return true
		}
	}
	return false
}

// TopoOrder orders the given activity names so every rule's predecessor
// comes before its successor, considering only rules whose endpoints both
// belong to the set. The order is stable: among ready activities the one
// earliest in the input wins, except that end-anchored activities are
// deferred until nothing else is ready.
func (r *Resolver) TopoOrder(names []string) []string {
	inSet := make(map[string]bool, len(names))
	for _, n := range names {
		inSet[n] = true
	}
	indeg := make(map[string]int, len(names))
	for _, n := range names {
		indeg[n] = 0
	}
	for _, rule := range r.rules {
		if inSet[rule.Predecessor] && inSet[rule.Successor] {
			indeg[rule.Successor]++
		}
	}

	out := make([]string, 0, len(names))
	done := make(map[string]bool, len(names))
	for len(out) < len(names) {
		pick := ""
		// First pass skips end-anchored activities so they sort last.
		for _, n := range names {
			if !done[n] && indeg[n] == 0 && !r.endAnchored(n) {
				pick = n
				break
			}
		}
		if pick == "" {
			for _, n := range names {
				if !done[n] && indeg[n] == 0 {
					pick = n
					break
				}
			}
		}
		if pick == "" {
			// Unreachable once NewResolver has rejected cycles; bail out
			// with the remaining names in input order.
			for _, n := range names {
				if !done[n] {
					out = append(out, n)
					done[n] = true
				}
			}
			return out
		}
		out = append(out, pick)
		done[pick] = true
		for _, rule := range r.byPred[pick] {
			if inSet[rule.Successor] {
				indeg[rule.Successor]--
			}
		}
	}
	return out
}
